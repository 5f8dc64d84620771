// Command tagdump prints and edits the tags of audio files.
//
//	tagdump props song.flac
//	tagdump tags --lyrics song.mp3
//	tagdump pictures --extract ./covers song.m4a
//	tagdump set song.flac TITLE="Blue in Green" ARTIST=Miles ARTIST=Bill
package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

var (
	verbose   bool
	readStyle string
)

var rootCommand = &cobra.Command{
	Use:           "tagdump",
	Short:         "Inspect and edit audio file tags",
	Version:       audiotag.ReadBuildInfo().String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		audiotag.SetLogger(newLogger(cmd.ErrOrStderr(), level))
	},
}

func init() {
	rootCommand.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log detection and write steps")
	rootCommand.PersistentFlags().StringVar(&readStyle, "style", "average", "audio properties read style: fast, average or accurate")

	rootCommand.AddCommand(propsCommand, tagsCommand, picturesCommand, lyricsCommand, setCommand, clearPicturesCommand)
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: w != os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stderr io.Writer) int {
	rootCommand.SetArgs(args)
	rootCommand.SetErr(stderr)
	if err := rootCommand.Execute(); err != nil {
		log := newLogger(stderr, zerolog.InfoLevel)
		log.Error().Err(err).Msg("tagdump failed")
		return 1
	}
	return 0
}
