package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

var (
	withLyrics  bool
	extractDir  string
	setBackup   string
	setValidate bool
	setID3v2    uint8
	setKeep     bool
)

var errUnrecognized = errors.New("not a recognized audio file")

var propsCommand = &cobra.Command{
	Use:   "props <file>",
	Short: "Print audio properties",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		style, err := audiotag.ParseReadStyle(readStyle)
		if err != nil {
			return err
		}
		d, err := audiotag.Open(args[0])
		if err != nil {
			return err
		}
		props, err := audiotag.ReadAudioProperties(d, audiotag.WithReadStyle(style))
		if err != nil {
			return err
		}
		if props == nil {
			return errUnrecognized
		}
		fmt.Fprintf(cmd.OutOrStdout(), "length:      %s\n", props.Length)
		fmt.Fprintf(cmd.OutOrStdout(), "bitrate:     %d kbps\n", props.Bitrate)
		fmt.Fprintf(cmd.OutOrStdout(), "sample rate: %d Hz\n", props.SampleRate)
		fmt.Fprintf(cmd.OutOrStdout(), "channels:    %d\n", props.Channels)
		return nil
	},
}

var tagsCommand = &cobra.Command{
	Use:   "tags <file>",
	Short: "Print every property",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := audiotag.Open(args[0])
		if err != nil {
			return err
		}
		opts := []audiotag.Option{audiotag.WithoutAudioProperties()}
		if withLyrics {
			opts = append(opts, audiotag.WithLyrics())
		}
		md, err := audiotag.ReadMetadata(d, opts...)
		if err != nil {
			return err
		}
		if md == nil {
			return errUnrecognized
		}

		fmt.Fprintf(cmd.OutOrStdout(), "format: %s\n", md.Format)
		for key, values := range md.Properties.All() {
			for _, v := range values {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, v)
			}
		}
		for _, w := range md.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
		return nil
	},
}

var picturesCommand = &cobra.Command{
	Use:   "pictures <file>",
	Short: "List embedded pictures",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := audiotag.Open(args[0])
		if err != nil {
			return err
		}
		pictures, err := audiotag.ReadPictures(d)
		if err != nil {
			return err
		}
		if pictures == nil {
			return errUnrecognized
		}

		for i, pic := range pictures {
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", i, pic)
			if extractDir == "" {
				continue
			}
			name := filepath.Join(extractDir, fmt.Sprintf("%02d%s", i, pictureExt(pic.MIMEType)))
			if err := os.WriteFile(name, pic.Data, 0o644); err != nil {
				return err
			}
		}
		return nil
	},
}

var lyricsCommand = &cobra.Command{
	Use:   "lyrics <file>",
	Short: "Print the lyrics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := audiotag.Open(args[0])
		if err != nil {
			return err
		}
		lyrics, ok, err := audiotag.ReadLyrics(d)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("no lyrics")
		}
		fmt.Fprintln(cmd.OutOrStdout(), lyrics)
		return nil
	},
}

var setCommand = &cobra.Command{
	Use:   "set <file> KEY=VALUE...",
	Short: "Replace the tag with the given properties",
	Long: `Replace the tag with the given properties.

Repeat a key to give it several values. With --keep the existing
properties (lyrics included) are kept and only the given keys are
replaced; an empty value removes a key.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		edits, err := parseAssignments(args[1:])
		if err != nil {
			return err
		}

		d, err := audiotag.Open(args[0])
		if err != nil {
			return err
		}

		props := audiotag.NewPropertyMap()
		if setKeep {
			again, err := d.Dup()
			if err != nil {
				d.Close()
				return err
			}
			md, err := audiotag.ReadMetadata(again, audiotag.WithLyrics(), audiotag.WithoutAudioProperties())
			if err != nil {
				d.Close()
				return err
			}
			if md == nil {
				d.Close()
				return errUnrecognized
			}
			props = md.Properties
		}
		for key, values := range edits.All() {
			props.Set(key, nonEmpty(values)...)
		}

		return audiotag.WritePropertyMap(d, props, saveOptions()...)
	},
}

var clearPicturesCommand = &cobra.Command{
	Use:   "clear-pictures <file>",
	Short: "Remove every embedded picture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := audiotag.Open(args[0])
		if err != nil {
			return err
		}
		return audiotag.WritePictures(d, []audiotag.Picture{}, saveOptions()...)
	},
}

func init() {
	tagsCommand.Flags().BoolVar(&withLyrics, "lyrics", false, "include lyrics keys")
	picturesCommand.Flags().StringVar(&extractDir, "extract", "", "write the pictures into `dir`")

	for _, cmd := range []*cobra.Command{setCommand, clearPicturesCommand} {
		cmd.Flags().StringVar(&setBackup, "backup", "", "keep the original with this suffix")
		cmd.Flags().BoolVar(&setValidate, "validate", false, "require an exact read-back before committing")
		cmd.Flags().Uint8Var(&setID3v2, "id3v2", 4, "ID3v2 version for MP3 files (3 or 4)")
	}
	setCommand.Flags().BoolVar(&setKeep, "keep", false, "merge with the existing properties")
}

func saveOptions() []audiotag.SaveOption {
	opts := []audiotag.SaveOption{audiotag.WithID3v2Version(setID3v2)}
	if setBackup != "" {
		opts = append(opts, audiotag.WithBackup(setBackup))
	}
	if setValidate {
		opts = append(opts, audiotag.WithValidation())
	}
	return opts
}

// parseAssignments collects KEY=VALUE arguments in order.
func parseAssignments(args []string) (audiotag.PropertyMap, error) {
	props := audiotag.NewPropertyMap()
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%q is not KEY=VALUE", arg)
		}
		props.Add(key, value)
	}
	return props, nil
}

func nonEmpty(values []string) []string {
	var kept []string
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	return kept
}

func pictureExt(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ".bin"
}
