// Package stage rewrites files through a verified staged copy.
//
// A write never touches the original until the new contents have been
// produced and checked: the file is copied next to itself (or into a chosen
// directory), the copy is mutated by a format backend, the copy is read back,
// and only then are its bytes committed over the original in place. Writing
// in place keeps the inode, so every open descriptor of the file sees the
// new contents. A commit that fails midway keeps the staged copy and names
// it in a *types.CommitError.
package stage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dhowden/tag"
	"github.com/rs/zerolog"

	"github.com/simonhull/audiotag/internal/types"
)

// Target is the file being rewritten.
type Target struct {
	// Open file to commit into; it must be writable
	File *os.File

	// Name hint; the staged copy keeps its extension
	Name string

	// On-disk path when known, used for backups and modification times
	Path string
}

// Options configures a staged write.
type Options struct {
	// Directory for the staged copy. Empty means next to Path, or the
	// system temp directory for anonymous targets.
	TempDir string

	// When set, the original contents are saved to Path+BackupSuffix
	BackupSuffix string

	// Restore the original modification time after commit
	PreserveModTime bool

	// Compare audio payload checksums of the original and the staged copy
	Checksum bool

	Logger zerolog.Logger
}

// Mutate rewrites the staged copy at path.
type Mutate func(path string) error

// Verify checks the staged copy at path before it is committed. A non-nil
// error aborts the write with a *types.VerificationError.
type Verify func(path string) error

// Write runs the staged write protocol on t. Any error before the commit
// leaves the original untouched.
func Write(t Target, opts Options, mutate Mutate, verify Verify) error {
	log := opts.Logger.With().Str("file", t.label()).Logger()

	info, err := t.File.Stat()
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	staged, err := t.copy(info.Size(), opts.TempDir)
	if err != nil {
		return err
	}
	keep := false
	defer func() {
		if !keep {
			_ = os.Remove(staged) //nolint:errcheck // best effort cleanup
		}
	}()
	log.Debug().Str("staged", staged).Msg("staged copy created")

	if err := mutate(staged); err != nil {
		return err
	}

	if verify != nil {
		if err := verify(staged); err != nil {
			return &types.VerificationError{Path: t.label(), Reason: err.Error()}
		}
	}
	if opts.Checksum {
		if err := sameAudio(t.File, info.Size(), staged); err != nil {
			return &types.VerificationError{Path: t.label(), Reason: err.Error()}
		}
	}
	log.Debug().Msg("staged copy verified")

	if opts.BackupSuffix != "" && t.Path != "" {
		backup := t.Path + opts.BackupSuffix
		if err := copyFile(backup, io.NewSectionReader(t.File, 0, info.Size()), info.Mode().Perm()); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
		log.Debug().Str("backup", backup).Msg("backup written")
	}

	n, err := commit(t.File, staged)
	if err != nil {
		var cerr *types.CommitError
		if errors.As(err, &cerr) {
			keep = true
			cerr.Path = t.label()
			log.Error().Err(cerr.Err).Str("staged", staged).Msg("commit interrupted, staged copy kept")
			return cerr
		}
		return fmt.Errorf("commit: %w", err)
	}
	log.Info().Int64("size", n).Msg("write committed")

	if opts.PreserveModTime && t.Path != "" {
		if err := os.Chtimes(t.Path, time.Time{}, info.ModTime()); err != nil {
			log.Warn().Err(err).Msg("modification time not restored")
		}
	}
	return nil
}

func (t Target) label() string {
	if t.Path != "" {
		return t.Path
	}
	if t.Name != "" {
		return t.Name
	}
	return t.File.Name()
}

// copy writes the current contents of the target to a new staged file and
// returns its path.
func (t Target) copy(size int64, dir string) (string, error) {
	if dir == "" && t.Path != "" {
		dir = filepath.Dir(t.Path)
	}

	tmp, err := os.CreateTemp(dir, ".audiotag-*"+filepath.Ext(t.Name))
	if err != nil {
		return "", fmt.Errorf("create staged copy: %w", err)
	}
	path := tmp.Name()

	_, err = io.Copy(tmp, io.NewSectionReader(t.File, 0, size))
	if err == nil {
		err = tmp.Close()
	} else {
		_ = tmp.Close() //nolint:errcheck // copy error takes precedence
	}
	if err != nil {
		_ = os.Remove(path) //nolint:errcheck // best effort cleanup
		return "", fmt.Errorf("write staged copy: %w", err)
	}
	return path, nil
}

// commit overwrites f with the contents of the staged file and returns the
// new size. The space the new contents need is reserved first, so running
// out of disk fails before the original is touched. Errors once copying
// has started are returned as *types.CommitError.
func commit(f *os.File, staged string) (int64, error) {
	src, err := os.Open(staged)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return 0, err
	}
	if err := reserve(f, info.Size()); err != nil {
		return 0, fmt.Errorf("reserve %d bytes: %w", info.Size(), err)
	}

	n, err := io.Copy(io.NewOffsetWriter(f, 0), src)
	if err == nil {
		err = f.Truncate(n)
	}
	if err == nil {
		err = f.Sync()
	}
	if err != nil {
		return n, &types.CommitError{Staged: staged, Err: err}
	}
	return n, nil
}

func copyFile(path string, r io.Reader, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close() //nolint:errcheck // copy error takes precedence
		return err
	}
	return f.Close()
}

var errAudioChanged = errors.New("audio payload changed")

// sameAudio compares the tag-invariant checksums of the original and the
// staged copy.
func sameAudio(original io.ReaderAt, size int64, staged string) error {
	want, err := audioSum(original, size)
	if err != nil {
		return fmt.Errorf("checksum original: %w", err)
	}

	f, err := os.Open(staged)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	got, err := audioSum(f, info.Size())
	if err != nil {
		return fmt.Errorf("checksum staged copy: %w", err)
	}

	if got != want {
		return errAudioChanged
	}
	return nil
}

// audioSum checksums the audio payload. FLAC streams go to tag.SumFLAC.
// Everything else is treated as MPEG audio: the region between a leading
// ID3v2 tag and a trailing ID3v1 tag is hashed with tag.SumAll, so tagged
// and untagged copies of the same stream agree.
func audioSum(r io.ReaderAt, size int64) (string, error) {
	head := make([]byte, 10)
	n, err := r.ReadAt(head, 0)
	if n < 4 {
		if err == nil || errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return "", err
	}
	if string(head[:4]) == "fLaC" {
		return tag.SumFLAC(io.NewSectionReader(r, 0, size))
	}

	start, end := id3v2End(head[:n]), size
	if end-start >= 128 {
		marker := make([]byte, 3)
		if _, err := r.ReadAt(marker, end-128); err == nil && string(marker) == "TAG" {
			end -= 128
		}
	}
	start = min(start, end)

	// SumAll reports read failures as an empty sum
	sum, err := tag.SumAll(io.NewSectionReader(r, start, end-start))
	if err == nil && sum == "" {
		err = errors.New("audio payload unreadable")
	}
	return sum, err
}

// id3v2End returns the offset just past an ID3v2 tag at the start of head,
// footer included, or 0 when there is none.
func id3v2End(head []byte) int64 {
	if len(head) < 10 || string(head[:3]) != "ID3" {
		return 0
	}
	var size int64
	for _, b := range head[6:10] {
		size = size<<7 | int64(b&0x7F)
	}
	end := 10 + size
	if head[5]&0x10 != 0 {
		end += 10
	}
	return end
}
