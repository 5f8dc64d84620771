package audiotag

import (
	"errors"
	"fmt"
	"os"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/stage"
	"github.com/simonhull/audiotag/internal/types"
)

// WritePropertyMap replaces the file's tag with m. Keys missing from m are
// removed from the file, so a map read without WithLyrics erases lyrics
// when written back.
//
// A nil error means the new tag was committed. On error nothing observable
// changed. d is closed before returning.
//
// Example:
//
//	m := audiotag.NewPropertyMap()
//	m.Set(audiotag.KeyTitle, "Blue in Green")
//	m.Set(audiotag.KeyArtist, "Miles Davis", "Bill Evans")
//	err := audiotag.WritePropertyMap(d, m, audiotag.WithBackup(".bak"))
func WritePropertyMap(d *Descriptor, m PropertyMap, opts ...SaveOption) error {
	m = m.Clone()
	return write(d, applySaveOptions(opts), writeOp{
		what: "properties",
		mutate: func(b registry.Backend, path string, wopts registry.WriteOptions) error {
			w, ok := b.(registry.PropertyWriter)
			if !ok {
				return &UnsupportedWriteError{Format: wopts.Format, Reason: "tags are read-only"}
			}
			return w.WriteProperties(path, m, wopts)
		},
		verify: func(b registry.Backend, src registry.Source, exact bool) error {
			r, ok := b.(registry.PropertyReader)
			if !ok {
				return nil
			}
			got, _, err := r.ReadProperties(src)
			if err != nil {
				return err
			}
			if exact && !got.Equal(m) {
				return errors.New("properties read back differ from those written")
			}
			return nil
		},
	})
}

// WritePictures replaces every embedded picture with pictures, in order.
// An empty slice removes all pictures. d is closed before returning.
func WritePictures(d *Descriptor, pictures []Picture, opts ...SaveOption) error {
	pictures = append([]Picture{}, pictures...)
	return write(d, applySaveOptions(opts), writeOp{
		what: "pictures",
		mutate: func(b registry.Backend, path string, wopts registry.WriteOptions) error {
			w, ok := b.(registry.PictureWriter)
			if !ok {
				return &UnsupportedWriteError{Format: wopts.Format, Reason: "pictures are read-only"}
			}
			return w.WritePictures(path, pictures, wopts)
		},
		verify: func(b registry.Backend, src registry.Source, exact bool) error {
			r, ok := b.(registry.PictureReader)
			if !ok {
				return nil
			}
			got, _, err := r.ReadPictures(src)
			if err != nil {
				return err
			}
			if exact && !types.PicturesEqual(got, storedPictures(pictures)) {
				return fmt.Errorf("read back %d pictures that differ from the %d written", len(got), len(pictures))
			}
			return nil
		},
	})
}

// storedPictures is what a backend stores for pictures: unknown type names
// become "Other" and missing MIME types are sniffed.
func storedPictures(pictures []Picture) []Picture {
	stored := make([]Picture, len(pictures))
	for i, pic := range pictures {
		if _, ok := types.PictureTypeCode(pic.PictureType); !ok {
			pic.PictureType = PictureTypeOther
		}
		if pic.MIMEType == "" {
			pic.MIMEType = types.SniffMIME(pic.Data)
		}
		stored[i] = pic
	}
	return stored
}

// writeOp is one kind of tag replacement.
type writeOp struct {
	what   string
	mutate func(b registry.Backend, path string, opts registry.WriteOptions) error
	verify func(b registry.Backend, src registry.Source, exact bool) error
}

func write(d *Descriptor, o *saveOptions, op writeOp) error {
	s, err := open(d, o.log())
	if err != nil {
		return err
	}
	defer s.close()

	if s.backend == nil {
		return &UnsupportedFormatError{Path: s.src.Label(), Reason: "container not recognized"}
	}
	if err := s.readable(); err != nil {
		return err
	}

	target, release, err := s.target()
	if err != nil {
		return err
	}
	defer release()

	wopts := registry.WriteOptions{Format: s.format, ID3v2Version: o.id3v2Version}
	sopts := stage.Options{
		TempDir:         o.tempDir,
		BackupSuffix:    o.backupSuffix,
		PreserveModTime: o.preserveModTime,
		Checksum:        s.format == FormatMP3 || s.format == FormatFLAC,
		Logger:          s.log,
	}

	s.log.Debug().Str("write", op.what).Msg("staging write")
	return stage.Write(target, sopts,
		func(path string) error {
			return op.mutate(s.backend, path, wopts)
		},
		func(path string) error {
			return s.verify(path, op, o.validate)
		},
	)
}

// target returns the file to commit into. A read-only descriptor is
// reopened for writing by path.
func (s *session) target() (stage.Target, func(), error) {
	t := stage.Target{File: s.file, Name: s.src.Name, Path: s.src.Path}
	if writable(s.file) {
		return t, func() {}, nil
	}
	if s.src.Path == "" {
		return stage.Target{}, nil, fmt.Errorf("%s: descriptor is read-only and has no path to reopen", s.src.Label())
	}

	f, err := os.OpenFile(s.src.Path, os.O_RDWR, 0)
	if err != nil {
		return stage.Target{}, nil, fmt.Errorf("reopen for writing: %w", err)
	}
	t.File = f
	return t, func() { f.Close() }, nil
}

// verify re-reads the staged copy with a freshly detected backend.
func (s *session) verify(path string, op writeOp, exact bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	src := registry.Source{R: f, Size: info.Size(), Name: s.src.Name, Path: path}

	format, b := loadEngine().detect(src)
	if b == nil {
		return errors.New("staged copy is no longer recognized")
	}
	if b != s.backend {
		return fmt.Errorf("staged copy detected as %s instead of %s", format, s.format)
	}
	return op.verify(b, src, exact)
}
