package audiotag

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

// Descriptor is a single-use handle on an open audio file.
//
// Every read and write function takes a Descriptor and closes it before
// returning, whatever the outcome. A Descriptor that was already handed to
// one call cannot be handed to another: the second call fails with
// ErrDescriptorConsumed. To issue several calls against the same file, Dup
// the descriptor first.
//
//	d, err := audiotag.Open("song.flac")
//	if err != nil {
//		return err
//	}
//	again, err := d.Dup()
//	if err != nil {
//		d.Close()
//		return err
//	}
//	props, err := audiotag.ReadAudioProperties(d)
//	...
//	pictures, err := audiotag.ReadPictures(again)
//
// Descriptors are read with ReadAt, so duplicates sharing a file offset
// never disturb each other.
type Descriptor struct {
	file     *os.File
	name     string
	consumed atomic.Bool
}

// Open opens the file at path for reading and, when permitted, writing.
func Open(path string) (*Descriptor, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		f, err = os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
	}
	return &Descriptor{file: f, name: filepath.Base(path)}, nil
}

// NewDescriptor wraps an open file. name is a hint used for format
// detection by extension; it may be empty. The descriptor takes ownership
// of f.
func NewDescriptor(f *os.File, name string) *Descriptor {
	if name == "" {
		name = filepath.Base(f.Name())
	}
	return &Descriptor{file: f, name: name}
}

// FromFD wraps a raw file descriptor. The descriptor takes ownership of fd.
func FromFD(fd uintptr, name string) *Descriptor {
	return &Descriptor{file: os.NewFile(fd, name), name: name}
}

// Name returns the name hint.
func (d *Descriptor) Name() string {
	return d.name
}

// Dup returns an independent descriptor for the same file. The original
// stays usable.
func (d *Descriptor) Dup() (*Descriptor, error) {
	if d == nil {
		return nil, ErrNilDescriptor
	}
	if d.consumed.Load() {
		return nil, ErrDescriptorConsumed
	}
	f, err := dupFile(d.file)
	if err != nil {
		return nil, fmt.Errorf("duplicate descriptor: %w", err)
	}
	return &Descriptor{file: f, name: d.name}, nil
}

// Close releases a descriptor that will not be passed to any call.
// Closing a consumed descriptor is a no-op.
func (d *Descriptor) Close() error {
	if d == nil || !d.consumed.CompareAndSwap(false, true) {
		return nil
	}
	return d.file.Close()
}

// take claims the descriptor for one call. The caller must close the
// returned file.
func (d *Descriptor) take() (*os.File, error) {
	if d == nil {
		return nil, ErrNilDescriptor
	}
	if !d.consumed.CompareAndSwap(false, true) {
		return nil, ErrDescriptorConsumed
	}
	return d.file, nil
}

// filePath returns the on-disk path of f, or "" when it cannot be resolved.
func filePath(f *os.File) string {
	if p := fdPath(f); p != "" {
		return p
	}
	if name := f.Name(); filepath.IsAbs(name) {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}
