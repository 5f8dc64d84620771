// Package registry manages the format backends that translate containers to
// and from the unified metadata model.
//
// Every backend implements Backend and opts into capabilities by also
// implementing the reader and writer interfaces below. Backends register
// themselves per format from init functions.
package registry

import (
	"errors"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/simonhull/audiotag/internal/types"
)

// Source is read access to a file handed to a backend.
type Source struct {
	// Random access to the file contents
	R io.ReaderAt

	// Size of the file in bytes
	Size int64

	// Name hint used for messages and extension-based detection
	Name string

	// On-disk path when known; empty for anonymous descriptors
	Path string
}

// Reader returns an independent sequential reader over the whole file.
func (s Source) Reader() *io.SectionReader {
	return io.NewSectionReader(s.R, 0, s.Size)
}

// Label returns the best name for messages.
func (s Source) Label() string {
	if s.Path != "" {
		return s.Path
	}
	if s.Name != "" {
		return s.Name
	}
	return "<descriptor>"
}

// WriteOptions are the format knobs passed through to writers.
type WriteOptions struct {
	// Format of the file being written
	Format types.Format

	// ID3v2 major version to write (3 or 4)
	ID3v2Version byte
}

// ErrUnreadable is returned by readers when a recognized container cannot
// be parsed at all. The file then reads as absent.
var ErrUnreadable = errors.New("container unreadable")

// Backend is the interface all format backends implement.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string
}

// Prober is an optional interface for backends that can cheaply confirm a
// file is really theirs. It is used to validate a format guessed from the
// file name.
type Prober interface {
	Probe(src Source) bool
}

// Initializer is an optional interface for backends with one-time setup.
type Initializer interface {
	Init() error
}

// AudioPropertiesReader is implemented by backends that compute stream
// statistics. A nil result with a nil error means no audio stream was found.
type AudioPropertiesReader interface {
	ReadAudioProperties(src Source, style types.ReadStyle) (*types.AudioProperties, []types.Warning, error)
}

// PropertyReader is implemented by backends that read tags.
type PropertyReader interface {
	ReadProperties(src Source) (types.PropertyMap, []types.Warning, error)
}

// PictureReader is implemented by backends that read embedded pictures.
// Backends return an empty, non-nil slice when the file has none.
type PictureReader interface {
	ReadPictures(src Source) ([]types.Picture, []types.Warning, error)
}

// PropertyWriter is implemented by backends that can replace the tag of the
// file at path. Keys missing from m are removed from the file.
type PropertyWriter interface {
	WriteProperties(path string, m types.PropertyMap, opts WriteOptions) error
}

// PictureWriter is implemented by backends that can replace the whole
// picture set of the file at path.
type PictureWriter interface {
	WritePictures(path string, pictures []types.Picture, opts WriteOptions) error
}

var (
	mu       sync.RWMutex
	backends = make(map[types.Format]Backend)
)

// Register registers a backend for a format.
// This is called by format packages during initialization (init functions).
func Register(format types.Format, backend Backend) {
	mu.Lock()
	defer mu.Unlock()
	backends[format] = backend
}

// Get returns the backend for a given format.
// Returns nil if no backend is registered for the format.
func Get(format types.Format) Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backends[format]
}

// Snapshot returns a copy of the current format to backend table.
func Snapshot() map[types.Format]Backend {
	mu.RLock()
	defer mu.RUnlock()
	return maps.Clone(backends)
}

// Formats returns the registered formats in ascending order.
func Formats() []types.Format {
	mu.RLock()
	defer mu.RUnlock()
	return slices.Sorted(maps.Keys(backends))
}
