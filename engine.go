package audiotag

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

var logger atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	logger.Store(&nop)
}

// SetLogger replaces the package logger. The default discards everything.
func SetLogger(l zerolog.Logger) {
	logger.Store(&l)
}

func packageLogger() zerolog.Logger {
	return *logger.Load()
}

// engine is the immutable format dispatch table.
type engine struct {
	backends map[Format]registry.Backend
}

// loadEngine builds the dispatch table on first use.
var loadEngine = sync.OnceValue(func() *engine {
	return newEngine(registry.Snapshot(), packageLogger())
})

// newEngine runs each backend initializer once. Backends that fail to
// initialize are left out of the table.
func newEngine(backends map[Format]registry.Backend, log zerolog.Logger) *engine {
	e := &engine{backends: make(map[Format]registry.Backend, len(backends))}
	initialized := make(map[registry.Backend]error)

	for format, b := range backends {
		if i, ok := b.(registry.Initializer); ok {
			err, done := initialized[b]
			if !done {
				err = i.Init()
				initialized[b] = err
			}
			if err != nil {
				log.Warn().Err(err).Str("backend", b.Name()).Stringer("format", format).Msg("backend disabled")
				continue
			}
		}
		e.backends[format] = b
	}
	return e
}

// detect picks the format and backend for src: the name hint first,
// confirmed by the backend's probe, then the content signature.
func (e *engine) detect(src registry.Source) (Format, registry.Backend) {
	if f := types.FormatFromName(src.Name); f != FormatUnknown {
		if b := e.backends[f]; b != nil {
			if p, ok := b.(registry.Prober); !ok || p.Probe(src) {
				return f, b
			}
		}
	}

	f, err := types.DetectFormat(src.R, src.Size, src.Label())
	if err != nil {
		return FormatUnknown, nil
	}
	return f, e.backends[f]
}

// session is one façade call holding a consumed descriptor.
type session struct {
	file    *os.File
	src     registry.Source
	format  Format
	backend registry.Backend
	log     zerolog.Logger
}

// open claims d and detects its format. The backend is nil when the
// container is not recognized.
func open(d *Descriptor, log zerolog.Logger) (*session, error) {
	f, err := d.take()
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}

	s := &session{
		file: f,
		src: registry.Source{
			R:    f,
			Size: info.Size(),
			Name: d.name,
			Path: filePath(f),
		},
	}
	s.format, s.backend = loadEngine().detect(s.src)
	s.log = log.With().Str("file", s.src.Label()).Stringer("format", s.format).Logger()

	if s.backend == nil {
		s.log.Debug().Msg("container not recognized")
	} else {
		s.log.Debug().Str("backend", s.backend.Name()).Msg("backend selected")
	}
	return s, nil
}

func (s *session) close() {
	if err := s.file.Close(); err != nil {
		s.log.Debug().Err(err).Msg("close descriptor")
	}
}

// unreadable reports whether err means the backend could not parse the
// container at all, which reads as absent.
func (s *session) unreadable(err error) bool {
	if !errors.Is(err, registry.ErrUnreadable) {
		return false
	}
	s.log.Debug().Err(err).Msg("container unreadable")
	return true
}

// readable fails with *UnsupportedFormatError when the backend cannot parse
// the container, so that it is never written.
func (s *session) readable() error {
	r, ok := s.backend.(registry.PropertyReader)
	if !ok {
		return nil
	}
	if _, _, err := r.ReadProperties(s.src); err != nil {
		if s.unreadable(err) {
			return &UnsupportedFormatError{Path: s.src.Label(), Reason: err.Error()}
		}
		return fmt.Errorf("read properties: %w", err)
	}
	return nil
}

// finish applies the warning options to warnings collected by a read.
func (s *session) finish(warnings []Warning, o *readOptions) ([]Warning, error) {
	for _, w := range warnings {
		s.log.Debug().Str("stage", w.Stage).Int64("offset", w.Offset).Msg(w.Message)
	}
	if o.strictParsing && len(warnings) > 0 {
		w := warnings[0]
		return nil, &CorruptedFileError{Path: s.src.Label(), Reason: w.Message, Offset: w.Offset}
	}
	if o.ignoreWarnings {
		return nil, nil
	}
	return warnings, nil
}

func (o *readOptions) log() zerolog.Logger {
	if o.logger != nil {
		return *o.logger
	}
	return packageLogger()
}

func (o *saveOptions) log() zerolog.Logger {
	if o.logger != nil {
		return *o.logger
	}
	return packageLogger()
}
