package audiotag

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/audiotag/internal/registry"
)

// ReadAudioProperties computes stream statistics with the read style set by
// WithReadStyle.
//
// It returns nil with a nil error when the container is not recognized or
// holds no parseable audio stream. d is closed before returning.
func ReadAudioProperties(d *Descriptor, opts ...Option) (*AudioProperties, error) {
	o := applyOptions(opts)
	s, err := open(d, o.log())
	if err != nil {
		return nil, err
	}
	defer s.close()

	props, warnings, err := s.audioProperties(o.style)
	if err != nil {
		if s.unreadable(err) {
			return nil, nil
		}
		return nil, err
	}
	if _, err := s.finish(warnings, o); err != nil {
		return nil, err
	}
	return props, nil
}

// ReadMetadata reads everything requested by opts in a single pass.
//
// It returns nil with a nil error when the container is not recognized or
// cannot be parsed. Otherwise Properties is never nil. Pictures stay nil unless WithPictures
// is given, and lyrics are only read WithLyrics. d is closed before
// returning.
//
// Example:
//
//	d, err := audiotag.Open("song.flac")
//	if err != nil {
//	    return err
//	}
//	md, err := audiotag.ReadMetadata(d, audiotag.WithPictures())
//	if err != nil {
//	    return err
//	}
//	title, _ := md.Properties.First(audiotag.KeyTitle)
func ReadMetadata(d *Descriptor, opts ...Option) (*Metadata, error) {
	o := applyOptions(opts)
	s, err := open(d, o.log())
	if err != nil {
		return nil, err
	}
	defer s.close()

	if s.backend == nil {
		return nil, nil
	}
	md, err := s.metadata(o)
	if err != nil && s.unreadable(err) {
		return nil, nil
	}
	return md, err
}

func (s *session) metadata(o *readOptions) (*Metadata, error) {
	md := &Metadata{Format: s.format}
	var warnings []Warning

	if o.audioProperties {
		props, w, err := s.audioProperties(o.style)
		if err != nil {
			return nil, err
		}
		md.AudioProperties = props
		warnings = append(warnings, w...)
	}

	props, w, err := s.properties()
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, w...)
	if o.lyrics {
		md.Lyrics, _ = props.First(KeyLyrics)
		md.Properties = props
	} else {
		md.Properties = props.WithoutPrefix(KeyLyrics)
	}

	if o.pictures {
		pictures, w, err := s.pictures(o)
		if err != nil {
			return nil, err
		}
		md.Pictures = pictures
		warnings = append(warnings, w...)
	}

	md.Warnings, err = s.finish(warnings, o)
	if err != nil {
		return nil, err
	}
	return md, nil
}

// ReadPropertyValues returns the values of one key, or nil when the key is
// absent or the container is not recognized. Lyrics keys are returned when
// asked for by name.
func ReadPropertyValues(d *Descriptor, key string, opts ...Option) ([]string, error) {
	o := applyOptions(opts)
	s, err := open(d, o.log())
	if err != nil {
		return nil, err
	}
	defer s.close()

	props, warnings, err := s.properties()
	if err != nil {
		if s.unreadable(err) {
			return nil, nil
		}
		return nil, err
	}
	if _, err := s.finish(warnings, o); err != nil {
		return nil, err
	}
	values, _ := props.Get(key)
	return values, nil
}

// ReadPictures returns the embedded pictures in stored order.
//
// A recognized file without pictures gives an empty, non-nil slice; nil is
// reserved for containers that are not recognized or cannot be parsed. d is closed before
// returning.
func ReadPictures(d *Descriptor, opts ...Option) ([]Picture, error) {
	o := applyOptions(opts)
	s, err := open(d, o.log())
	if err != nil {
		return nil, err
	}
	defer s.close()

	if s.backend == nil {
		return nil, nil
	}
	pictures, warnings, err := s.pictures(o)
	if err != nil {
		if s.unreadable(err) {
			return nil, nil
		}
		return nil, err
	}
	if _, err := s.finish(warnings, o); err != nil {
		return nil, err
	}
	return pictures, nil
}

// ReadFrontCover returns the first "Front Cover" picture, else the first
// picture, else nil.
func ReadFrontCover(d *Descriptor, opts ...Option) (*Picture, error) {
	pictures, err := ReadPictures(d, opts...)
	if err != nil {
		return nil, err
	}
	cover, ok := FrontCover(pictures)
	if !ok {
		return nil, nil
	}
	return &cover, nil
}

// ReadLyrics returns the first LYRICS value. ok is false when the file has
// none.
func ReadLyrics(d *Descriptor, opts ...Option) (lyrics string, ok bool, err error) {
	values, err := ReadPropertyValues(d, KeyLyrics, opts...)
	if err != nil || len(values) == 0 {
		return "", false, err
	}
	return values[0], true, nil
}

// ReadMetadataMany reads several descriptors concurrently, at most one per
// CPU. Results are in input order; entries for unrecognized files are nil.
//
// The first error cancels the remaining reads. Every descriptor is closed
// whether or not it was read.
func ReadMetadataMany(ctx context.Context, descriptors []*Descriptor, opts ...Option) ([]*Metadata, error) {
	results := make([]*Metadata, len(descriptors))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, d := range descriptors {
		if gctx.Err() != nil {
			for _, rest := range descriptors[i:] {
				rest.Close()
			}
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				d.Close()
				return err
			}
			md, err := ReadMetadata(d, opts...)
			if err != nil {
				return fmt.Errorf("read %s: %w", d.Name(), err)
			}
			results[i] = md
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, ctx.Err()
}

func (s *session) audioProperties(style ReadStyle) (*AudioProperties, []Warning, error) {
	r, ok := s.backend.(registry.AudioPropertiesReader)
	if !ok {
		return nil, nil, nil
	}
	props, warnings, err := r.ReadAudioProperties(s.src, style)
	if err != nil {
		return nil, nil, fmt.Errorf("read audio properties: %w", err)
	}
	return props, warnings, nil
}

func (s *session) properties() (PropertyMap, []Warning, error) {
	r, ok := s.backend.(registry.PropertyReader)
	if !ok {
		return NewPropertyMap(), nil, nil
	}
	props, warnings, err := r.ReadProperties(s.src)
	if err != nil {
		return nil, nil, fmt.Errorf("read properties: %w", err)
	}
	if props == nil {
		props = NewPropertyMap()
	}
	return props, warnings, nil
}

func (s *session) pictures(o *readOptions) ([]Picture, []Warning, error) {
	r, ok := s.backend.(registry.PictureReader)
	if !ok {
		return []Picture{}, nil, nil
	}
	pictures, warnings, err := r.ReadPictures(s.src)
	if err != nil {
		return nil, nil, fmt.Errorf("read pictures: %w", err)
	}

	kept := make([]Picture, 0, len(pictures))
	for i, pic := range pictures {
		if o.maxPictureSize > 0 && len(pic.Data) > o.maxPictureSize {
			warnings = append(warnings, Warning{
				Stage:   "pictures",
				Message: fmt.Sprintf("picture %d skipped: %d bytes exceeds limit of %d", i, len(pic.Data), o.maxPictureSize),
			})
			continue
		}
		kept = append(kept, pic)
	}
	return kept, warnings, nil
}
