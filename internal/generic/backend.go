// Package generic translates the containers handled by TagLib: MP4, Ogg
// Vorbis, Opus, WAV, AIFF, APE, WavPack, ASF and DSF.
//
// It is a thin layer over go.senan.xyz/taglib, which runs TagLib compiled
// to WebAssembly. TagLib already speaks the PropertyMap vocabulary, so the
// work here is normalization and checking what a container can hold.
// TagLib opens files by path; sources without one, like containers TagLib
// cannot open, are reported as registry.ErrUnreadable.
package generic

import (
	"fmt"
	"path/filepath"

	"go.senan.xyz/taglib"

	"github.com/simonhull/audiotag/internal/charset"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
	"github.com/simonhull/audiotag/internal/vorbis"
)

// backend serves one format through TagLib.
type backend struct {
	format types.Format
}

func (b *backend) Name() string { return "taglib" }

// Probe confirms the content signature matches the backend's format.
func (b *backend) Probe(src registry.Source) bool {
	detected, err := types.DetectFormat(src.R, src.Size, src.Label())
	if err != nil {
		return false
	}
	return family(detected) == family(b.format)
}

// family folds formats sharing a container.
func family(f types.Format) types.Format {
	switch f {
	case types.FormatM4B:
		return types.FormatM4A
	case types.FormatOpus:
		return types.FormatOgg
	}
	return f
}

func (b *backend) ReadAudioProperties(src registry.Source, _ types.ReadStyle) (*types.AudioProperties, []types.Warning, error) {
	path, err := resolve(src)
	if err != nil {
		return nil, nil, err
	}

	props, err := taglib.ReadProperties(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: TagLib could not read stream properties: %v", registry.ErrUnreadable, err)
	}
	if props.Length == 0 && props.SampleRate == 0 {
		return nil, nil, nil
	}
	return types.NewAudioProperties(props.Length, int(props.Bitrate), int(props.SampleRate), int(props.Channels)), nil, nil
}

func (b *backend) ReadProperties(src registry.Source) (types.PropertyMap, []types.Warning, error) {
	path, err := resolve(src)
	if err != nil {
		return nil, nil, err
	}

	tags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: TagLib could not read tags: %v", registry.ErrUnreadable, err)
	}

	props := types.NewPropertyMap()
	var warnings []types.Warning
	for key, values := range tags {
		key, keyFellBack := charset.Normalize(key)
		for _, value := range values {
			value, fellBack := charset.Normalize(value)
			if keyFellBack || fellBack {
				warnings = append(warnings, types.Warning{
					Stage:   "encoding",
					Message: fmt.Sprintf("property %q is not valid UTF-8, kept as ISO-8859-1", key),
				})
			}
			props.Add(key, value)
		}
	}
	return props, warnings, nil
}

// ReadPictures reads every embedded image in file order.
func (b *backend) ReadPictures(src registry.Source) ([]types.Picture, []types.Warning, error) {
	path, err := resolve(src)
	if err != nil {
		return nil, nil, err
	}

	props, err := taglib.ReadProperties(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: TagLib could not list images: %v", registry.ErrUnreadable, err)
	}

	pictures := []types.Picture{}
	var warnings []types.Warning
	for i, desc := range props.Images {
		data, err := taglib.ReadImageOptions(path, i)
		if err != nil {
			warnings = append(warnings, types.Warning{
				Stage:   "pictures",
				Message: fmt.Sprintf("image %d unreadable: %v", i, err),
			})
			continue
		}

		pictureType := desc.Type
		if _, ok := types.PictureTypeCode(pictureType); !ok {
			if pictureType != "" {
				warnings = append(warnings, types.Warning{
					Stage:   "pictures",
					Message: fmt.Sprintf("image %d type %q read as %q", i, pictureType, types.PictureTypeOther),
				})
			}
			pictureType = types.PictureTypeOther
		}

		mimeType := desc.MIMEType
		if mimeType == "" {
			mimeType = types.SniffMIME(data)
		}

		pictures = append(pictures, types.Picture{
			Data:        data,
			Description: desc.Description,
			PictureType: pictureType,
			MIMEType:    mimeType,
		})
	}
	return pictures, warnings, nil
}

// WriteProperties replaces every tag TagLib maps with the contents of m.
func (b *backend) WriteProperties(path string, m types.PropertyMap, _ registry.WriteOptions) error {
	if err := b.representable(m); err != nil {
		return err
	}

	tags := make(map[string][]string, m.Len())
	for key, values := range m.All() {
		tags[key] = values
	}
	if err := taglib.WriteTags(path, tags, taglib.Clear); err != nil {
		return fmt.Errorf("TagLib write tags: %w", err)
	}
	return nil
}

// WritePictures clears every image and writes pictures in order.
func (b *backend) WritePictures(path string, pictures []types.Picture, _ registry.WriteOptions) error {
	if err := taglib.WriteImage(path, nil); err != nil {
		return fmt.Errorf("TagLib clear images: %w", err)
	}
	for i, pic := range pictures {
		mimeType := pic.MIMEType
		if mimeType == "" {
			mimeType = types.SniffMIME(pic.Data)
		}
		pictureType := pic.PictureType
		if _, ok := types.PictureTypeCode(pictureType); !ok {
			pictureType = types.PictureTypeOther
		}
		if err := taglib.WriteImageOptions(path, pic.Data, i, pictureType, pic.Description, mimeType); err != nil {
			return fmt.Errorf("TagLib write image %d: %w", i, err)
		}
	}
	return nil
}

// representable rejects keys the container cannot store. Vorbis comment
// field names are limited to printable ASCII without '='.
func (b *backend) representable(m types.PropertyMap) error {
	if family(b.format) != types.FormatOgg {
		return nil
	}
	for _, key := range m.Keys() {
		if !vorbis.ValidKey(key) {
			return &types.UnrepresentableError{Format: b.format, Key: key, Reason: "not a valid Vorbis comment field name"}
		}
	}
	return nil
}

// resolve returns the absolute path TagLib should open.
func resolve(src registry.Source) (string, error) {
	if src.Path == "" {
		return "", fmt.Errorf("%w: descriptor has no file system path", registry.ErrUnreadable)
	}
	path, err := filepath.Abs(src.Path)
	if err != nil {
		return "", fmt.Errorf("%w: resolve path: %v", registry.ErrUnreadable, err)
	}
	return path, nil
}

// formats lists the containers this backend serves.
var formats = []types.Format{
	types.FormatM4A,
	types.FormatM4B,
	types.FormatOgg,
	types.FormatOpus,
	types.FormatWAV,
	types.FormatAIFF,
	types.FormatAPE,
	types.FormatWavPack,
	types.FormatASF,
	types.FormatDSF,
}

func init() {
	for _, f := range formats {
		registry.Register(f, &backend{format: f})
	}
}
