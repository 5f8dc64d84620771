// Package mp3 translates MPEG audio files with ID3v2 tags.
//
// Tags are read and written with github.com/bogem/id3v2. Attached pictures
// and ID3v2.2 tags, which the library rejects, are read by walking the tag
// directly. Writing upgrades a v2.2 tag. Stream statistics come from the
// MPEG frame headers.
package mp3

import (
	"fmt"

	"github.com/bogem/id3v2/v2"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// backend implements the registry capabilities for MP3.
type backend struct{}

func (b *backend) Name() string { return "mp3" }

func (b *backend) Probe(src registry.Source) bool {
	return probe(src.R, src.Size, src.Label())
}

func (b *backend) ReadAudioProperties(src registry.Source, style types.ReadStyle) (*types.AudioProperties, []types.Warning, error) {
	props, warnings := readAudioProperties(src.R, src.Size, src.Label(), style)
	return props, warnings, nil
}

// ReadProperties reads the ID3v2 tag, falling back to ID3v1 when the file
// carries no ID3v2 frames.
func (b *backend) ReadProperties(src registry.Source) (types.PropertyMap, []types.Warning, error) {
	sr := binutil.NewSafeReader(src.R, src.Size, src.Label())

	var (
		props    types.PropertyMap
		warnings []types.Warning
	)
	if header, ok := readTagHeader(sr, 0); ok && header.Version == 2 {
		props, warnings = readLegacyTag(sr, header)
	} else {
		tag, err := id3v2.ParseReader(src.Reader(), id3v2.Options{Parse: true})
		if err != nil {
			warnings = append(warnings, types.Warning{
				Stage:   "tags",
				Message: fmt.Sprintf("ID3v2 tag unreadable: %v", err),
			})
		}
		if tag != nil && tag.HasFrames() {
			var frameWarnings []types.Warning
			props, frameWarnings = framesToProperties(tag)
			warnings = append(warnings, frameWarnings...)
		}
	}
	if props != nil && props.Len() > 0 {
		return props, warnings, nil
	}

	if v1 := readID3v1(sr, src.Size); v1 != nil {
		return v1, warnings, nil
	}
	return types.NewPropertyMap(), warnings, nil
}

func (b *backend) ReadPictures(src registry.Source) ([]types.Picture, []types.Warning, error) {
	pictures, warnings := readPictures(binutil.NewSafeReader(src.R, src.Size, src.Label()))
	return pictures, warnings, nil
}

// WriteProperties replaces every mapped frame with the contents of m.
// Pictures and frames outside the property map are kept.
func (b *backend) WriteProperties(path string, m types.PropertyMap, opts registry.WriteOptions) error {
	return saveTag(path, opts, func(tag *id3v2.Tag, version byte, kept [][]byte) error {
		if err := propertiesToFrames(tag, m, version); err != nil {
			return err
		}
		tag.DeleteFrames("APIC")
		for _, body := range kept {
			tag.AddFrame("APIC", id3v2.UnknownFrame{Body: body})
		}
		return nil
	})
}

// WritePictures replaces every attached picture, in order.
func (b *backend) WritePictures(path string, pictures []types.Picture, opts registry.WriteOptions) error {
	return saveTag(path, opts, func(tag *id3v2.Tag, version byte, _ [][]byte) error {
		tag.DeleteFrames("APIC")
		for _, pic := range pictures {
			body, err := apicBody(pic, version)
			if err != nil {
				return &types.UnrepresentableError{Format: types.FormatMP3, Key: pic.PictureType, Reason: err.Error()}
			}
			tag.AddFrame("APIC", id3v2.UnknownFrame{Body: body})
		}
		return nil
	})
}

// saveTag opens the tag at path, applies edit and saves it at the requested
// version. edit receives the existing APIC frame bodies in tag order,
// which the parsed tag may have merged. An ID3v2.2 tag is removed first and
// its contents carried into a new tag. ID3v1 tags are removed.
func saveTag(path string, opts registry.WriteOptions, edit func(tag *id3v2.Tag, version byte, kept [][]byte) error) error {
	version := opts.ID3v2Version
	if version != 3 {
		version = 4
	}

	c, err := readCarried(path, version)
	if err != nil {
		return err
	}
	if c.legacySize > 0 {
		if err := cutHead(path, c.legacySize); err != nil {
			return fmt.Errorf("remove ID3v2.2 tag: %w", err)
		}
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open ID3v2 tag: %w", err)
	}
	defer tag.Close()

	tag.SetVersion(version)
	if c.legacy != nil {
		if err := propertiesToFrames(tag, c.legacy, version); err != nil {
			return fmt.Errorf("carry ID3v2.2 frames: %w", err)
		}
		for _, body := range c.pictures {
			tag.AddFrame("APIC", id3v2.UnknownFrame{Body: body})
		}
	}
	if err := edit(tag, version, c.pictures); err != nil {
		return err
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save ID3v2 tag: %w", err)
	}
	if err := tag.Close(); err != nil {
		return fmt.Errorf("close ID3v2 tag: %w", err)
	}
	return stripID3v1(path)
}

func init() {
	registry.Register(types.FormatMP3, &backend{})
}
