// Package flac translates FLAC files.
//
// Metadata blocks are located by walking the stream header and decoded with
// the go-flac packages: flacvorbis for the Vorbis comment and flacpicture
// for PICTURE blocks. Stream statistics come from github.com/mewkiz/flac.
// Writes rewrite the metadata section through go-flac and leave the audio
// frames untouched.
package flac

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
	"github.com/simonhull/audiotag/internal/vorbis"
)

// backend implements the registry capabilities for FLAC.
type backend struct{}

func (b *backend) Name() string { return "flac" }

func (b *backend) Probe(src registry.Source) bool {
	return probe(src.R, src.Size, src.Label())
}

func (b *backend) ReadAudioProperties(src registry.Source, style types.ReadStyle) (*types.AudioProperties, []types.Warning, error) {
	props, warnings := readAudioProperties(src.R, src.Size, src.Label(), style)
	return props, warnings, nil
}

// ReadProperties reads the Vorbis comment block. Only the first one counts
// when a file carries several.
func (b *backend) ReadProperties(src registry.Source) (types.PropertyMap, []types.Warning, error) {
	md, err := walk(src, only(goflac.VorbisComment))
	if err != nil {
		return nil, nil, err
	}
	warnings := md.Warnings

	if len(md.Blocks) == 0 {
		return types.NewPropertyMap(), warnings, nil
	}
	if len(md.Blocks) > 1 {
		warnings = append(warnings, types.Warning{
			Stage:   "tags",
			Message: fmt.Sprintf("%d Vorbis comment blocks found, only the first is used", len(md.Blocks)),
		})
	}

	cmt, err := flacvorbis.ParseFromMetaDataBlock(md.Blocks[0])
	if err != nil {
		warnings = append(warnings, types.Warning{
			Stage:   "tags",
			Message: fmt.Sprintf("Vorbis comment block unreadable: %v", err),
		})
		return types.NewPropertyMap(), warnings, nil
	}

	props, commentWarnings := vorbis.ParseComments(cmt.Comments)
	return props, append(warnings, commentWarnings...), nil
}

func (b *backend) ReadPictures(src registry.Source) ([]types.Picture, []types.Warning, error) {
	md, err := walk(src, only(goflac.Picture))
	if err != nil {
		return nil, nil, err
	}

	pictures, warnings := readPictures(md.Blocks)
	return pictures, append(md.Warnings, warnings...), nil
}

// WriteProperties replaces the Vorbis comment block with the contents of m.
// The vendor string of an existing block is kept.
func (b *backend) WriteProperties(path string, m types.PropertyMap, _ registry.WriteOptions) error {
	comments, err := vorbis.Comments(m)
	if err != nil {
		var invalid *vorbis.InvalidKeyError
		if errors.As(err, &invalid) {
			return &types.UnrepresentableError{Format: types.FormatFLAC, Key: invalid.Key, Reason: "not a valid Vorbis comment field name"}
		}
		return err
	}
	for key, values := range m.All() {
		for _, v := range values {
			if !utf8.ValidString(v) {
				return &types.UnrepresentableError{Format: types.FormatFLAC, Key: key, Reason: "value is not valid UTF-8"}
			}
		}
	}

	return saveFile(path, func(f *goflac.File) {
		cmt := flacvorbis.New()
		if i := slices.IndexFunc(f.Meta, isType(goflac.VorbisComment)); i >= 0 {
			if existing, err := flacvorbis.ParseFromMetaDataBlock(*f.Meta[i]); err == nil {
				cmt.Vendor = existing.Vendor
			}
		}
		cmt.Comments = comments

		block := cmt.Marshal()
		replaceBlocks(f, goflac.VorbisComment, &block)
	})
}

// WritePictures replaces every PICTURE block, keeping the given order.
func (b *backend) WritePictures(path string, pictures []types.Picture, _ registry.WriteOptions) error {
	return saveFile(path, func(f *goflac.File) {
		blocks := make([]*goflac.MetaDataBlock, 0, len(pictures))
		for _, pic := range pictures {
			block := pictureBlock(pic)
			blocks = append(blocks, &block)
		}
		replaceBlocks(f, goflac.Picture, blocks...)
	})
}

// saveFile parses the metadata of the file at path, applies edit and saves
// it in place.
func saveFile(path string, edit func(f *goflac.File)) error {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse FLAC file: %w", err)
	}
	edit(f)
	if err := f.Save(path); err != nil {
		return fmt.Errorf("save FLAC file: %w", err)
	}
	return nil
}

// replaceBlocks removes every block of type t and inserts blocks where the
// first one was. Without an existing block, they go before the first
// padding block, or last.
func replaceBlocks(f *goflac.File, t goflac.BlockType, blocks ...*goflac.MetaDataBlock) {
	at := slices.IndexFunc(f.Meta, isType(t))
	f.Meta = slices.DeleteFunc(f.Meta, isType(t))
	if at < 0 {
		at = slices.IndexFunc(f.Meta, isType(goflac.Padding))
	}
	if at < 0 {
		at = len(f.Meta)
	}
	// STREAMINFO stays first
	at = min(max(at, 1), len(f.Meta))
	f.Meta = slices.Insert(f.Meta, at, blocks...)
}

func isType(t goflac.BlockType) func(*goflac.MetaDataBlock) bool {
	return func(block *goflac.MetaDataBlock) bool { return block.Type == t }
}

func init() {
	registry.Register(types.FormatFLAC, &backend{})
}
