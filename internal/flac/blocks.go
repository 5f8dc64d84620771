package flac

import (
	"fmt"

	goflac "github.com/go-flac/go-flac"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// metadata is the result of walking the metadata blocks of a stream.
type metadata struct {
	// Blocks accepted by the walk filter, in file order
	Blocks []goflac.MetaDataBlock

	// Offset of the first audio frame
	End int64

	// Number of well-formed block headers walked
	Headers int

	Warnings []types.Warning
}

// readMetadata walks the metadata blocks after the "fLaC" marker. Only the
// bodies of blocks accepted by want are loaded. ok is false when the file
// does not start with the marker.
func readMetadata(sr *binutil.SafeReader, size int64, want func(goflac.BlockType) bool) (metadata, bool) {
	var md metadata

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, 0, "FLAC magic bytes"); err != nil || string(magic) != "fLaC" {
		return md, false
	}

	offset := int64(4)
	for offset < size {
		header, err := binutil.Read[uint32](sr, offset, "metadata block header")
		if err != nil {
			md.warn(offset, "failed to read metadata block header: %v", err)
			break
		}

		isLast := header>>31 == 1
		blockType := goflac.BlockType((header >> 24) & 0x7F)
		blockLength := int64(header & 0x00FFFFFF)
		offset += 4

		if blockType == goflac.Invalid {
			md.warn(offset, "invalid metadata block type")
			break
		}
		md.Headers++
		if offset+blockLength > size {
			md.warn(offset, "metadata block type %d runs past end of file", blockType)
			offset = size
			break
		}

		if want != nil && want(blockType) {
			data := make([]byte, blockLength)
			if err := sr.ReadAt(data, offset, "metadata block"); err != nil {
				md.warn(offset, "failed to read metadata block type %d: %v", blockType, err)
			} else {
				md.Blocks = append(md.Blocks, goflac.MetaDataBlock{Type: blockType, Data: data})
			}
		}

		offset += blockLength
		if isLast {
			break
		}
	}

	md.End = offset
	return md, true
}

// walk reads the metadata of src, keeping blocks accepted by want. It
// fails with registry.ErrUnreadable when not a single block header could be
// read.
func walk(src registry.Source, want func(goflac.BlockType) bool) (metadata, error) {
	sr := binutil.NewSafeReader(src.R, src.Size, src.Label())
	md, ok := readMetadata(sr, src.Size, want)
	if !ok {
		return md, fmt.Errorf("%w: no FLAC stream marker", registry.ErrUnreadable)
	}
	if md.Headers == 0 {
		return md, fmt.Errorf("%w: no readable FLAC metadata block", registry.ErrUnreadable)
	}
	return md, nil
}

func (md *metadata) warn(offset int64, format string, args ...any) {
	md.Warnings = append(md.Warnings, types.Warning{
		Stage:   "metadata",
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	})
}

// only returns a walk filter accepting the given block types.
func only(blockTypes ...goflac.BlockType) func(goflac.BlockType) bool {
	return func(t goflac.BlockType) bool {
		for _, want := range blockTypes {
			if t == want {
				return true
			}
		}
		return false
	}
}
