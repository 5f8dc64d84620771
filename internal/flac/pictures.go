package flac

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF for DecodeConfig
	_ "image/jpeg" // register JPEG for DecodeConfig
	_ "image/png"  // register PNG for DecodeConfig

	"github.com/go-flac/flacpicture"
	goflac "github.com/go-flac/go-flac"

	"github.com/simonhull/audiotag/internal/charset"
	"github.com/simonhull/audiotag/internal/types"
)

// readPictures converts PICTURE blocks in file order.
func readPictures(blocks []goflac.MetaDataBlock) ([]types.Picture, []types.Warning) {
	pictures := []types.Picture{}
	var warnings []types.Warning

	for i, block := range blocks {
		pic, err := flacpicture.ParseFromMetaDataBlock(block)
		if err != nil {
			warnings = append(warnings, types.Warning{
				Stage:   "pictures",
				Message: fmt.Sprintf("picture block %d skipped: %v", i, err),
			})
			continue
		}
		if pic.MIME == "-->" {
			warnings = append(warnings, types.Warning{
				Stage:   "pictures",
				Message: fmt.Sprintf("picture block %d links to an external image, skipped", i),
			})
			continue
		}

		name, known := types.PictureTypeName(uint32(pic.PictureType))
		if !known {
			warnings = append(warnings, types.Warning{
				Stage:   "pictures",
				Message: fmt.Sprintf("reserved picture type %d read as %q", pic.PictureType, name),
			})
		}

		description, fellBack := charset.Normalize(pic.Description)
		if fellBack {
			warnings = append(warnings, types.Warning{
				Stage:   "encoding",
				Message: fmt.Sprintf("picture block %d description is not valid UTF-8, kept as ISO-8859-1", i),
			})
		}

		mimeType := pic.MIME
		if mimeType == "" {
			mimeType = types.SniffMIME(pic.ImageData)
		}

		pictures = append(pictures, types.Picture{
			Data:        pic.ImageData,
			Description: description,
			PictureType: name,
			MIMEType:    mimeType,
		})
	}

	return pictures, warnings
}

// pictureBlock renders a picture as a PICTURE metadata block. Dimensions
// are filled in for image formats the standard library can decode.
func pictureBlock(pic types.Picture) goflac.MetaDataBlock {
	code, _ := types.PictureTypeCode(pic.PictureType)

	mimeType := pic.MIMEType
	if mimeType == "" {
		mimeType = types.SniffMIME(pic.Data)
	}

	block := &flacpicture.MetadataBlockPicture{
		PictureType: flacpicture.PictureType(code),
		MIME:        mimeType,
		Description: pic.Description,
		ImageData:   pic.Data,
	}
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(pic.Data)); err == nil {
		block.Width = uint32(cfg.Width)
		block.Height = uint32(cfg.Height)
		block.ColorDepth = colorDepth(format)
	}
	return block.Marshal()
}

// colorDepth is the bits per pixel recorded for a decoded image format.
func colorDepth(format string) uint32 {
	switch format {
	case "jpeg":
		return 24
	case "png":
		return 32
	case "gif":
		return 8
	default:
		return 0
	}
}
