package mp3

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/charset"
	"github.com/simonhull/audiotag/internal/types"
)

var (
	errAPICTooShort    = errors.New("APIC frame too short")
	errAPICNoMIMETerm  = errors.New("APIC MIME type not null-terminated")
	errAPICTruncated   = errors.New("APIC frame truncated after MIME type")
	errAPICNoImageData = errors.New("APIC frame has no image data")
)

// readPictures extracts APIC (PIC in ID3v2.2) frames in tag order.
//
// Frames are walked directly rather than through the tag library so that
// pictures sharing a type and description are all kept.
func readPictures(sr *binutil.SafeReader) ([]types.Picture, []types.Warning) {
	pictures := []types.Picture{}

	header, ok := readTagHeader(sr, 0)
	if !ok {
		return pictures, nil
	}

	frames, warnings := readFrames(sr, header, func(id string) bool {
		return id == "APIC" || id == "PIC"
	})

	for _, frame := range frames {
		var (
			pic      types.Picture
			code     byte
			fellBack bool
			err      error
		)
		if frame.ID == "PIC" {
			pic, code, fellBack, err = parsePICFrame(frame.Data)
		} else {
			pic, code, fellBack, err = parseAPICFrame(frame.Data)
		}
		if err != nil {
			warnings = append(warnings, types.Warning{Stage: "pictures", Message: err.Error()})
			continue
		}

		name, known := types.PictureTypeName(uint32(code))
		if !known {
			warnings = append(warnings, types.Warning{
				Stage:   "pictures",
				Message: fmt.Sprintf("reserved picture type %d read as %q", code, name),
			})
		}
		if fellBack {
			warnings = append(warnings, types.Warning{
				Stage:   "encoding",
				Message: fmt.Sprintf("picture description %q is not valid in its declared encoding", pic.Description),
			})
		}
		pic.PictureType = name
		pictures = append(pictures, pic)
	}

	return pictures, warnings
}

// parseAPICFrame parses an APIC (Attached Picture) frame.
// Format:
//
//	[1 byte]              Text encoding
//	[null-terminated]     MIME type
//	[1 byte]              Picture type
//	[null-terminated]     Description
//	[remaining]           Picture data
func parseAPICFrame(data []byte) (types.Picture, byte, bool, error) {
	if len(data) < 4 {
		return types.Picture{}, 0, false, errAPICTooShort
	}

	encoding := data[0]
	pos := 1

	// MIME type is always ISO-8859-1
	mimeEnd := bytes.IndexByte(data[pos:], 0)
	if mimeEnd < 0 {
		return types.Picture{}, 0, false, errAPICNoMIMETerm
	}
	mimeType := normalizeMIME(charset.DecodeLatin1(data[pos : pos+mimeEnd]))
	pos += mimeEnd + 1

	if pos >= len(data) {
		return types.Picture{}, 0, false, errAPICTruncated
	}
	code := data[pos]
	pos++

	pic, fellBack, err := parsePictureTail(data[pos:], encoding, mimeType)
	return pic, code, fellBack, err
}

// parsePICFrame parses an ID3v2.2 PIC frame, which carries a three letter
// image format instead of a MIME type.
func parsePICFrame(data []byte) (types.Picture, byte, bool, error) {
	if len(data) < 6 {
		return types.Picture{}, 0, false, errAPICTooShort
	}
	encoding := data[0]
	mimeType := normalizeMIME(string(data[1:4]))
	code := data[4]

	pic, fellBack, err := parsePictureTail(data[5:], encoding, mimeType)
	return pic, code, fellBack, err
}

// parsePictureTail parses the description and image data shared by APIC
// and PIC.
func parsePictureTail(data []byte, encoding byte, mimeType string) (types.Picture, bool, error) {
	var (
		description string
		fellBack    bool
		pos         int
	)
	// Some encoders don't terminate the description; the rest is image data
	if end := findNullTerminator(data, encoding); end >= 0 {
		description, fellBack = decodeText(data[:end], encoding)
		pos = end + terminatorSize(encoding)
	}

	if pos >= len(data) {
		return types.Picture{}, false, errAPICNoImageData
	}
	image := bytes.Clone(data[pos:])

	if mimeType == "" {
		mimeType = types.SniffMIME(image)
	}

	return types.Picture{
		Data:        image,
		Description: description,
		MIMEType:    mimeType,
	}, fellBack, nil
}

// normalizeMIME handles legacy image format markers.
func normalizeMIME(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "", "-->":
		return ""
	}
	return mimeType
}

// apicBody renders a picture as an APIC frame body for a tag of the given
// version.
func apicBody(pic types.Picture, version byte) ([]byte, error) {
	mimeType := pic.MIMEType
	if mimeType == "" {
		mimeType = types.SniffMIME(pic.Data)
	}
	mime, err := charset.EncodeLatin1(mimeType)
	if err != nil {
		return nil, fmt.Errorf("picture MIME type: %w", err)
	}

	cs := textCharset(version, pic.Description)
	description, err := charset.Encode(cs, pic.Description)
	if err != nil {
		return nil, fmt.Errorf("picture description: %w", err)
	}
	enc := encodingByte(cs)

	// Unknown type names are stored as Other
	code, _ := types.PictureTypeCode(pic.PictureType)

	var buf bytes.Buffer
	w := binutil.NewSafeWriter(&buf)
	if err := binutil.Write(w, enc); err != nil {
		return nil, err
	}
	if err := w.WriteBytes(mime); err != nil {
		return nil, err
	}
	if err := binutil.Write(w, uint8(0)); err != nil {
		return nil, err
	}
	if err := binutil.Write(w, uint8(code)); err != nil {
		return nil, err
	}
	if err := w.WriteBytes(description); err != nil {
		return nil, err
	}
	if err := w.WriteBytes(make([]byte, terminatorSize(enc))); err != nil {
		return nil, err
	}
	if err := w.WriteBytes(pic.Data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
