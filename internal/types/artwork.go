package types

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Picture is an embedded image with its descriptive metadata.
//
// Pictures carry no reference to the file they came from. Two pictures are
// equal when all four fields are equal, with Data compared by content.
type Picture struct {
	// Image bytes as stored in the file
	Data []byte

	// Free-form description (often empty)
	Description string

	// One of the PictureType* names, e.g. "Front Cover"
	PictureType string

	// MIME type of Data, e.g. "image/jpeg"
	MIMEType string
}

// Picture type names. These follow the ID3v2 APIC vocabulary and are used
// for every format, FLAC included.
//
// See: https://id3.org/id3v2.4.0-frames (APIC frame)
const (
	PictureTypeOther              = "Other"
	PictureTypeFileIcon           = "File Icon"
	PictureTypeOtherFileIcon      = "Other File Icon"
	PictureTypeFrontCover         = "Front Cover"
	PictureTypeBackCover          = "Back Cover"
	PictureTypeLeafletPage        = "Leaflet Page"
	PictureTypeMedia              = "Media"
	PictureTypeLeadArtist         = "Lead Artist"
	PictureTypeArtist             = "Artist"
	PictureTypeConductor          = "Conductor"
	PictureTypeBand               = "Band"
	PictureTypeComposer           = "Composer"
	PictureTypeLyricist           = "Lyricist"
	PictureTypeRecordingLocation  = "Recording Location"
	PictureTypeDuringRecording    = "During Recording"
	PictureTypeDuringPerformance  = "During Performance"
	PictureTypeMovieScreenCapture = "Movie Screen Capture"
	PictureTypeColouredFish       = "Coloured Fish"
	PictureTypeIllustration       = "Illustration"
	PictureTypeBandLogo           = "Band Logo"
	PictureTypePublisherLogo      = "Publisher Logo"
)

// pictureTypeNames is indexed by the numeric code shared by ID3v2 APIC and
// FLAC METADATA_BLOCK_PICTURE.
var pictureTypeNames = [...]string{
	PictureTypeOther,
	PictureTypeFileIcon,
	PictureTypeOtherFileIcon,
	PictureTypeFrontCover,
	PictureTypeBackCover,
	PictureTypeLeafletPage,
	PictureTypeMedia,
	PictureTypeLeadArtist,
	PictureTypeArtist,
	PictureTypeConductor,
	PictureTypeBand,
	PictureTypeComposer,
	PictureTypeLyricist,
	PictureTypeRecordingLocation,
	PictureTypeDuringRecording,
	PictureTypeDuringPerformance,
	PictureTypeMovieScreenCapture,
	PictureTypeColouredFish,
	PictureTypeIllustration,
	PictureTypeBandLogo,
	PictureTypePublisherLogo,
}

// PictureTypeName maps a numeric picture type code to its name.
//
// Codes 0-20 map one-to-one. Anything above 20 is reserved in both ID3v2
// and FLAC; it maps to "Other" and ok is false so callers can flag the loss.
func PictureTypeName(code uint32) (name string, ok bool) {
	if code < uint32(len(pictureTypeNames)) {
		return pictureTypeNames[code], true
	}
	return PictureTypeOther, false
}

// PictureTypeCode maps a picture type name to its numeric code.
//
// Unknown names map to 0 ("Other") with ok false.
func PictureTypeCode(name string) (code uint32, ok bool) {
	for i, n := range pictureTypeNames {
		if n == name {
			return uint32(i), true
		}
	}
	return 0, false
}

// PictureTypes returns every known picture type name in code order.
func PictureTypes() []string {
	return append([]string(nil), pictureTypeNames[:]...)
}

// NewPicture builds a Picture, sniffing the MIME type from data.
func NewPicture(data []byte, description, pictureType string) Picture {
	return Picture{
		Data:        data,
		Description: description,
		PictureType: pictureType,
		MIMEType:    SniffMIME(data),
	}
}

// SniffMIME detects the MIME type of image bytes. Non-image content
// reports "application/octet-stream".
func SniffMIME(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if mt := mimetype.Detect(data).String(); strings.HasPrefix(mt, "image/") {
		return mt
	}
	return "application/octet-stream"
}

// Equal reports whether two pictures have identical fields and data.
func (p Picture) Equal(other Picture) bool {
	return p.Description == other.Description &&
		p.PictureType == other.PictureType &&
		p.MIMEType == other.MIMEType &&
		bytes.Equal(p.Data, other.Data)
}

// Hash returns a hash over all four fields, consistent with Equal.
func (p Picture) Hash() uint64 {
	h := fnv.New64a()
	for _, s := range []string{p.Description, p.PictureType, p.MIMEType} {
		_ = binary.Write(h, binary.BigEndian, uint64(len(s))) //nolint:errcheck // hash writes never fail
		_, _ = h.Write([]byte(s))                             //nolint:errcheck // hash writes never fail
	}
	_, _ = h.Write(p.Data) //nolint:errcheck // hash writes never fail
	return h.Sum64()
}

// String returns a short summary.
//
// Example output: "Front Cover (JPEG, 245KB)"
func (p Picture) String() string {
	name := p.PictureType
	if name == "" {
		name = PictureTypeOther
	}
	if p.Description != "" {
		name += " " + fmt.Sprintf("%q", p.Description)
	}
	return fmt.Sprintf("%s (%s, %s)", name, mimeToFormat(p.MIMEType), formatSize(len(p.Data)))
}

// FrontCover selects the cover picture: the first picture typed
// "Front Cover", or the first picture when none is. ok is false only for
// an empty slice.
func FrontCover(pictures []Picture) (Picture, bool) {
	for _, p := range pictures {
		if p.PictureType == PictureTypeFrontCover {
			return p, true
		}
	}
	if len(pictures) > 0 {
		return pictures[0], true
	}
	return Picture{}, false
}

// PicturesEqual compares two picture sequences element by element.
func PicturesEqual(a, b []Picture) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// formatSize formats byte size in human-readable form.
func formatSize(bytes int) string {
	const (
		KB = 1024
		MB = 1024 * KB
	)

	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1fMB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%dKB", bytes/KB)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

// mimeToFormat converts MIME type to short format name.
func mimeToFormat(mime string) string {
	switch mime {
	case "image/jpeg", "image/jpg":
		return "JPEG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	case "image/bmp":
		return "BMP"
	case "image/tiff":
		return "TIFF"
	case "image/webp":
		return "WebP"
	default:
		return "Image"
	}
}
