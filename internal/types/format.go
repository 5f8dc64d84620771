package types

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/simonhull/audiotag/internal/binary"
)

// Format represents the detected container format.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota
	// FormatFLAC represents FLAC audio files.
	FormatFLAC
	// FormatMP3 represents MPEG audio files with ID3 tags.
	FormatMP3
	// FormatM4A represents MP4/M4A audio files.
	FormatM4A
	// FormatM4B represents M4B audiobook files.
	FormatM4B
	// FormatOgg represents Ogg Vorbis audio files.
	FormatOgg
	// FormatOpus represents Ogg Opus audio files.
	FormatOpus
	// FormatWAV represents WAV audio files.
	FormatWAV
	// FormatAIFF represents AIFF audio files.
	FormatAIFF
	// FormatAPE represents Monkey's Audio files.
	FormatAPE
	// FormatWavPack represents WavPack files.
	FormatWavPack
	// FormatASF represents WMA/ASF files.
	FormatASF
	// FormatDSF represents DSD stream files.
	FormatDSF
)

var formatNames = map[Format]string{
	FormatUnknown: "Unknown",
	FormatFLAC:    "FLAC",
	FormatMP3:     "MP3",
	FormatM4A:     "M4A",
	FormatM4B:     "M4B",
	FormatOgg:     "Ogg Vorbis",
	FormatOpus:    "Opus",
	FormatWAV:     "WAV",
	FormatAIFF:    "AIFF",
	FormatAPE:     "APE",
	FormatWavPack: "WavPack",
	FormatASF:     "ASF",
	FormatDSF:     "DSF",
}

// String returns the format name.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "Unknown"
}

// Formats returns every known format except FormatUnknown.
func Formats() []Format {
	return []Format{
		FormatFLAC, FormatMP3, FormatM4A, FormatM4B, FormatOgg, FormatOpus,
		FormatWAV, FormatAIFF, FormatAPE, FormatWavPack, FormatASF, FormatDSF,
	}
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatFLAC:
		return []string{".flac"}
	case FormatMP3:
		return []string{".mp3"}
	case FormatM4A:
		return []string{".m4a", ".mp4", ".m4p"}
	case FormatM4B:
		return []string{".m4b"}
	case FormatOgg:
		return []string{".ogg", ".oga"}
	case FormatOpus:
		return []string{".opus"}
	case FormatWAV:
		return []string{".wav"}
	case FormatAIFF:
		return []string{".aiff", ".aif", ".aifc"}
	case FormatAPE:
		return []string{".ape"}
	case FormatWavPack:
		return []string{".wv"}
	case FormatASF:
		return []string{".wma", ".asf"}
	case FormatDSF:
		return []string{".dsf"}
	case FormatUnknown:
		return nil
	default:
		return nil
	}
}

// FormatFromName guesses the format from a file name's extension.
//
// Returns FormatUnknown when name has no recognized extension.
func FormatFromName(name string) Format {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return FormatUnknown
	}
	for _, f := range Formats() {
		for _, e := range f.Extensions() {
			if e == ext {
				return f
			}
		}
	}
	return FormatUnknown
}

var asfHeaderGUID = []byte{0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11, 0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C}

// DetectFormat determines the container format by examining magic bytes.
//
// Detection is based on file signatures at the beginning of the file and
// does not validate the entire file structure.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) { //nolint:gocyclo // Format detection requires checking multiple magic byte patterns
	if size < 4 {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "file too small",
		}
	}

	sr := binary.NewSafeReader(r, size, path)

	header := make([]byte, min(size, 16))
	if err := sr.ReadAt(header, 0, "file magic bytes"); err != nil {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "failed to read file header",
		}
	}
	magic := string(header[:4])

	switch {
	case magic == "fLaC":
		return FormatFLAC, nil
	case magic[:3] == "ID3":
		return FormatMP3, nil
	case header[0] == 0xFF && (header[1]&0xE0) == 0xE0 && (header[1]&0x06) != 0:
		// Frame sync with a non-reserved layer. Layer 0 is ADTS AAC.
		return FormatMP3, nil
	case magic == "OggS":
		return detectOgg(sr, size), nil
	case magic == "RIFF" && size >= 12 && string(header[8:12]) == "WAVE":
		return FormatWAV, nil
	case magic == "FORM" && size >= 12 && (string(header[8:12]) == "AIFF" || string(header[8:12]) == "AIFC"):
		return FormatAIFF, nil
	case magic == "MAC ":
		return FormatAPE, nil
	case magic == "wvpk":
		return FormatWavPack, nil
	case magic == "DSD ":
		return FormatDSF, nil
	case len(header) == 16 && bytes.Equal(header, asfHeaderGUID):
		return FormatASF, nil
	}

	return detectMP4(sr, size, path)
}

// detectOgg distinguishes Opus from Vorbis by the first packet's magic.
func detectOgg(sr *binary.SafeReader, size int64) Format {
	// Ogg page header: 27 bytes fixed + segment table (variable).
	if size < 36 {
		return FormatOgg
	}
	segCount, err := binary.Read[uint8](sr, 26, "segment count")
	if err != nil {
		return FormatOgg
	}
	packetOffset := int64(27 + int(segCount))
	if packetOffset+8 > size {
		return FormatOgg
	}
	codecMagic := make([]byte, 8)
	if err := sr.ReadAt(codecMagic, packetOffset, "codec magic"); err == nil && string(codecMagic) == "OpusHead" {
		return FormatOpus
	}
	return FormatOgg
}

// detectMP4 checks for an ftyp atom and classifies the major brand.
func detectMP4(sr *binary.SafeReader, size int64, path string) (Format, error) {
	unsupported := &UnsupportedFormatError{Path: path, Reason: "unsupported file format"}
	if size < 12 {
		return FormatUnknown, unsupported
	}

	atomSize, err := binary.Read[uint32](sr, 0, "ftyp atom size")
	if err != nil {
		return FormatUnknown, unsupported
	}
	atomType, err := binary.Read[uint32](sr, 4, "ftyp atom type")
	if err != nil || atomType != 0x66747970 { // "ftyp"
		return FormatUnknown, unsupported
	}
	if atomSize < 12 {
		return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: "ftyp atom too small"}
	}

	brand := make([]byte, 4)
	if err := sr.ReadAt(brand, 8, "major brand"); err != nil {
		return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: "failed to read major brand"}
	}

	switch string(brand) {
	case "M4B ":
		return FormatM4B, nil
	case "M4A ", "M4P ", "mp42", "mp41", "isom", "iso2", "dash":
		return FormatM4A, nil
	}

	return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: "unsupported file brand"}
}
