package mp3

import (
	"bytes"
	"encoding/binary"
	"fmt"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/charset"
	"github.com/simonhull/audiotag/internal/types"
)

// Tag header flags
const (
	flagUnsynchronisation = 0x80
	flagExtendedHeader    = 0x40
	flagFooter            = 0x10
)

// Frame format flags (ID3v2.4)
const (
	frameGrouping          = 0x0040
	frameCompressed        = 0x0008
	frameEncrypted         = 0x0004
	frameUnsynchronised    = 0x0002
	frameDataLengthPresent = 0x0001
)

// Frame format flags (ID3v2.3)
const (
	frameV3Compressed = 0x0080
	frameV3Encrypted  = 0x0040
	frameV3Grouping   = 0x0020
)

// maxFrameSize bounds a single frame read
const maxFrameSize = 100 * 1024 * 1024

// tagHeader is the 10-byte ID3v2 header.
type tagHeader struct {
	Version  byte // Major version (2, 3 or 4)
	Revision byte
	Flags    byte
	Size     uint32 // Tag size excluding header and footer
}

// rawFrame is a frame body with unsynchronisation and flag prefixes removed.
type rawFrame struct {
	ID    string
	Flags uint16
	Data  []byte
}

// readTagHeader reads an ID3v2 header at off.
func readTagHeader(sr *binutil.SafeReader, off int64) (tagHeader, bool) {
	buf := make([]byte, 10)
	if err := sr.ReadAt(buf, off, "ID3v2 header"); err != nil {
		return tagHeader{}, false
	}
	if string(buf[0:3]) != "ID3" {
		return tagHeader{}, false
	}
	if buf[3] < 2 || buf[3] > 4 || buf[4] == 0xFF {
		return tagHeader{}, false
	}
	for _, b := range buf[6:10] {
		if b&0x80 != 0 {
			return tagHeader{}, false
		}
	}
	return tagHeader{
		Version:  buf[3],
		Revision: buf[4],
		Flags:    buf[5],
		Size:     decodeSynchsafe(buf[6:10]),
	}, true
}

// totalSize is the number of bytes the tag occupies including header and
// footer.
func (h tagHeader) totalSize() int64 {
	n := 10 + int64(h.Size)
	if h.Version == 4 && h.Flags&flagFooter != 0 {
		n += 10
	}
	return n
}

// id3v2End returns the offset just past any ID3v2 tags at the start of the
// file. Some encoders stack more than one tag.
func id3v2End(sr *binutil.SafeReader) int64 {
	var end int64
	for {
		h, ok := readTagHeader(sr, end)
		if !ok {
			return end
		}
		end += h.totalSize()
	}
}

// decodeSynchsafe decodes a synchsafe integer (7 bits per byte)
func decodeSynchsafe(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

// resync reverses unsynchronisation: every 0xFF 0x00 pair becomes 0xFF.
func resync(b []byte) []byte {
	if !bytes.Contains(b, []byte{0xFF, 0x00}) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] == 0xFF && i+1 < len(b) && b[i+1] == 0x00 {
			i++
		}
	}
	return out
}

// readFrames walks the frames of the tag at offset 0 and returns those for
// which want reports true. Frames that cannot be decoded are skipped with a
// warning.
func readFrames(sr *binutil.SafeReader, h tagHeader, want func(id string) bool) ([]rawFrame, []types.Warning) {
	var warnings []types.Warning
	warn := func(format string, args ...any) {
		warnings = append(warnings, types.Warning{Stage: "tags", Message: fmt.Sprintf(format, args...)})
	}

	body := make([]byte, h.Size)
	if err := sr.ReadAt(body, 10, "ID3v2 tag body"); err != nil {
		warn("truncated ID3v2 tag: %v", err)
		return nil, warnings
	}
	if h.Version < 4 && h.Flags&flagUnsynchronisation != 0 {
		body = resync(body)
	}

	pos := 0
	if h.Flags&flagExtendedHeader != 0 && h.Version >= 3 && len(body) >= 4 {
		switch h.Version {
		case 4:
			pos = int(decodeSynchsafe(body[0:4]))
		case 3:
			pos = int(binary.BigEndian.Uint32(body[0:4])) + 4
		}
	}

	idLen, headerLen := 4, 10
	if h.Version == 2 {
		idLen, headerLen = 3, 6
	}

	var frames []rawFrame
	for pos+headerLen <= len(body) {
		header := body[pos : pos+headerLen]
		if header[0] == 0 {
			break // padding
		}
		id := string(header[:idLen])
		if !validFrameID(id) {
			warn("invalid frame ID %q at offset %d", id, 10+pos)
			break
		}

		var size int
		var flags uint16
		switch h.Version {
		case 2:
			size = int(header[3])<<16 | int(header[4])<<8 | int(header[5])
		case 3:
			size = int(binary.BigEndian.Uint32(header[4:8]))
			flags = binary.BigEndian.Uint16(header[8:10])
		default:
			size = int(decodeSynchsafe(header[4:8]))
			flags = binary.BigEndian.Uint16(header[8:10])
		}
		pos += headerLen

		if size > maxFrameSize || pos+size > len(body) {
			warn("frame %s claims %d bytes past the end of the tag", id, size)
			break
		}
		data := body[pos : pos+size]
		pos += size

		if !want(id) {
			continue
		}
		data, err := frameData(h.Version, flags, data)
		if err != nil {
			warn("frame %s: %v", id, err)
			continue
		}
		frames = append(frames, rawFrame{ID: id, Flags: flags, Data: data})
	}

	return frames, warnings
}

// frameData strips the per-frame prefixes announced by the flags.
func frameData(version byte, flags uint16, data []byte) ([]byte, error) {
	switch version {
	case 3:
		if flags&(frameV3Compressed|frameV3Encrypted) != 0 {
			return nil, fmt.Errorf("compressed or encrypted frames are not supported")
		}
		if flags&frameV3Grouping != 0 {
			if len(data) < 1 {
				return nil, fmt.Errorf("missing group identifier")
			}
			data = data[1:]
		}
	case 4:
		if flags&(frameCompressed|frameEncrypted) != 0 {
			return nil, fmt.Errorf("compressed or encrypted frames are not supported")
		}
		if flags&frameGrouping != 0 {
			if len(data) < 1 {
				return nil, fmt.Errorf("missing group identifier")
			}
			data = data[1:]
		}
		if flags&frameDataLengthPresent != 0 {
			if len(data) < 4 {
				return nil, fmt.Errorf("missing data length indicator")
			}
			data = data[4:]
		}
		if flags&frameUnsynchronised != 0 {
			data = resync(data)
		}
	}
	return data, nil
}

func validFrameID(id string) bool {
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// Text encoding bytes
const (
	encISO     = 0
	encUTF16   = 1
	encUTF16BE = 2
	encUTF8    = 3
)

// decodeText decodes a frame string. fellBack reports text that was not
// valid in its declared encoding and was kept as ISO-8859-1.
func decodeText(data []byte, encoding byte) (text string, fellBack bool) {
	switch encoding {
	case encUTF16:
		s, err := charset.DecodeUTF16(data)
		if err != nil {
			return charset.DecodeLatin1(data), true
		}
		return s, false
	case encUTF16BE:
		s, err := charset.DecodeUTF16BE(data)
		if err != nil {
			return charset.DecodeLatin1(data), true
		}
		return s, false
	case encUTF8:
		return charset.NormalizeBytes(data)
	default:
		return charset.DecodeLatin1(data), false
	}
}

// findNullTerminator finds the null terminator based on encoding
func findNullTerminator(data []byte, encoding byte) int {
	switch encoding {
	case encUTF16, encUTF16BE:
		for i := 0; i+1 < len(data); i += 2 {
			if data[i] == 0 && data[i+1] == 0 {
				return i
			}
		}
		return -1
	default:
		return bytes.IndexByte(data, 0)
	}
}

// terminatorSize returns the size of the null terminator for the encoding
func terminatorSize(encoding byte) int {
	if encoding == encUTF16 || encoding == encUTF16BE {
		return 2
	}
	return 1
}

// encodingByte is the frame encoding byte for a charset.
func encodingByte(c charset.Charset) byte {
	switch c {
	case charset.UTF16:
		return encUTF16
	case charset.UTF8:
		return encUTF8
	default:
		return encISO
	}
}

// textCharset picks the narrowest charset that holds every text in a tag
// of the given version. ID3v2.3 has no UTF-8.
func textCharset(version byte, texts ...string) charset.Charset {
	broadest := charset.UTF8
	if version < 4 {
		broadest = charset.UTF16
	}
	return charset.Narrowest(broadest, texts...)
}
