package mp3

import (
	"fmt"
	"io"
	"os"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// v22Frames maps ID3v2.2 frame IDs to their ID3v2.3 equivalents. The tag
// library rejects v2.2 tags, so they are walked and translated here.
var v22Frames = map[string]string{
	"TAL": "TALB",
	"TBP": "TBPM",
	"TCM": "TCOM",
	"TCO": "TCON",
	"TCP": "TCMP",
	"TCR": "TCOP",
	"TDY": "TDLY",
	"TEN": "TENC",
	"TFT": "TFLT",
	"TKE": "TKEY",
	"TLA": "TLAN",
	"TLE": "TLEN",
	"TMT": "TMED",
	"TOA": "TOPE",
	"TOF": "TOFN",
	"TOL": "TOLY",
	"TOR": "TORY",
	"TOT": "TOAL",
	"TP1": "TPE1",
	"TP2": "TPE2",
	"TP3": "TPE3",
	"TP4": "TPE4",
	"TPA": "TPOS",
	"TPB": "TPUB",
	"TRC": "TSRC",
	"TRK": "TRCK",
	"TS2": "TSO2",
	"TSA": "TSOA",
	"TSC": "TSOC",
	"TSP": "TSOP",
	"TSS": "TSSE",
	"TST": "TSOT",
	"TT1": "TIT1",
	"TT2": "TIT2",
	"TT3": "TIT3",
	"TXT": "TEXT",
	"TXX": "TXXX",
	"TYE": "TYER",
	"COM": "COMM",
	"ULT": "USLT",
	"IPL": "IPLS",
	"WAF": "WOAF",
	"WAR": "WOAR",
	"WAS": "WOAS",
	"WCP": "WCOP",
	"WPB": "WPUB",
	"WXX": "WXXX",
	"GP1": "GRP1",
	"MVN": "MVNM",
	"MVI": "MVIN",
}

// readLegacyTag translates the frames of an ID3v2.2 tag.
func readLegacyTag(sr *binutil.SafeReader, h tagHeader) (types.PropertyMap, []types.Warning) {
	frames, warnings := readFrames(sr, h, func(id string) bool {
		_, ok := v22Frames[id]
		return ok
	})

	r := &frameReader{props: types.NewPropertyMap(), warnings: warnings}
	for _, frame := range frames {
		r.legacyFrame(v22Frames[frame.ID], frame.Data)
	}
	return r.props, r.warnings
}

// legacyFrame adds one translated v2.2 frame body.
func (r *frameReader) legacyFrame(id string, body []byte) {
	if len(body) == 0 {
		return
	}
	switch {
	case id == "TXXX":
		description, value, ok := r.described(id, body[0], body[1:])
		if ok {
			r.userText(description, value)
		}
	case id == "COMM" || id == "USLT":
		if len(body) < 4 {
			r.warn("tags", "frame %s too short", id)
			return
		}
		// Language code follows the encoding byte
		description, text, ok := r.described(id, body[0], body[4:])
		if !ok {
			return
		}
		base := keyComment
		if id == "USLT" {
			base = keyLyrics
		}
		r.props.Add(describedKey(base, description), splitValues(text)...)
	case id[0] == 'T' && id != "IPLS":
		r.textFrame(id, splitValues(r.decode(id, body[1:], body[0])))
	default:
		r.unknownFrame(id, body)
	}
}

// described splits a "description NUL text" body.
func (r *frameReader) described(id string, encoding byte, data []byte) (description, text string, ok bool) {
	end := findNullTerminator(data, encoding)
	if end < 0 {
		r.warn("tags", "frame %s without description terminator skipped", id)
		return "", "", false
	}
	description = r.decode(id, data[:end], encoding)
	text = r.decode(id, data[end+terminatorSize(encoding):], encoding)
	return description, text, true
}

func (r *frameReader) decode(id string, data []byte, encoding byte) string {
	text, fellBack := decodeText(data, encoding)
	if fellBack {
		r.warn("encoding", "frame %s is not valid in its declared encoding, kept as ISO-8859-1", id)
	}
	return text
}

// carried is what a rewrite keeps from the tag already in the file.
type carried struct {
	// APIC frame bodies in tag order
	pictures [][]byte

	// Properties of an ID3v2.2 tag, which is replaced rather than edited
	legacy types.PropertyMap

	// Bytes the ID3v2.2 tag occupies at the start of the file
	legacySize int64
}

// readCarried reads the pictures of the tag at path. ID3v2.2 PIC frames are
// converted to APIC bodies for a tag of the given version.
func readCarried(path string, version byte) (carried, error) {
	f, err := os.Open(path)
	if err != nil {
		return carried{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return carried{}, err
	}
	sr := binutil.NewSafeReader(f, info.Size(), path)

	header, ok := readTagHeader(sr, 0)
	if !ok {
		return carried{}, nil
	}
	if header.Version >= 3 {
		frames, _ := readFrames(sr, header, func(id string) bool { return id == "APIC" })
		c := carried{pictures: make([][]byte, 0, len(frames))}
		for _, frame := range frames {
			c.pictures = append(c.pictures, frame.Data)
		}
		return c, nil
	}

	c := carried{legacySize: header.totalSize()}
	c.legacy, _ = readLegacyTag(sr, header)

	frames, _ := readFrames(sr, header, func(id string) bool { return id == "PIC" })
	for _, frame := range frames {
		pic, code, _, err := parsePICFrame(frame.Data)
		if err != nil {
			continue
		}
		pic.PictureType, _ = types.PictureTypeName(uint32(code))
		body, err := apicBody(pic, version)
		if err != nil {
			return carried{}, fmt.Errorf("convert ID3v2.2 picture: %w", err)
		}
		c.pictures = append(c.pictures, body)
	}
	return c, nil
}

// cutHead removes the first n bytes of the file at path.
func cutHead(path string, n int64) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close() //nolint:errcheck // stat error takes precedence
		return err
	}
	n = min(n, info.Size())

	// Reads stay ahead of writes, so the shift can run in place
	if _, err := io.Copy(io.NewOffsetWriter(f, 0), io.NewSectionReader(f, n, info.Size()-n)); err != nil {
		_ = f.Close() //nolint:errcheck // copy error takes precedence
		return err
	}
	if err := f.Truncate(info.Size() - n); err != nil {
		_ = f.Close() //nolint:errcheck // truncate error takes precedence
		return err
	}
	return f.Close()
}
