package audiotag

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// silentFrames returns n MPEG-1 Layer III frames at 128 kbps, 44.1 kHz.
func silentFrames(n int) []byte {
	// 144 * 128000 / 44100 bytes, no padding
	frame := make([]byte, 417)
	copy(frame, []byte{0xFF, 0xFB, 0x90, 0x00})
	return bytes.Repeat(frame, n)
}

// flacFile renders a one second FLAC stream with a comment block, the
// given picture blocks and padding, followed by audio.
func flacFile(comments []string, pictures ...[]byte) []byte {
	type block struct {
		kind byte
		data []byte
	}
	blocks := []block{{0, streamInfo()}, {4, vorbisComment(comments...)}}
	for _, pic := range pictures {
		blocks = append(blocks, block{6, pic})
	}
	blocks = append(blocks, block{1, make([]byte, 512)})

	buf := &bytes.Buffer{}
	buf.WriteString("fLaC")
	for i, b := range blocks {
		header := b.kind
		if i == len(blocks)-1 {
			header |= 0x80
		}
		n := len(b.data)
		buf.Write([]byte{header, byte(n >> 16), byte(n >> 8), byte(n)})
		buf.Write(b.data)
	}
	// Frame sync code, then filler go-flac never decodes
	buf.Write([]byte{0xFF, 0xF8})
	for i := range 3998 {
		buf.WriteByte(byte(i * 13))
	}
	return buf.Bytes()
}

// streamInfo describes 44100 samples of 16-bit stereo at 44.1 kHz.
func streamInfo() []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint16(4096))
	binary.Write(buf, binary.BigEndian, uint16(4096))
	buf.Write(make([]byte, 6))
	packed := uint64(44100)<<44 | uint64(1)<<41 | uint64(15)<<36 | uint64(44100)
	binary.Write(buf, binary.BigEndian, packed)
	buf.Write(make([]byte, 16))
	return buf.Bytes()
}

func vorbisComment(comments ...string) []byte {
	vendor := "reference libFLAC 1.4.3 20230623"
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, uint32(len(vendor)))
	buf.WriteString(vendor)
	binary.Write(buf, binary.LittleEndian, uint32(len(comments)))
	for _, c := range comments {
		binary.Write(buf, binary.LittleEndian, uint32(len(c)))
		buf.WriteString(c)
	}
	return buf.Bytes()
}

// pictureBlock renders a FLAC PICTURE block body.
func pictureBlock(code uint32, mime, description string, data []byte) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, code)
	binary.Write(buf, binary.BigEndian, uint32(len(mime)))
	buf.WriteString(mime)
	binary.Write(buf, binary.BigEndian, uint32(len(description)))
	buf.WriteString(description)
	buf.Write(make([]byte, 16))
	binary.Write(buf, binary.BigEndian, uint32(len(data)))
	buf.Write(data)
	return buf.Bytes()
}

// jpegData returns n bytes starting with a JPEG signature.
func jpegData(n int, seed byte) []byte {
	data := make([]byte, n)
	copy(data, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	for i := 4; i < n; i++ {
		data[i] = byte(i) ^ seed
	}
	return data
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func mustOpen(t *testing.T, path string) *Descriptor {
	t.Helper()
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%q) error = %v", path, err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func readBytes(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// synchsafe encodes n in four 7-bit bytes.
func synchsafe(n int) []byte {
	return []byte{byte(n>>21) & 0x7F, byte(n>>14) & 0x7F, byte(n>>7) & 0x7F, byte(n) & 0x7F}
}

// id3Tag renders an ID3v2 tag of the given major version around frames.
func id3Tag(version byte, frames ...[]byte) []byte {
	body := bytes.Join(frames, nil)
	return append(append([]byte{'I', 'D', '3', version, 0, 0}, synchsafe(len(body))...), body...)
}

// id3v24Frame renders an ID3v2.4 frame.
func id3v24Frame(id string, body []byte) []byte {
	frame := append([]byte(id), synchsafe(len(body))...)
	return append(append(frame, 0, 0), body...)
}

// id3v22Frame renders an ID3v2.2 frame.
func id3v22Frame(id string, body []byte) []byte {
	n := len(body)
	return append([]byte{id[0], id[1], id[2], byte(n >> 16), byte(n >> 8), byte(n)}, body...)
}
