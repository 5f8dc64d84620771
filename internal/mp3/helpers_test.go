package mp3

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
)

// Bitrate indexes for MPEG-1 Layer III
const (
	kbps128 = 9
	kbps320 = 14
)

// mpegFrame returns a silent MPEG-1 Layer III frame at 44.1 kHz.
func mpegFrame(t testing.TB, bitrateIndex, channelMode byte) []byte {
	t.Helper()
	header := []byte{0xFF, 0xFB, bitrateIndex << 4, channelMode << 6}
	h, ok := parseFrameHeader(header)
	if !ok {
		t.Fatalf("invalid test frame header % x", header)
	}
	frame := make([]byte, h.size)
	copy(frame, header)
	return frame
}

// mpegFrames returns n stereo frames at the given bitrate.
func mpegFrames(t testing.TB, bitrateIndex byte, n int) []byte {
	t.Helper()
	frame := mpegFrame(t, bitrateIndex, 0)
	return bytes.Repeat(frame, n)
}

func encodeSynchsafe(n int) []byte {
	return []byte{byte(n>>21) & 0x7F, byte(n>>14) & 0x7F, byte(n>>7) & 0x7F, byte(n) & 0x7F}
}

// buildFrame renders a raw ID3v2.3 or v2.4 frame.
func buildFrame(version byte, id string, body []byte) []byte {
	var buf bytes.Buffer
	w := binutil.NewSafeWriter(&buf)
	w.WriteString(id)
	if version == 4 {
		w.WriteBytes(encodeSynchsafe(len(body)))
	} else {
		binutil.Write(w, uint32(len(body)))
	}
	binutil.Write(w, uint16(0))
	w.WriteBytes(body)
	return buf.Bytes()
}

// buildV22Frame renders a raw ID3v2.2 frame.
func buildV22Frame(id string, body []byte) []byte {
	n := len(body)
	return append([]byte{id[0], id[1], id[2], byte(n >> 16), byte(n >> 8), byte(n)}, body...)
}

// buildTag renders an ID3v2 tag holding frames.
func buildTag(version byte, frames ...[]byte) []byte {
	body := bytes.Join(frames, nil)
	tag := []byte{'I', 'D', '3', version, 0, 0}
	tag = append(tag, encodeSynchsafe(len(body))...)
	return append(tag, body...)
}

// buildID3v1 renders an ID3v1.1 tag.
func buildID3v1(title, artist string, track, genre byte) []byte {
	tag := make([]byte, id3v1Size)
	copy(tag, "TAG")
	copy(tag[3:33], title)
	copy(tag[33:63], artist)
	copy(tag[93:97], "1999")
	tag[126] = track
	tag[127] = genre
	return tag
}

// buildAPETag renders an empty APEv2 tag with header and footer.
func buildAPETag() []byte {
	block := func(flags uint32) []byte {
		b := make([]byte, 32)
		copy(b, "APETAGEX")
		binary.LittleEndian.PutUint32(b[8:], 2000)
		binary.LittleEndian.PutUint32(b[12:], 32)
		binary.LittleEndian.PutUint32(b[20:], flags)
		return b
	}
	return append(block(1<<31|1<<29), block(1<<31)...)
}

// writeFile writes data to a temp .mp3 file and returns its path.
func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.mp3")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// source opens path as a registry.Source.
func source(t *testing.T, path string) registry.Source {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })

	info, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	return registry.Source{R: f, Size: info.Size(), Name: filepath.Base(path), Path: path}
}

func bytesSource(data []byte) registry.Source {
	return registry.Source{R: bytes.NewReader(data), Size: int64(len(data)), Name: "test.mp3"}
}
