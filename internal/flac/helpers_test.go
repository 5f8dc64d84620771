package flac

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	goflac "github.com/go-flac/go-flac"

	"github.com/simonhull/audiotag/internal/registry"
)

// streamInfo returns a STREAMINFO body for 16-bit stereo at 44.1 kHz.
func streamInfo(totalSamples uint64) []byte {
	buf := &bytes.Buffer{}

	// Min/max block size, then min/max frame size (24 bits each, unknown)
	binary.Write(buf, binary.BigEndian, uint16(4096))
	binary.Write(buf, binary.BigEndian, uint16(4096))
	buf.Write(make([]byte, 6))

	// [sample rate(20)] [channels-1(3)] [bits-1(5)] [total samples(36)]
	sampleRate := uint64(44100)
	channels := uint64(1)
	bitsPerSample := uint64(15)
	packed := (sampleRate << 44) | (channels << 41) | (bitsPerSample << 36) | totalSamples
	binary.Write(buf, binary.BigEndian, packed)

	// MD5 signature
	buf.Write(make([]byte, 16))
	return buf.Bytes()
}

// vorbisComment returns a VORBIS_COMMENT body.
func vorbisComment(vendor string, comments ...string) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, uint32(len(vendor)))
	buf.WriteString(vendor)
	binary.Write(buf, binary.LittleEndian, uint32(len(comments)))
	for _, comment := range comments {
		binary.Write(buf, binary.LittleEndian, uint32(len(comment)))
		buf.WriteString(comment)
	}
	return buf.Bytes()
}

// pictureBody returns a PICTURE body with a raw type code.
func pictureBody(code uint32, mime, description string, data []byte) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, code)
	binary.Write(buf, binary.BigEndian, uint32(len(mime)))
	buf.WriteString(mime)
	binary.Write(buf, binary.BigEndian, uint32(len(description)))
	buf.WriteString(description)
	// Width, height, colour depth, indexed colours
	buf.Write(make([]byte, 16))
	binary.Write(buf, binary.BigEndian, uint32(len(data)))
	buf.Write(data)
	return buf.Bytes()
}

// buildFLAC renders a FLAC file from metadata blocks followed by audio.
func buildFLAC(audio []byte, blocks ...goflac.MetaDataBlock) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("fLaC")
	for i, block := range blocks {
		header := byte(block.Type)
		if i == len(blocks)-1 {
			header |= 0x80
		}
		n := len(block.Data)
		buf.Write([]byte{header, byte(n >> 16), byte(n >> 8), byte(n)})
		buf.Write(block.Data)
	}
	buf.Write(audio)
	return buf.Bytes()
}

// minimalFLAC is one second of stream info, a comment block and padding.
func minimalFLAC(audio []byte, comments ...string) []byte {
	return buildFLAC(audio,
		goflac.MetaDataBlock{Type: goflac.StreamInfo, Data: streamInfo(44100)},
		goflac.MetaDataBlock{Type: goflac.VorbisComment, Data: vorbisComment("reference libFLAC 1.4.3 20230623", comments...)},
		goflac.MetaDataBlock{Type: goflac.Padding, Data: make([]byte, 1024)},
	)
}

// fakeAudio stands in for encoded frames. Only the leading frame sync code
// is real, which is all go-flac checks before saving.
func fakeAudio(n int) []byte {
	audio := make([]byte, n)
	for i := range audio {
		audio[i] = byte(i * 7)
	}
	copy(audio, frameSync)
	return audio
}

// frameSync starts a fixed-blocksize FLAC frame.
var frameSync = []byte{0xFF, 0xF8}

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.flac")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

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
	return registry.Source{R: bytes.NewReader(data), Size: int64(len(data)), Name: "test.flac"}
}
