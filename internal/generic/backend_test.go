package generic

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// wavFile returns a PCM WAV file of the given length, 16-bit stereo at
// 44.1 kHz.
func wavFile(seconds int) []byte {
	const (
		sampleRate = 44100
		channels   = 2
		bits       = 16
	)
	dataSize := seconds * sampleRate * channels * bits / 8

	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*channels*bits/8))
	binary.Write(buf, binary.LittleEndian, uint16(channels*bits/8))
	binary.Write(buf, binary.LittleEndian, uint16(bits))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(make([]byte, dataSize))
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
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

func TestProbe(t *testing.T) {
	wav := wavFile(0)
	ogg := append([]byte("OggS"), make([]byte, 60)...)
	m4b := append([]byte{0, 0, 0, 0x18, 'f', 't', 'y', 'p', 'M', '4', 'B', ' '}, make([]byte, 12)...)

	tests := []struct {
		name   string
		format types.Format
		data   []byte
		want   bool
	}{
		{"wav", types.FormatWAV, wav, true},
		{"wav as aiff", types.FormatAIFF, wav, false},
		{"ogg", types.FormatOgg, ogg, true},
		{"vorbis as opus", types.FormatOpus, ogg, true},
		{"m4b as m4a", types.FormatM4A, m4b, true},
		{"garbage", types.FormatASF, []byte("nothing here at all"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := registry.Source{R: bytes.NewReader(tt.data), Size: int64(len(tt.data)), Name: "x"}
			if got := (&backend{format: tt.format}).Probe(src); got != tt.want {
				t.Errorf("Probe() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistered(t *testing.T) {
	for _, f := range formats {
		if _, ok := registry.Get(f).(*backend); !ok {
			t.Errorf("%v not served by the TagLib backend", f)
		}
	}
}

func TestUnreadable(t *testing.T) {
	wav := wavFile(0)
	truncated := append([]byte{0, 0, 0, 0x18, 'f', 't', 'y', 'p', 'M', '4', 'A', ' '}, make([]byte, 200)...)

	tests := []struct {
		name   string
		format types.Format
		src    func(t *testing.T) registry.Source
	}{
		{"without path", types.FormatWAV, func(*testing.T) registry.Source {
			return registry.Source{R: bytes.NewReader(wav), Size: int64(len(wav)), Name: "anon.wav"}
		}},
		{"truncated mp4", types.FormatM4A, func(t *testing.T) registry.Source {
			return source(t, writeFile(t, "song.m4a", truncated))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.src(t)
			b := &backend{format: tt.format}

			if props, _, err := b.ReadProperties(src); !errors.Is(err, registry.ErrUnreadable) || props != nil {
				t.Errorf("ReadProperties() = %v, %v, want ErrUnreadable", props, err)
			}
			if pictures, _, err := b.ReadPictures(src); !errors.Is(err, registry.ErrUnreadable) || pictures != nil {
				t.Errorf("ReadPictures() = %#v, %v, want ErrUnreadable", pictures, err)
			}
			if audio, _, err := b.ReadAudioProperties(src, types.ReadAverage); !errors.Is(err, registry.ErrUnreadable) || audio != nil {
				t.Errorf("ReadAudioProperties() = %v, %v, want ErrUnreadable", audio, err)
			}
		})
	}
}

func TestWriteProperties_VorbisKeys(t *testing.T) {
	for _, f := range []types.Format{types.FormatOgg, types.FormatOpus} {
		err := (&backend{format: f}).WriteProperties("unused.ogg", types.PropertyMap{"TÍTULO": {"x"}}, registry.WriteOptions{Format: f})

		var unrep *types.UnrepresentableError
		if !errors.As(err, &unrep) || unrep.Key != "TÍTULO" {
			t.Errorf("%v: WriteProperties() error = %v, want UnrepresentableError", f, err)
		}
	}
}

func TestReadAudioProperties_WAV(t *testing.T) {
	path := writeFile(t, "tone.wav", wavFile(2))

	props, warnings, err := (&backend{format: types.FormatWAV}).ReadAudioProperties(source(t, path), types.ReadFast)
	if err != nil {
		t.Fatalf("ReadAudioProperties() error = %v", err)
	}
	if props == nil {
		t.Fatalf("ReadAudioProperties() = nil, warnings %v", warnings)
	}
	if props.Length != 2*time.Second {
		t.Errorf("Length = %v, want 2s", props.Length)
	}
	if props.SampleRate != 44100 || props.Channels != 2 {
		t.Errorf("SampleRate = %d, Channels = %d", props.SampleRate, props.Channels)
	}
	if props.Bitrate != 1411 {
		t.Errorf("Bitrate = %d, want 1411", props.Bitrate)
	}
}

func TestWriteProperties_WAVRoundTrip(t *testing.T) {
	path := writeFile(t, "tone.wav", wavFile(1))
	b := &backend{format: types.FormatWAV}

	props := types.PropertyMap{
		"TITLE":  {"Tone"},
		"ARTIST": {"Generator"},
		"ALBUM":  {"Tests"},
	}
	if err := b.WriteProperties(path, props, registry.WriteOptions{Format: types.FormatWAV}); err != nil {
		t.Fatalf("WriteProperties() error = %v", err)
	}

	got, _, err := b.ReadProperties(source(t, path))
	if err != nil {
		t.Fatalf("ReadProperties() error = %v", err)
	}
	for key, values := range props.All() {
		if v, _ := got.First(key); v != values[0] {
			t.Errorf("%s = %q, want %q", key, v, values[0])
		}
	}

	// A second write without ALBUM removes it
	props.Delete("ALBUM")
	if err := b.WriteProperties(path, props, registry.WriteOptions{Format: types.FormatWAV}); err != nil {
		t.Fatalf("WriteProperties() error = %v", err)
	}
	got, _, _ = b.ReadProperties(source(t, path))
	if got.Has("ALBUM") {
		t.Errorf("ALBUM still present: %v", got["ALBUM"])
	}
}
