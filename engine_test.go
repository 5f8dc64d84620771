package audiotag

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/simonhull/audiotag/internal/registry"
)

type fakeBackend struct {
	name    string
	initErr error
	inits   int
	probe   bool
}

func (b *fakeBackend) Name() string { return b.name }

func (b *fakeBackend) Init() error {
	b.inits++
	return b.initErr
}

func (b *fakeBackend) Probe(registry.Source) bool { return b.probe }

func TestNewEngine_Initializers(t *testing.T) {
	shared := &fakeBackend{name: "shared"}
	broken := &fakeBackend{name: "broken", initErr: errors.New("no runtime")}

	e := newEngine(map[Format]registry.Backend{
		FormatM4A:  shared,
		FormatM4B:  shared,
		FormatDSF:  broken,
		FormatFLAC: &fakeBackend{name: "flac"},
	}, zerolog.Nop())

	if shared.inits != 1 {
		t.Errorf("shared backend initialized %d times, want 1", shared.inits)
	}
	if e.backends[FormatM4A] != shared || e.backends[FormatM4B] != shared {
		t.Error("shared backend missing from the table")
	}
	if _, ok := e.backends[FormatDSF]; ok {
		t.Error("backend with a failing Init left in the table")
	}
	if len(e.backends) != 3 {
		t.Errorf("table has %d entries, want 3", len(e.backends))
	}
}

func TestEngine_Detect(t *testing.T) {
	flac := []byte("fLaC\x80\x00\x00\x00")
	mp3 := &fakeBackend{name: "mp3"}
	e := &engine{backends: map[Format]registry.Backend{
		FormatFLAC: &fakeBackend{name: "flac", probe: true},
		FormatMP3:  mp3,
	}}

	tests := []struct {
		name      string
		fileName  string
		data      []byte
		probe     bool
		want      Format
		wantFound bool
	}{
		{"name confirmed by probe", "song.mp3", []byte("junk data"), true, FormatMP3, true},
		{"name rejected by probe falls back to content", "song.mp3", flac, false, FormatFLAC, true},
		{"content without a name", "", flac, false, FormatFLAC, true},
		{"nothing recognized", "notes.txt", []byte("plain text"), false, FormatUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mp3.probe = tt.probe
			src := registry.Source{R: bytes.NewReader(tt.data), Size: int64(len(tt.data)), Name: tt.fileName}

			got, b := e.detect(src)
			if got != tt.want {
				t.Errorf("format = %v, want %v", got, tt.want)
			}
			if (b != nil) != tt.wantFound {
				t.Errorf("backend = %v, want found %v", b, tt.wantFound)
			}
		})
	}
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	for _, want := range []Format{FormatMP3, FormatFLAC, FormatM4A, FormatOgg, FormatOpus, FormatWAV, FormatAIFF} {
		found := false
		for _, f := range formats {
			if f == want {
				found = true
			}
		}
		if !found {
			t.Errorf("%v not registered", want)
		}
	}
}
