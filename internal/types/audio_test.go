package types

import (
	"strings"
	"testing"
	"time"
)

func TestAudioProperties_String(t *testing.T) {
	tests := []struct {
		name  string
		props AudioProperties
		want  string
	}{
		{
			name:  "full info",
			props: AudioProperties{Length: 205120 * time.Millisecond, Bitrate: 320, SampleRate: 44100, Channels: 2},
			want:  "3:25.120 44.1kHz stereo 320kbps",
		},
		{
			name:  "mono without bitrate",
			props: AudioProperties{Length: 1500 * time.Millisecond, SampleRate: 48000, Channels: 1},
			want:  "0:01.500 48.0kHz mono",
		},
		{
			name:  "surround",
			props: AudioProperties{Length: 0, SampleRate: 96000, Channels: 6},
			want:  "0:00.000 96.0kHz 5.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.props.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewAudioProperties_TruncatesToMillis(t *testing.T) {
	props := NewAudioProperties(39936*time.Millisecond+999*time.Microsecond, 128, 44100, 2)
	if got := props.LengthMillis(); got != 39936 {
		t.Errorf("LengthMillis() = %d, want 39936", got)
	}
	if props.Length != 39936*time.Millisecond {
		t.Errorf("Length = %v, want truncated to ms", props.Length)
	}
}

func TestReadStyle_Ordering(t *testing.T) {
	if !(ReadFast < ReadAverage && ReadAverage < ReadAccurate) {
		t.Fatal("read styles must be strictly ordered")
	}
	if ReadStyle(3).Valid() || ReadStyle(-1).Valid() {
		t.Error("out of range styles reported valid")
	}
}

func TestParseReadStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    ReadStyle
		wantErr bool
	}{
		{"fast", ReadFast, false},
		{"Average", ReadAverage, false},
		{"", ReadAverage, false},
		{" ACCURATE ", ReadAccurate, false},
		{"slow", ReadAverage, true},
	}

	for _, tt := range tests {
		got, err := ParseReadStyle(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseReadStyle(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseReadStyle(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if !tt.wantErr && got.String() != strings.ToLower(strings.TrimSpace(tt.in)) && tt.in != "" {
			t.Errorf("String() = %q for input %q", got.String(), tt.in)
		}
	}
}
