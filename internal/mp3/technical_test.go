package mp3

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/simonhull/audiotag/internal/types"
)

func TestParseFrameHeader(t *testing.T) {
	tests := []struct {
		name       string
		header     []byte
		wantOK     bool
		version    mpegVersion
		layer      int
		bitrate    int
		sampleRate int
		size       int
		samples    int
		channels   int
	}{
		{"MPEG-1 L3 128k stereo", []byte{0xFF, 0xFB, 0x90, 0x00}, true, mpeg1, 3, 128, 44100, 417, 1152, 2},
		{"MPEG-1 L3 128k padded mono", []byte{0xFF, 0xFB, 0x92, 0xC0}, true, mpeg1, 3, 128, 44100, 418, 1152, 1},
		{"MPEG-1 L3 320k", []byte{0xFF, 0xFB, 0xE0, 0x40}, true, mpeg1, 3, 320, 44100, 1044, 1152, 2},
		{"MPEG-2 L3 80k", []byte{0xFF, 0xF3, 0x90, 0x00}, true, mpeg2, 3, 80, 22050, 261, 576, 2},
		{"MPEG-2.5 L3 32k", []byte{0xFF, 0xE3, 0x40, 0xC0}, true, mpeg25, 3, 32, 11025, 208, 576, 1},
		{"MPEG-1 L2 192k 48k", []byte{0xFF, 0xFD, 0xA4, 0x00}, true, mpeg1, 2, 192, 48000, 576, 1152, 2},
		{"MPEG-1 L1 384k", []byte{0xFF, 0xFF, 0xC0, 0x00}, true, mpeg1, 1, 384, 44100, 416, 384, 2},
		{"free format", []byte{0xFF, 0xFB, 0x00, 0x00}, false, 0, 0, 0, 0, 0, 0, 0},
		{"bad bitrate", []byte{0xFF, 0xFB, 0xF0, 0x00}, false, 0, 0, 0, 0, 0, 0, 0},
		{"reserved sample rate", []byte{0xFF, 0xFB, 0x9C, 0x00}, false, 0, 0, 0, 0, 0, 0, 0},
		{"reserved layer", []byte{0xFF, 0xF9, 0x90, 0x00}, false, 0, 0, 0, 0, 0, 0, 0},
		{"reserved version", []byte{0xFF, 0xEB, 0x90, 0x00}, false, 0, 0, 0, 0, 0, 0, 0},
		{"no sync", []byte{0xFE, 0xFB, 0x90, 0x00}, false, 0, 0, 0, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := parseFrameHeader(tt.header)
			if ok != tt.wantOK {
				t.Fatalf("parseFrameHeader() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if h.version != tt.version || h.layer != tt.layer {
				t.Errorf("version/layer = %d/%d, want %d/%d", h.version, h.layer, tt.version, tt.layer)
			}
			if h.bitrate != tt.bitrate || h.sampleRate != tt.sampleRate {
				t.Errorf("bitrate/sampleRate = %d/%d, want %d/%d", h.bitrate, h.sampleRate, tt.bitrate, tt.sampleRate)
			}
			if h.size != tt.size || h.samples != tt.samples {
				t.Errorf("size/samples = %d/%d, want %d/%d", h.size, h.samples, tt.size, tt.samples)
			}
			if h.channels() != tt.channels {
				t.Errorf("channels = %d, want %d", h.channels(), tt.channels)
			}
		})
	}
}

func TestSideInfoSize(t *testing.T) {
	tests := []struct {
		version mpegVersion
		mode    byte
		want    int
	}{
		{mpeg1, 0, 32},
		{mpeg1, channelModeMono, 17},
		{mpeg2, 0, 17},
		{mpeg2, channelModeMono, 9},
		{mpeg25, 1, 17},
	}
	for _, tt := range tests {
		h := frameHeader{version: tt.version, channelMode: tt.mode}
		if got := h.sideInfoSize(); got != tt.want {
			t.Errorf("sideInfoSize(%d, %d) = %d, want %d", tt.version, tt.mode, got, tt.want)
		}
	}
}

func readProps(t *testing.T, data []byte, style types.ReadStyle) *types.AudioProperties {
	t.Helper()
	props, _ := readAudioProperties(bytes.NewReader(data), int64(len(data)), "test.mp3", style)
	if props == nil {
		t.Fatalf("readAudioProperties(%v) = nil", style)
	}
	return props
}

func TestReadAudioProperties_CBR(t *testing.T) {
	data := mpegFrames(t, kbps128, 100)

	// 100 frames of 1152 samples at 44.1 kHz
	exact := readProps(t, data, types.ReadAccurate)
	if exact.LengthMillis() != 2612 {
		t.Errorf("accurate length = %dms, want 2612ms", exact.LengthMillis())
	}
	if exact.Bitrate != 128 || exact.SampleRate != 44100 || exact.Channels != 2 {
		t.Errorf("accurate = %+v", exact)
	}

	for _, style := range []types.ReadStyle{types.ReadFast, types.ReadAverage} {
		got := readProps(t, data, style)
		if diff := got.Length - exact.Length; diff < -10*time.Millisecond || diff > 10*time.Millisecond {
			t.Errorf("%v length = %v, want within 10ms of %v", style, got.Length, exact.Length)
		}
		if got.Bitrate != 128 {
			t.Errorf("%v bitrate = %d, want 128", style, got.Bitrate)
		}
	}
}

func TestReadAudioProperties_StylesConverge(t *testing.T) {
	// Variable bitrate without a VBR header: the first frames understate
	// the bitrate of the stream.
	data := append(mpegFrames(t, kbps128, 40), mpegFrames(t, kbps320, 200)...)

	want := time.Duration(240*1152) * time.Second / 44100
	want = want.Truncate(time.Millisecond)

	fast := readProps(t, data, types.ReadFast)
	average := readProps(t, data, types.ReadAverage)
	accurate := readProps(t, data, types.ReadAccurate)

	if accurate.Length != want {
		t.Errorf("accurate length = %v, want %v", accurate.Length, want)
	}

	errOf := func(p *types.AudioProperties) time.Duration {
		return (p.Length - want).Abs()
	}
	if !(errOf(fast) >= errOf(average) && errOf(average) >= errOf(accurate)) {
		t.Errorf("errors not monotonic: fast %v, average %v, accurate %v",
			errOf(fast), errOf(average), errOf(accurate))
	}
	if fast.Bitrate != 128 {
		t.Errorf("fast bitrate = %d, want first frame bitrate 128", fast.Bitrate)
	}
	if accurate.Bitrate <= average.Bitrate {
		t.Errorf("accurate bitrate %d should exceed average %d", accurate.Bitrate, average.Bitrate)
	}
}

func TestReadAudioProperties_XingHeader(t *testing.T) {
	xing := mpegFrame(t, kbps128, 0)
	copy(xing[36:], "Xing")
	binary.BigEndian.PutUint32(xing[40:], 0x03)
	binary.BigEndian.PutUint32(xing[44:], 1000)
	binary.BigEndian.PutUint32(xing[48:], 417000)

	data := append(xing, mpegFrames(t, kbps128, 9)...)

	// Fast and average trust the header
	for _, style := range []types.ReadStyle{types.ReadFast, types.ReadAverage} {
		got := readProps(t, data, style)
		if got.LengthMillis() != 26122 {
			t.Errorf("%v length = %dms, want 26122ms from the Xing frame count", style, got.LengthMillis())
		}
		if got.Bitrate != 128 {
			t.Errorf("%v bitrate = %d, want 128", style, got.Bitrate)
		}
	}

	// Accurate counts the nine audio frames that are really there
	got := readProps(t, data, types.ReadAccurate)
	if got.LengthMillis() != 235 {
		t.Errorf("accurate length = %dms, want 235ms", got.LengthMillis())
	}
}

func TestReadAudioProperties_IgnoresTags(t *testing.T) {
	audio := mpegFrames(t, kbps128, 100)
	bare := readProps(t, audio, types.ReadFast)

	var data []byte
	data = append(data, buildTag(4, buildFrame(4, "TIT2", []byte("\x03Title")))...)
	data = append(data, audio...)
	data = append(data, buildAPETag()...)
	data = append(data, buildID3v1("Title", "Artist", 1, 17)...)

	for _, style := range []types.ReadStyle{types.ReadFast, types.ReadAccurate} {
		got := readProps(t, data, style)
		want := bare
		if style == types.ReadAccurate {
			want = readProps(t, audio, types.ReadAccurate)
		}
		if got.Length != want.Length || got.Bitrate != want.Bitrate {
			t.Errorf("%v with tags = %v, without = %v", style, got, want)
		}
	}
}

func TestReadAudioProperties_LeadingJunk(t *testing.T) {
	data := append([]byte("junk before audio"), mpegFrames(t, kbps128, 20)...)

	props, warnings := readAudioProperties(bytes.NewReader(data), int64(len(data)), "test.mp3", types.ReadAccurate)
	if props == nil {
		t.Fatal("expected audio properties")
	}
	if props.LengthMillis() != 522 {
		t.Errorf("length = %dms, want 522ms", props.LengthMillis())
	}
	if len(warnings) == 0 {
		t.Error("expected a warning about skipped junk")
	}
}

func TestReadAudioProperties_NoFrames(t *testing.T) {
	data := bytes.Repeat([]byte("not audio "), 100)
	props, warnings := readAudioProperties(bytes.NewReader(data), int64(len(data)), "test.mp3", types.ReadAverage)
	if props != nil {
		t.Errorf("props = %v, want nil", props)
	}
	if len(warnings) == 0 {
		t.Error("expected a warning")
	}
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"frames", mpegFrames(t, kbps128, 3), true},
		{"tagged", append(buildTag(3), mpegFrames(t, kbps128, 1)...), true},
		{"text", bytes.Repeat([]byte("abc"), 100), false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := probe(bytes.NewReader(tt.data), int64(len(tt.data)), "x"); got != tt.want {
				t.Errorf("probe() = %v, want %v", got, tt.want)
			}
		})
	}
}
