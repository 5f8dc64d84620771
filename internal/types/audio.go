package types

import (
	"fmt"
	"strings"
	"time"
)

// AudioProperties is a snapshot of stream statistics.
//
// Accuracy of Length and Bitrate depends on the ReadStyle used to compute
// them. Values are never mutated after a read.
type AudioProperties struct {
	Length     time.Duration // Millisecond precision
	Bitrate    int           // kbps
	SampleRate int           // Hz
	Channels   int
}

// NewAudioProperties builds AudioProperties, truncating length to whole
// milliseconds.
func NewAudioProperties(length time.Duration, bitrateKbps, sampleRate, channels int) *AudioProperties {
	return &AudioProperties{
		Length:     length.Truncate(time.Millisecond),
		Bitrate:    bitrateKbps,
		SampleRate: sampleRate,
		Channels:   channels,
	}
}

// LengthMillis returns Length in whole milliseconds.
func (a AudioProperties) LengthMillis() int64 {
	return a.Length.Milliseconds()
}

// String returns a human-readable representation.
// Example output: "3:25.120 44.1kHz stereo 320kbps".
func (a AudioProperties) String() string {
	parts := []string{formatLength(a.Length)}
	if a.SampleRate > 0 {
		parts = append(parts, fmt.Sprintf("%.1fkHz", float64(a.SampleRate)/1000))
	}
	if ch := channelDescription(a.Channels); ch != "" {
		parts = append(parts, ch)
	}
	if a.Bitrate > 0 {
		parts = append(parts, fmt.Sprintf("%dkbps", a.Bitrate))
	}
	return strings.Join(parts, " ")
}

func formatLength(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%d:%02d.%03d", ms/60000, (ms/1000)%60, ms%1000)
}

// channelDescription returns a human-readable channel description.
func channelDescription(channels int) string {
	switch channels {
	case 0:
		return ""
	case 1:
		return "mono"
	case 2:
		return "stereo"
	case 4:
		return "quad"
	case 6:
		return "5.1"
	case 8:
		return "7.1"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

// ReadStyle trades speed for accuracy when computing AudioProperties.
//
// Styles are strictly ordered: ReadFast < ReadAverage < ReadAccurate.
// Backends receive the style unchanged.
type ReadStyle int

const (
	// ReadFast does minimal scanning. Length and bitrate of variable
	// bitrate streams may be estimates.
	ReadFast ReadStyle = iota
	// ReadAverage balances speed and accuracy. This is the default.
	ReadAverage
	// ReadAccurate scans as much of the stream as needed for exact values.
	ReadAccurate
)

// String returns the style name.
func (s ReadStyle) String() string {
	switch s {
	case ReadFast:
		return "fast"
	case ReadAverage:
		return "average"
	case ReadAccurate:
		return "accurate"
	default:
		return fmt.Sprintf("ReadStyle(%d)", int(s))
	}
}

// ParseReadStyle parses "fast", "average" or "accurate" (case-insensitive).
func ParseReadStyle(s string) (ReadStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast":
		return ReadFast, nil
	case "average", "":
		return ReadAverage, nil
	case "accurate":
		return ReadAccurate, nil
	}
	return ReadAverage, fmt.Errorf("unknown read style %q", s)
}

// Valid reports whether s is one of the defined styles.
func (s ReadStyle) Valid() bool {
	return s >= ReadFast && s <= ReadAccurate
}
