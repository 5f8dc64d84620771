package mp3

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"time"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

type mpegVersion int

const (
	mpeg1 mpegVersion = iota
	mpeg2
	mpeg25
)

// Bitrate tables in kbps, indexed by [MPEG-1 or MPEG-2/2.5][layer-1][index]
var bitrates = [2][3][16]int{
	{
		{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448, 0},
		{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, 0},
		{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0},
	},
	{
		{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256, 0},
		{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
		{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
	},
}

// Sample rates in Hz, indexed by [version][index]
var sampleRates = [3][3]int{
	{44100, 48000, 32000},
	{22050, 24000, 16000},
	{11025, 12000, 8000},
}

const (
	channelModeMono = 3

	// averageFrames is how many frames ReadAverage samples when the stream
	// has no VBR header
	averageFrames = 64

	// probeLimit bounds the frame sync search used for format probing
	probeLimit = 64 * 1024

	scanChunk = 8192
)

// frameHeader is a decoded MPEG audio frame header.
type frameHeader struct {
	version     mpegVersion
	layer       int
	bitrate     int // kbps
	sampleRate  int
	channelMode byte
	size        int // bytes including header
	samples     int // per frame
}

// parseFrameHeader decodes a 4-byte frame header. Free-format and reserved
// values are rejected.
func parseFrameHeader(b []byte) (frameHeader, bool) {
	if len(b) < 4 || b[0] != 0xFF || b[1]&0xE0 != 0xE0 {
		return frameHeader{}, false
	}

	var h frameHeader
	switch (b[1] >> 3) & 0x03 {
	case 3:
		h.version = mpeg1
	case 2:
		h.version = mpeg2
	case 0:
		h.version = mpeg25
	default:
		return frameHeader{}, false
	}

	layerBits := (b[1] >> 1) & 0x03
	if layerBits == 0 {
		return frameHeader{}, false
	}
	h.layer = 4 - int(layerBits)

	bitrateIndex := b[2] >> 4
	sampleRateIndex := (b[2] >> 2) & 0x03
	if bitrateIndex == 0 || bitrateIndex == 15 || sampleRateIndex == 3 {
		return frameHeader{}, false
	}

	table := 0
	if h.version != mpeg1 {
		table = 1
	}
	h.bitrate = bitrates[table][h.layer-1][bitrateIndex]
	h.sampleRate = sampleRates[h.version][sampleRateIndex]
	h.channelMode = b[3] >> 6

	padding := int((b[2] >> 1) & 0x01)
	bps := h.bitrate * 1000
	switch {
	case h.layer == 1:
		h.samples = 384
		h.size = (12*bps/h.sampleRate + padding) * 4
	case h.layer == 3 && h.version != mpeg1:
		h.samples = 576
		h.size = 72*bps/h.sampleRate + padding
	default:
		h.samples = 1152
		h.size = 144*bps/h.sampleRate + padding
	}

	return h, true
}

func (h frameHeader) channels() int {
	if h.channelMode == channelModeMono {
		return 1
	}
	return 2
}

// sideInfoSize is the size of the Layer III side information, which is
// where a Xing header starts.
func (h frameHeader) sideInfoSize() int {
	mono := h.channelMode == channelModeMono
	switch {
	case h.version == mpeg1 && mono:
		return 17
	case h.version == mpeg1:
		return 32
	case mono:
		return 9
	default:
		return 17
	}
}

// sameStream reports whether two headers can belong to one stream.
func (h frameHeader) sameStream(o frameHeader) bool {
	return h.version == o.version && h.layer == o.layer && h.sampleRate == o.sampleRate
}

// stream is the MPEG payload of a file, between the leading ID3v2 tag and
// any trailing APEv2 or ID3v1 tags.
type stream struct {
	r     io.ReaderAt
	sr    *binutil.SafeReader
	start int64
	end   int64
}

func newStream(r io.ReaderAt, size int64, path string) *stream {
	sr := binutil.NewSafeReader(r, size, path)
	s := &stream{r: r, sr: sr, start: id3v2End(sr), end: size}

	if hasID3v1(sr, s.end) {
		s.end -= id3v1Size
	}
	s.end -= apeTagSize(sr, s.end)
	if s.end < s.start {
		s.end = s.start
	}
	return s
}

// apeTagSize returns the size of an APEv2 tag ending at end, 0 if none.
func apeTagSize(sr *binutil.SafeReader, end int64) int64 {
	const footerSize = 32
	if end < footerSize {
		return 0
	}
	footer := end - footerSize
	magic := make([]byte, 8)
	if err := sr.ReadAt(magic, footer, "APE tag footer"); err != nil || string(magic) != "APETAGEX" {
		return 0
	}
	size, err := binutil.ReadLE[uint32](sr, footer+12, "APE tag size")
	if err != nil {
		return 0
	}
	flags, err := binutil.ReadLE[uint32](sr, footer+20, "APE tag flags")
	if err != nil {
		return 0
	}
	total := int64(size)
	if flags&(1<<31) != 0 {
		total += footerSize // header
	}
	if total > end {
		return 0
	}
	return total
}

// headerAt decodes the frame header at off.
func (s *stream) headerAt(off int64) (frameHeader, bool) {
	if off < s.start || off+4 > s.end {
		return frameHeader{}, false
	}
	buf := make([]byte, 4)
	if err := s.sr.ReadAt(buf, off, "MPEG frame header"); err != nil {
		return frameHeader{}, false
	}
	return parseFrameHeader(buf)
}

// confirmed reports whether the frame at off is followed by another frame of
// the same stream, or by the end of the payload.
func (s *stream) confirmed(off int64, h frameHeader) bool {
	next := off + int64(h.size)
	if next >= s.end-3 {
		return next <= s.end
	}
	n, ok := s.headerAt(next)
	return ok && n.sameStream(h)
}

// nextFrame finds the first confirmed frame at or after off, giving up at
// limit.
func (s *stream) nextFrame(off, limit int64) (int64, frameHeader, bool) {
	limit = min(limit, s.end)
	buf := make([]byte, scanChunk)
	for off+4 <= limit {
		n := min(int64(len(buf)), s.end-off)
		chunk := buf[:n]
		if _, err := s.r.ReadAt(chunk, off); err != nil && !errors.Is(err, io.EOF) {
			return 0, frameHeader{}, false
		}
		for i := 0; i+4 <= len(chunk) && off+int64(i) < limit; i++ {
			if chunk[i] != 0xFF {
				continue
			}
			h, ok := parseFrameHeader(chunk[i : i+4])
			if !ok {
				continue
			}
			pos := off + int64(i)
			if s.confirmed(pos, h) {
				return pos, h, true
			}
		}
		off += n - 3
	}
	return 0, frameHeader{}, false
}

// vbrHeader holds the totals announced by a Xing, Info or VBRI header.
type vbrHeader struct {
	frames int64
	bytes  int64
}

// readVBRHeader looks for a Xing/Info header after the side information and
// a VBRI header at the fixed Fraunhofer offset.
func (s *stream) readVBRHeader(off int64, h frameHeader) (vbrHeader, bool) {
	n := min(int64(h.size), s.end-off)
	buf := make([]byte, n)
	if err := s.sr.ReadAt(buf, off, "VBR header"); err != nil {
		return vbrHeader{}, false
	}

	if x := 4 + h.sideInfoSize(); x+8 <= len(buf) {
		if tag := string(buf[x : x+4]); tag == "Xing" || tag == "Info" {
			flags := binary.BigEndian.Uint32(buf[x+4 : x+8])
			p := x + 8
			var v vbrHeader
			if flags&0x01 != 0 && p+4 <= len(buf) {
				v.frames = int64(binary.BigEndian.Uint32(buf[p : p+4]))
				p += 4
			}
			if flags&0x02 != 0 && p+4 <= len(buf) {
				v.bytes = int64(binary.BigEndian.Uint32(buf[p : p+4]))
			}
			return v, v.frames > 0
		}
	}

	const vbriOffset = 4 + 32
	if vbriOffset+18 <= len(buf) && string(buf[vbriOffset:vbriOffset+4]) == "VBRI" {
		v := vbrHeader{
			bytes:  int64(binary.BigEndian.Uint32(buf[vbriOffset+10 : vbriOffset+14])),
			frames: int64(binary.BigEndian.Uint32(buf[vbriOffset+14 : vbriOffset+18])),
		}
		return v, v.frames > 0
	}

	return vbrHeader{}, false
}

// readAudioProperties computes stream statistics at the requested accuracy.
//
//   - ReadFast trusts a VBR header, else assumes constant bitrate from the
//     first frame.
//   - ReadAverage trusts a VBR header, else averages the first frames.
//   - ReadAccurate walks every frame.
//
// Returns nil when no MPEG frame can be found.
func readAudioProperties(r io.ReaderAt, size int64, path string, style types.ReadStyle) (*types.AudioProperties, []types.Warning) {
	s := newStream(r, size, path)

	first, h, ok := s.nextFrame(s.start, s.end)
	if !ok {
		return nil, []types.Warning{{Stage: "audio", Message: "no MPEG audio frames found"}}
	}
	var warnings []types.Warning
	if first != s.start {
		warnings = append(warnings, types.Warning{
			Stage:   "audio",
			Message: "skipped junk before the first MPEG frame",
			Offset:  s.start,
		})
	}

	vbr, hasVBR := s.readVBRHeader(first, h)
	if style != types.ReadAccurate && hasVBR {
		seconds := float64(vbr.frames*int64(h.samples)) / float64(h.sampleRate)
		bytes := vbr.bytes
		if bytes == 0 {
			bytes = s.end - first
		}
		return properties(seconds, bytes, h), warnings
	}

	payload := s.end - first
	switch style {
	case types.ReadFast:
		seconds := float64(payload*8) / float64(h.bitrate*1000)
		return types.NewAudioProperties(toDuration(seconds), h.bitrate, h.sampleRate, h.channels()), warnings

	case types.ReadAverage:
		bytes, samples := s.walk(first, h, averageFrames)
		if samples == 0 {
			return nil, warnings
		}
		avgBitrate := float64(bytes*8) / (float64(samples) / float64(h.sampleRate))
		seconds := float64(payload*8) / avgBitrate
		return types.NewAudioProperties(toDuration(seconds), kbps(avgBitrate), h.sampleRate, h.channels()), warnings

	default:
		start := first
		if hasVBR {
			// The header frame carries no audio
			start += int64(h.size)
		}
		bytes, samples := s.walk(start, h, math.MaxInt)
		if samples == 0 {
			return nil, warnings
		}
		seconds := float64(samples) / float64(h.sampleRate)
		return properties(seconds, bytes, h), warnings
	}
}

// walk follows frames from off, resynchronising over junk, and returns the
// bytes and samples of up to limit frames.
func (s *stream) walk(off int64, first frameHeader, limit int) (bytes, samples int64) {
	for count := 0; count < limit && off+4 <= s.end; count++ {
		h, ok := s.headerAt(off)
		if !ok || !h.sameStream(first) {
			next, nh, found := s.nextFrame(off+1, s.end)
			if !found || !nh.sameStream(first) {
				break
			}
			off, h = next, nh
		}
		if off+int64(h.size) > s.end {
			break
		}
		bytes += int64(h.size)
		samples += int64(h.samples)
		off += int64(h.size)
	}
	return bytes, samples
}

func properties(seconds float64, bytes int64, h frameHeader) *types.AudioProperties {
	bitrate := 0
	if seconds > 0 {
		bitrate = kbps(float64(bytes*8) / seconds)
	}
	return types.NewAudioProperties(toDuration(seconds), bitrate, h.sampleRate, h.channels())
}

func kbps(bitsPerSecond float64) int {
	return int(math.Round(bitsPerSecond / 1000))
}

func toDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// probe reports whether the file looks like MPEG audio.
func probe(r io.ReaderAt, size int64, path string) bool {
	s := newStream(r, size, path)
	if s.start > 0 {
		return true
	}
	_, _, ok := s.nextFrame(0, probeLimit)
	return ok
}
