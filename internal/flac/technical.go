package flac

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/mewkiz/flac"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// readAudioProperties computes stream statistics from STREAMINFO.
//
// When STREAMINFO does not record the sample count, ReadAccurate decodes
// every frame to count samples; faster styles report a zero length.
// ReadFast derives the bitrate from the whole file, the other styles from
// the audio frames alone.
func readAudioProperties(r io.ReaderAt, size int64, path string, style types.ReadStyle) (*types.AudioProperties, []types.Warning) {
	sr := binutil.NewSafeReader(r, size, path)
	md, ok := readMetadata(sr, size, nil)
	if !ok {
		return nil, nil
	}
	warnings := md.Warnings

	stream, err := flac.New(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, append(warnings, types.Warning{
			Stage:   "audio",
			Message: fmt.Sprintf("STREAMINFO unreadable: %v", err),
		})
	}
	info := stream.Info
	if info.SampleRate == 0 {
		return nil, append(warnings, types.Warning{Stage: "audio", Message: "STREAMINFO sample rate is zero"})
	}

	samples := info.NSamples
	if samples == 0 {
		if style == types.ReadAccurate {
			var warning *types.Warning
			samples, warning = countSamples(stream)
			if warning != nil {
				warnings = append(warnings, *warning)
			}
		} else {
			warnings = append(warnings, types.Warning{Stage: "audio", Message: "STREAMINFO does not record the sample count"})
		}
	}

	seconds := float64(samples) / float64(info.SampleRate)
	streamBytes := size
	if style != types.ReadFast {
		streamBytes = size - md.End
	}

	bitrate := 0
	if seconds > 0 {
		bitrate = int(math.Round(float64(streamBytes) * 8 / seconds / 1000))
	}

	return types.NewAudioProperties(
		time.Duration(seconds*float64(time.Second)),
		bitrate,
		int(info.SampleRate),
		int(info.NChannels),
	), warnings
}

// countSamples decodes the remaining frames of stream and sums their block
// sizes. A decoding error ends the count early.
func countSamples(stream *flac.Stream) (uint64, *types.Warning) {
	var samples uint64
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			return samples, nil
		}
		if err != nil {
			return samples, &types.Warning{
				Stage:   "audio",
				Message: fmt.Sprintf("frame decoding stopped after %d samples: %v", samples, err),
			}
		}
		samples += uint64(frame.BlockSize)
	}
}

// probe reports whether the file starts with a FLAC stream marker.
func probe(r io.ReaderAt, size int64, path string) bool {
	_, ok := readMetadata(binutil.NewSafeReader(r, size, path), size, nil)
	return ok
}
