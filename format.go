package audiotag

import (
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// Format is an alias to types.Format.
// Re-exporting from internal/types to maintain public API.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown = types.FormatUnknown
	FormatFLAC    = types.FormatFLAC
	FormatMP3     = types.FormatMP3
	FormatM4A     = types.FormatM4A
	FormatM4B     = types.FormatM4B
	FormatOgg     = types.FormatOgg
	FormatOpus    = types.FormatOpus
	FormatWAV     = types.FormatWAV
	FormatAIFF    = types.FormatAIFF
	FormatAPE     = types.FormatAPE
	FormatWavPack = types.FormatWavPack
	FormatASF     = types.FormatASF
	FormatDSF     = types.FormatDSF
)

// SupportedFormats returns every format with a registered backend.
func SupportedFormats() []Format {
	return registry.Formats()
}
