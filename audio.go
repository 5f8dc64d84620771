package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// AudioProperties is an alias to types.AudioProperties.
// Re-exporting from internal/types to maintain public API.
type AudioProperties = types.AudioProperties

// ReadStyle is an alias to types.ReadStyle.
type ReadStyle = types.ReadStyle

// Re-export the read styles.
const (
	ReadFast     = types.ReadFast
	ReadAverage  = types.ReadAverage
	ReadAccurate = types.ReadAccurate
)

// ParseReadStyle parses "fast", "average" or "accurate".
func ParseReadStyle(s string) (ReadStyle, error) {
	return types.ParseReadStyle(s)
}
