package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// PropertyMap is an alias to types.PropertyMap.
// Re-exporting from internal/types to maintain public API.
type PropertyMap = types.PropertyMap

// Metadata is an alias to types.Metadata.
type Metadata = types.Metadata

// NewPropertyMap returns an empty property map.
func NewPropertyMap() PropertyMap {
	return types.NewPropertyMap()
}
