package audiotag

// Format backends register themselves from init.
import (
	_ "github.com/simonhull/audiotag/internal/flac"
	_ "github.com/simonhull/audiotag/internal/generic"
	_ "github.com/simonhull/audiotag/internal/mp3"
)
