package audiotag

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the semantic version of the audiotag library.
const Version = "0.1.0"

// BuildInfo describes the binary the library is linked into.
type BuildInfo struct {
	Version string

	// VCS revision recorded by the go command, or "unknown"
	Revision string

	GoVersion string
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (revision %s, %s)", b.Version, b.Revision, b.GoVersion)
}

// ReadBuildInfo reports Version together with what the go command embedded
// in the running binary.
func ReadBuildInfo() BuildInfo {
	info := BuildInfo{Version: Version, Revision: "unknown", GoVersion: runtime.Version()}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, setting := range bi.Settings {
		if setting.Key == "vcs.revision" && setting.Value != "" {
			info.Revision = setting.Value
		}
	}
	return info
}
