//go:build !linux

package stage

import "os"

// reserve is a no-op where fallocate is unavailable.
func reserve(*os.File, int64) error { return nil }
