//go:build !unix

package audiotag

import "os"

// dupFile reopens the file by name.
func dupFile(f *os.File) (*os.File, error) {
	return os.OpenFile(f.Name(), os.O_RDWR, 0)
}

// writable assumes descriptors are writable; a failed commit reports
// otherwise.
func writable(*os.File) bool {
	return true
}

func fdPath(*os.File) string {
	return ""
}
