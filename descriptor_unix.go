//go:build unix

package audiotag

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// dupFile duplicates the file descriptor with dup(2).
func dupFile(f *os.File) (*os.File, error) {
	fd, err := unix.Dup(int(f.Fd()))
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(fd), f.Name()), nil
}

// writable reports whether f was opened for writing.
func writable(f *os.File) bool {
	flags, err := unix.FcntlInt(f.Fd(), unix.F_GETFL, 0)
	if err != nil {
		return false
	}
	return flags&unix.O_ACCMODE != unix.O_RDONLY
}

// fdPath resolves the descriptor through /proc/self/fd where available.
func fdPath(f *os.File) string {
	p, err := os.Readlink("/proc/self/fd/" + strconv.Itoa(int(f.Fd())))
	if err != nil {
		return ""
	}
	if _, err := os.Stat(p); err != nil {
		// deleted or not a regular path, e.g. "pipe:[123]"
		return ""
	}
	return p
}
