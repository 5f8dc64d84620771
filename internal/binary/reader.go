// Package binary provides bounds-checked binary reading and writing for the
// header probes the format backends run themselves.
package binary

import (
	"encoding/binary"
	"fmt"
	"io"
)

// SafeReader wraps io.ReaderAt with bounds checking and helpful error messages.
type SafeReader struct {
	r    io.ReaderAt
	path string
	size int64
}

// NewSafeReader creates a new SafeReader. path labels error messages.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
		path: path,
	}
}

// Size returns the size of the underlying data.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// ReadAt fills b from off. what names the field in error messages.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || off >= sr.size {
		return fmt.Errorf("%s: offset %d out of bounds (file size: %d) while reading %s",
			sr.path, off, sr.size, what)
	}

	if off+int64(len(b)) > sr.size {
		return fmt.Errorf("%s: read of %d bytes at offset %d would exceed file size %d while reading %s",
			sr.path, len(b), off, sr.size, what)
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", sr.path, what, off, err)
	}

	if n < len(b) {
		return fmt.Errorf("%s: short read for %s at offset %d: got %d bytes, expected %d",
			sr.path, what, off, n, len(b))
	}

	return nil
}

// Unsigned is the set of values Read and Write handle.
type Unsigned interface {
	uint8 | uint16 | uint32 | uint64
}

// Read reads a big-endian value of type T at off.
func Read[T Unsigned](sr *SafeReader, off int64, what string) (T, error) {
	return readOrder[T](sr, off, what, binary.BigEndian)
}

// ReadLE reads a little-endian value of type T at off.
func ReadLE[T Unsigned](sr *SafeReader, off int64, what string) (T, error) {
	return readOrder[T](sr, off, what, binary.LittleEndian)
}

func readOrder[T Unsigned](sr *SafeReader, off int64, what string, order binary.ByteOrder) (T, error) {
	var zero T
	buf := make([]byte, sizeOf(zero))
	if err := sr.ReadAt(buf, off, what); err != nil {
		return zero, err
	}

	switch any(zero).(type) {
	case uint8:
		return T(buf[0]), nil
	case uint16:
		return T(order.Uint16(buf)), nil
	case uint32:
		return T(order.Uint32(buf)), nil
	default:
		return T(order.Uint64(buf)), nil
	}
}

func sizeOf[T Unsigned](v T) int {
	switch any(v).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}
