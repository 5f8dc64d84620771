package binary

import (
	"encoding/binary"
	"io"
)

// SafeWriter wraps io.Writer for building frame and block bodies.
type SafeWriter struct {
	w io.Writer
}

// NewSafeWriter creates a new SafeWriter.
func NewSafeWriter(w io.Writer) *SafeWriter {
	return &SafeWriter{w: w}
}

// WriteBytes writes raw bytes to the underlying writer.
func (sw *SafeWriter) WriteBytes(b []byte) error {
	_, err := sw.w.Write(b)
	return err
}

// WriteString writes a string as bytes to the underlying writer.
func (sw *SafeWriter) WriteString(s string) error {
	_, err := io.WriteString(sw.w, s)
	return err
}

// Write writes a value of type T in big-endian byte order.
func Write[T Unsigned](sw *SafeWriter, val T) error {
	buf := make([]byte, sizeOf(val))
	switch v := any(val).(type) {
	case uint8:
		buf[0] = v
	case uint16:
		binary.BigEndian.PutUint16(buf, v)
	case uint32:
		binary.BigEndian.PutUint32(buf, v)
	case uint64:
		binary.BigEndian.PutUint64(buf, v)
	}
	return sw.WriteBytes(buf)
}
