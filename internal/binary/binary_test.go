package binary

import (
	"bytes"
	"strings"
	"testing"
)

func TestSafeReader_ReadAt(t *testing.T) {
	data := []byte("fLaC\x00\x00\x00\x22")
	sr := NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.flac")

	tests := []struct {
		name    string
		off     int64
		n       int
		wantErr string
	}{
		{"start", 0, 4, ""},
		{"whole", 0, 8, ""},
		{"tail", 4, 4, ""},
		{"negative offset", -1, 1, "out of bounds"},
		{"offset at end", 8, 1, "out of bounds"},
		{"past end", 6, 4, "would exceed file size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.n)
			err := sr.ReadAt(buf, tt.off, "block header")
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ReadAt() error = %v", err)
				}
				if !bytes.Equal(buf, data[tt.off:tt.off+int64(tt.n)]) {
					t.Errorf("ReadAt() = % x", buf)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("ReadAt() error = %v, want %q", err, tt.wantErr)
			}
			for _, part := range []string{"test.flac", "block header"} {
				if !strings.Contains(err.Error(), part) {
					t.Errorf("error %q should name %q", err, part)
				}
			}
		})
	}
}

func TestRead_ByteOrder(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	sr := NewSafeReader(bytes.NewReader(data), int64(len(data)), "test")

	if v, err := Read[uint8](sr, 1, "u8"); err != nil || v != 0x02 {
		t.Errorf("Read[uint8] = %#x, %v", v, err)
	}
	if v, err := Read[uint16](sr, 0, "u16"); err != nil || v != 0x0102 {
		t.Errorf("Read[uint16] = %#x, %v", v, err)
	}
	if v, err := Read[uint32](sr, 4, "u32"); err != nil || v != 0x05060708 {
		t.Errorf("Read[uint32] = %#x, %v", v, err)
	}
	if v, err := Read[uint64](sr, 0, "u64"); err != nil || v != 0x0102030405060708 {
		t.Errorf("Read[uint64] = %#x, %v", v, err)
	}
	if v, err := ReadLE[uint16](sr, 0, "u16"); err != nil || v != 0x0201 {
		t.Errorf("ReadLE[uint16] = %#x, %v", v, err)
	}
	if v, err := ReadLE[uint32](sr, 0, "u32"); err != nil || v != 0x04030201 {
		t.Errorf("ReadLE[uint32] = %#x, %v", v, err)
	}
	if _, err := Read[uint32](sr, 6, "u32"); err == nil {
		t.Error("Read past the end succeeded")
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	w := NewSafeWriter(&buf)

	Write(w, uint8(0x01))
	Write(w, uint16(0x0203))
	Write(w, uint32(0x04050607))
	Write(w, uint64(0x08090A0B0C0D0E0F))
	w.WriteString("ID3")
	w.WriteBytes([]byte{0xFF})

	want := []byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F,
		'I', 'D', '3',
		0xFF,
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("written % x\nwant    % x", buf.Bytes(), want)
	}
}

func TestWrite_ReadBack(t *testing.T) {
	var buf bytes.Buffer
	w := NewSafeWriter(&buf)
	if err := Write(w, uint32(0xDEADBEEF)); err != nil {
		t.Fatal(err)
	}

	sr := NewSafeReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()), "test")
	if sr.Size() != 4 {
		t.Errorf("Size() = %d", sr.Size())
	}
	v, err := Read[uint32](sr, 0, "value")
	if err != nil || v != 0xDEADBEEF {
		t.Errorf("Read() = %#x, %v", v, err)
	}
}
