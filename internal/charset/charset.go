// Package charset normalizes tag text between container encodings and Go
// strings.
//
// Decoding never guesses. Text that is valid UTF-8 (or was decoded from a
// declared Unicode encoding) is used verbatim; anything else is taken byte
// for byte as ISO-8859-1. That fallback is lossless: encoding the result back
// to ISO-8859-1 reproduces the original bytes, so a read/write/read cycle is
// stable even when the displayed text is mojibake.
package charset

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset is a text encoding a tag frame can declare, ordered from narrowest
// to broadest repertoire.
type Charset int

const (
	// Latin1 is ISO-8859-1, one byte per rune, U+0000 to U+00FF only.
	Latin1 Charset = iota
	// UTF16 is UTF-16 with a byte order mark.
	UTF16
	// UTF8 is UTF-8.
	UTF8
)

func (c Charset) String() string {
	switch c {
	case Latin1:
		return "ISO-8859-1"
	case UTF16:
		return "UTF-16"
	case UTF8:
		return "UTF-8"
	default:
		return fmt.Sprintf("Charset(%d)", int(c))
	}
}

var (
	latin1                    = charmap.ISO8859_1
	utf16   encoding.Encoding = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	utf16BE encoding.Encoding = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
)

// Normalize returns s unchanged if it is valid UTF-8. Otherwise it returns
// the bytes of s decoded as ISO-8859-1 and fellBack is true.
func Normalize(s string) (text string, fellBack bool) {
	if utf8.ValidString(s) {
		return s, false
	}
	return DecodeLatin1([]byte(s)), true
}

// NormalizeBytes is Normalize for a byte slice.
func NormalizeBytes(b []byte) (text string, fellBack bool) {
	if utf8.Valid(b) {
		return string(b), false
	}
	return DecodeLatin1(b), true
}

// DecodeLatin1 decodes ISO-8859-1 bytes. Every byte sequence is valid.
func DecodeLatin1(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 2)
	for _, c := range b {
		sb.WriteRune(latin1.DecodeByte(c))
	}
	return sb.String()
}

// EncodeLatin1 encodes s as ISO-8859-1.
//
// It fails if s holds a rune above U+00FF; callers pick a broader charset
// with Narrowest first.
func EncodeLatin1(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i, r := range s {
		b, ok := latin1.EncodeRune(r)
		if !ok {
			return nil, fmt.Errorf("rune %U at byte %d is outside ISO-8859-1", r, i)
		}
		out = append(out, b)
	}
	return out, nil
}

// FitsLatin1 reports whether every rune of s is representable in ISO-8859-1.
func FitsLatin1(s string) bool {
	for _, r := range s {
		if r > 0xFF {
			return false
		}
	}
	return true
}

// Narrowest returns the narrowest charset that can hold every text, capped
// at broadest. Latin1 is chosen whenever it fits so that text recovered by
// the ISO-8859-1 fallback is written back byte for byte.
func Narrowest(broadest Charset, texts ...string) Charset {
	for _, s := range texts {
		if !FitsLatin1(s) {
			return broadest
		}
	}
	return Latin1
}

// DecodeUTF16 decodes UTF-16 honouring a leading BOM (little endian when
// absent). Invalid sequences become U+FFFD.
func DecodeUTF16(b []byte) (string, error) {
	out, _, err := transform.Bytes(utf16.NewDecoder(), b)
	if err != nil {
		return "", fmt.Errorf("decode UTF-16: %w", err)
	}
	return string(out), nil
}

// DecodeUTF16BE decodes big endian UTF-16 without a BOM.
func DecodeUTF16BE(b []byte) (string, error) {
	out, _, err := transform.Bytes(utf16BE.NewDecoder(), b)
	if err != nil {
		return "", fmt.Errorf("decode UTF-16BE: %w", err)
	}
	return string(out), nil
}

// EncodeUTF16 encodes s as UTF-16 little endian with a BOM.
func EncodeUTF16(s string) ([]byte, error) {
	out, _, err := transform.Bytes(utf16.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode UTF-16: %w", err)
	}
	return out, nil
}

// Encode encodes s in c.
func Encode(c Charset, s string) ([]byte, error) {
	switch c {
	case Latin1:
		return EncodeLatin1(s)
	case UTF16:
		return EncodeUTF16(s)
	case UTF8:
		if !utf8.ValidString(s) {
			return nil, fmt.Errorf("text is not valid UTF-8")
		}
		return []byte(s), nil
	default:
		return nil, fmt.Errorf("unknown charset %v", c)
	}
}

// Decode decodes b from c. Latin1 and UTF-8 never fail; invalid UTF-8 falls
// back to ISO-8859-1 and reports fellBack.
func Decode(c Charset, b []byte) (text string, fellBack bool, err error) {
	switch c {
	case Latin1:
		return DecodeLatin1(b), false, nil
	case UTF16:
		s, err := DecodeUTF16(b)
		return s, false, err
	case UTF8:
		s, fb := NormalizeBytes(b)
		return s, fb, nil
	default:
		return "", false, fmt.Errorf("unknown charset %v", c)
	}
}
