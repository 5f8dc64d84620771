// Package vorbis provides shared Vorbis comment utilities.
//
// Vorbis comments are used by FLAC, Ogg Vorbis and Opus. The format is the
// same everywhere: UTF-8 strings in "KEY=VALUE" form, where KEY is printable
// ASCII (0x20-0x7D) without '=' and is compared case-insensitively.
package vorbis

import (
	"fmt"
	"strings"

	"github.com/simonhull/audiotag/internal/charset"
	"github.com/simonhull/audiotag/internal/types"
)

// InvalidKeyError is returned when a key cannot be stored as a Vorbis
// comment field name.
type InvalidKeyError struct {
	Key string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid vorbis comment field name %q", e.Key)
}

// Split splits a "KEY=VALUE" comment at the first '='.
//
// Returns an error if the comment has no separator or an empty key.
func Split(comment string) (key, value string, err error) {
	eq := strings.IndexByte(comment, '=')
	if eq == -1 {
		return "", "", fmt.Errorf("missing '=' in comment: %s", comment)
	}
	if eq == 0 {
		return "", "", fmt.Errorf("empty field name in comment: %s", comment)
	}
	return comment[:eq], comment[eq+1:], nil
}

// ValidKey reports whether key is a legal field name.
func ValidKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c < 0x20 || c > 0x7D || c == '=' {
			return false
		}
	}
	return true
}

// CanonicalKey upper-cases ASCII letters. Field names are case-insensitive,
// the canonical spelling is upper case.
func CanonicalKey(key string) string {
	return strings.ToUpper(key)
}

// ParseComments flattens raw comments into a PropertyMap.
//
// Malformed comments are skipped with a warning. Values that are not valid
// UTF-8 are kept through the ISO-8859-1 fallback, also with a warning.
func ParseComments(comments []string) (types.PropertyMap, []types.Warning) {
	props := types.NewPropertyMap()
	var warnings []types.Warning

	for _, comment := range comments {
		key, value, err := Split(comment)
		if err != nil {
			warnings = append(warnings, types.Warning{Stage: "tags", Message: err.Error()})
			continue
		}

		key, keyFallback := charset.Normalize(key)
		value, valueFallback := charset.Normalize(value)
		if keyFallback || valueFallback {
			warnings = append(warnings, types.Warning{
				Stage:   "encoding",
				Message: fmt.Sprintf("comment %q is not valid UTF-8, kept as ISO-8859-1", key),
			})
		}

		if ValidKey(key) {
			key = CanonicalKey(key)
		}
		props.Add(key, value)
	}

	return props, warnings
}

// Comments renders a PropertyMap as "KEY=VALUE" strings in sorted key order.
//
// Every key must be a legal field name; the first one that is not is
// reported as an *InvalidKeyError and nothing is returned.
func Comments(props types.PropertyMap) ([]string, error) {
	var out []string
	for key, values := range props.All() {
		if !ValidKey(key) {
			return nil, &InvalidKeyError{Key: key}
		}
		for _, value := range values {
			out = append(out, key+"="+value)
		}
	}
	return out, nil
}
