package types

import (
	"iter"
	"maps"
	"slices"
	"strings"
)

// PropertyMap is the unified, multi-valued tag representation shared by all
// formats.
//
// Keys are conventionally upper-snake ("TITLE", "ALBUMARTIST") but casing is
// not enforced: keys are compared byte-for-byte. A key that is present always
// carries at least one value, and values keep their insertion order.
//
// PropertyMap has value semantics. Maps returned by read operations are
// freshly built and owned by the caller; use Clone before handing one to
// code that might mutate it.
type PropertyMap map[string][]string

// NewPropertyMap returns an empty PropertyMap.
func NewPropertyMap() PropertyMap {
	return make(PropertyMap)
}

// Get returns a copy of the values stored for key.
//
// The boolean is false when the key is absent.
func (m PropertyMap) Get(key string) ([]string, bool) {
	values, ok := m[key]
	if !ok || len(values) == 0 {
		return nil, false
	}
	return slices.Clone(values), true
}

// First returns the first value stored for key.
func (m PropertyMap) First(key string) (string, bool) {
	values := m[key]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Has reports whether key is present.
func (m PropertyMap) Has(key string) bool {
	return len(m[key]) > 0
}

// Set replaces the values for key.
//
// Calling Set with no values removes the key, so that a later write
// deletes it from the file instead of emitting an empty frame. Empty keys
// are ignored.
//
// Example:
//
//	props.Set("GENRE", "Rock", "Alternative") // multi-value
//	props.Set("COMMENT")                      // removes COMMENT
func (m PropertyMap) Set(key string, values ...string) {
	if key == "" {
		return
	}
	if len(values) == 0 {
		delete(m, key)
		return
	}
	m[key] = slices.Clone(values)
}

// Add appends values to key, creating it if needed.
func (m PropertyMap) Add(key string, values ...string) {
	if key == "" || len(values) == 0 {
		return
	}
	m[key] = append(m[key], values...)
}

// Delete removes key.
func (m PropertyMap) Delete(key string) {
	delete(m, key)
}

// Len returns the number of keys with at least one value.
func (m PropertyMap) Len() int {
	n := 0
	for _, values := range m {
		if len(values) > 0 {
			n++
		}
	}
	return n
}

// Keys returns the keys in sorted order.
func (m PropertyMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for key, values := range m {
		if key != "" && len(values) > 0 {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}

// All returns an iterator over keys and values in sorted key order.
//
// The yielded slices must not be modified.
//
//	for key, values := range props.All() {
//		fmt.Printf("%s: %v\n", key, values)
//	}
func (m PropertyMap) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, key := range m.Keys() {
			if !yield(key, m[key]) {
				return
			}
		}
	}
}

// Filter returns an iterator over the keys accepted by predicate.
func (m PropertyMap) Filter(predicate func(string) bool) iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for key, values := range m.All() {
			if predicate(key) && !yield(key, values) {
				return
			}
		}
	}
}

// Clone returns a deep copy. Empty keys and empty value lists are dropped.
func (m PropertyMap) Clone() PropertyMap {
	clone := make(PropertyMap, len(m))
	for key, values := range m {
		if key == "" || len(values) == 0 {
			continue
		}
		clone[key] = slices.Clone(values)
	}
	return clone
}

// Equal reports structural equality. A nil map equals an empty one.
func (m PropertyMap) Equal(other PropertyMap) bool {
	return maps.EqualFunc(m.Clone(), other.Clone(), slices.Equal)
}

// WithoutPrefix returns a copy without key and any "key:<description>"
// variants.
func (m PropertyMap) WithoutPrefix(key string) PropertyMap {
	clone := m.Clone()
	for k := range clone {
		if k == key || strings.HasPrefix(k, key+":") {
			delete(clone, k)
		}
	}
	return clone
}
