package types

import (
	"slices"
	"testing"
)

func TestPropertyMap_All(t *testing.T) {
	props := NewPropertyMap()
	props.Set("TITLE", "Test Song")
	props.Set("ARTIST", "Test Artist")
	props.Set("GENRE", "Rock", "Alternative")

	var keys []string
	for key, values := range props.All() {
		keys = append(keys, key)
		if key == "GENRE" && !slices.Equal(values, []string{"Rock", "Alternative"}) {
			t.Errorf("GENRE values = %v, want [Rock Alternative]", values)
		}
	}

	want := []string{"ARTIST", "GENRE", "TITLE"}
	if !slices.Equal(keys, want) {
		t.Errorf("All() keys = %v, want %v", keys, want)
	}
}

func TestPropertyMap_Get(t *testing.T) {
	props := PropertyMap{"ARTIST": {"Test Artist"}, "GENRE": {"Rock", "Pop"}}

	tests := []struct {
		key    string
		want   []string
		wantOK bool
	}{
		{"ARTIST", []string{"Test Artist"}, true},
		{"GENRE", []string{"Rock", "Pop"}, true},
		{"MISSING", nil, false},
		{"artist", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := props.Get(tt.key)
			if ok != tt.wantOK {
				t.Fatalf("Get(%q) ok = %v, want %v", tt.key, ok, tt.wantOK)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Get(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestPropertyMap_GetReturnsCopy(t *testing.T) {
	props := PropertyMap{"GENRE": {"Rock"}}

	values, _ := props.Get("GENRE")
	values[0] = "Jazz"

	if first, _ := props.First("GENRE"); first != "Rock" {
		t.Errorf("map mutated through Get result: %q", first)
	}
}

func TestPropertyMap_SetEmptyDeletes(t *testing.T) {
	props := PropertyMap{"COMMENT": {"old"}}
	props.Set("COMMENT")

	if props.Has("COMMENT") {
		t.Error("Set with no values should delete the key")
	}
	if _, present := props["COMMENT"]; present {
		t.Error("deleted key still present in underlying map")
	}
}

func TestPropertyMap_SetIgnoresEmptyKey(t *testing.T) {
	props := NewPropertyMap()
	props.Set("", "value")
	props.Add("", "value")

	if props.Len() != 0 {
		t.Errorf("Len() = %d, want 0", props.Len())
	}
}

func TestPropertyMap_AddKeepsOrder(t *testing.T) {
	props := NewPropertyMap()
	props.Add("ARTIST", "B")
	props.Add("ARTIST", "A", "C")

	got, _ := props.Get("ARTIST")
	if !slices.Equal(got, []string{"B", "A", "C"}) {
		t.Errorf("Add order = %v", got)
	}
}

func TestPropertyMap_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b PropertyMap
		want bool
	}{
		{"nil vs empty", nil, PropertyMap{}, true},
		{"empty list ignored", PropertyMap{"X": {}}, nil, true},
		{"same", PropertyMap{"A": {"1", "2"}}, PropertyMap{"A": {"1", "2"}}, true},
		{"order matters", PropertyMap{"A": {"1", "2"}}, PropertyMap{"A": {"2", "1"}}, false},
		{"case sensitive", PropertyMap{"A": {"1"}}, PropertyMap{"a": {"1"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPropertyMap_CloneIsDeep(t *testing.T) {
	props := PropertyMap{"TITLE": {"A"}}
	clone := props.Clone()
	clone["TITLE"][0] = "B"

	if props["TITLE"][0] != "A" {
		t.Error("Clone shares value slices with the original")
	}
}

func TestPropertyMap_NonASCIIKey(t *testing.T) {
	props := NewPropertyMap()
	props.Set("TITLE ú", "Test ú", "Test")

	got, ok := props.Get("TITLE ú")
	if !ok || !slices.Equal(got, []string{"Test ú", "Test"}) {
		t.Errorf("Get(non-ASCII key) = %v, %v", got, ok)
	}
	if props.Has("TITLE Ú") {
		t.Error("keys must not be case-folded")
	}
}

func TestPropertyMap_WithoutPrefix(t *testing.T) {
	props := PropertyMap{
		"LYRICS":       {"la la"},
		"LYRICS:intro": {"ooh"},
		"LYRICIST":     {"Someone"},
	}

	got := props.WithoutPrefix("LYRICS")
	want := PropertyMap{"LYRICIST": {"Someone"}}
	if !got.Equal(want) {
		t.Errorf("WithoutPrefix() = %v, want %v", got, want)
	}
	if !props.Has("LYRICS") {
		t.Error("WithoutPrefix modified the receiver")
	}
}

func TestPropertyMap_Filter(t *testing.T) {
	props := PropertyMap{
		"MUSICBRAINZ_ALBUMID": {"a"},
		"MUSICBRAINZ_TRACKID": {"b"},
		"TITLE":               {"c"},
	}

	count := 0
	for key := range props.Filter(func(k string) bool { return len(k) > 11 && k[:11] == "MUSICBRAINZ" }) {
		count++
		if key == "TITLE" {
			t.Error("Filter yielded TITLE")
		}
	}
	if count != 2 {
		t.Errorf("Filter yielded %d keys, want 2", count)
	}
}
