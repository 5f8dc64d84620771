// Package types provides the value types shared by every format backend.
//
// This package defines PropertyMap, Picture, AudioProperties and Metadata,
// the unified representation of an audio file's tags across formats.
package types

// Metadata is everything a single read produced for one file.
//
// Metadata is a plain value: it holds no reference to the descriptor it was
// read from and nothing in it is loaded lazily.
type Metadata struct {
	// Detected container format
	Format Format

	// Stream statistics; nil when not requested or not computable
	AudioProperties *AudioProperties

	// All tag fields; never nil, possibly empty
	Properties PropertyMap

	// Embedded pictures in stored order; nil unless requested
	Pictures []Picture

	// First LYRICS value; empty unless lyrics were requested and present
	Lyrics string

	// Warnings encountered during parsing (non-fatal issues)
	Warnings []Warning
}

// FrontCover returns the cover picture, see FrontCover.
func (m *Metadata) FrontCover() (Picture, bool) {
	return FrontCover(m.Pictures)
}

// Equal compares two Metadata values field by field, ignoring warnings.
func (m *Metadata) Equal(other *Metadata) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.Format != other.Format || m.Lyrics != other.Lyrics {
		return false
	}
	if (m.AudioProperties == nil) != (other.AudioProperties == nil) {
		return false
	}
	if m.AudioProperties != nil && *m.AudioProperties != *other.AudioProperties {
		return false
	}
	if (m.Pictures == nil) != (other.Pictures == nil) {
		return false
	}
	return m.Properties.Equal(other.Properties) && PicturesEqual(m.Pictures, other.Pictures)
}
