package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// Picture is an alias to types.Picture.
// Re-exporting from internal/types to maintain public API.
type Picture = types.Picture

// Re-export the picture type names.
const (
	PictureTypeOther              = types.PictureTypeOther
	PictureTypeFileIcon           = types.PictureTypeFileIcon
	PictureTypeOtherFileIcon      = types.PictureTypeOtherFileIcon
	PictureTypeFrontCover         = types.PictureTypeFrontCover
	PictureTypeBackCover          = types.PictureTypeBackCover
	PictureTypeLeafletPage        = types.PictureTypeLeafletPage
	PictureTypeMedia              = types.PictureTypeMedia
	PictureTypeLeadArtist         = types.PictureTypeLeadArtist
	PictureTypeArtist             = types.PictureTypeArtist
	PictureTypeConductor          = types.PictureTypeConductor
	PictureTypeBand               = types.PictureTypeBand
	PictureTypeComposer           = types.PictureTypeComposer
	PictureTypeLyricist           = types.PictureTypeLyricist
	PictureTypeRecordingLocation  = types.PictureTypeRecordingLocation
	PictureTypeDuringRecording    = types.PictureTypeDuringRecording
	PictureTypeDuringPerformance  = types.PictureTypeDuringPerformance
	PictureTypeMovieScreenCapture = types.PictureTypeMovieScreenCapture
	PictureTypeColouredFish       = types.PictureTypeColouredFish
	PictureTypeIllustration       = types.PictureTypeIllustration
	PictureTypeBandLogo           = types.PictureTypeBandLogo
	PictureTypePublisherLogo      = types.PictureTypePublisherLogo
)

// NewPicture builds a picture, sniffing the MIME type from data.
func NewPicture(data []byte, description, pictureType string) Picture {
	return types.NewPicture(data, description, pictureType)
}

// FrontCover picks the cover from an ordered picture list: the first
// "Front Cover", else the first picture.
func FrontCover(pictures []Picture) (Picture, bool) {
	return types.FrontCover(pictures)
}
