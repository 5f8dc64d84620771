package audiotag

import "github.com/rs/zerolog"

// Option configures a read.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	md, err := audiotag.ReadMetadata(d,
//	    audiotag.WithPictures(),
//	    audiotag.WithReadStyle(audiotag.ReadAccurate),
//	)
type Option func(*readOptions)

// readOptions holds configuration for reads.
type readOptions struct {
	style           ReadStyle
	pictures        bool // Include pictures in ReadMetadata
	lyrics          bool // Include LYRICS keys and Metadata.Lyrics
	audioProperties bool // Compute stream statistics
	strictParsing   bool // Fail on any warning
	ignoreWarnings  bool // Drop all warnings
	maxPictureSize  int  // Maximum picture size in bytes (0 = no limit)
	logger          *zerolog.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() *readOptions {
	return &readOptions{
		style:           ReadAverage,
		audioProperties: true,
	}
}

func applyOptions(opts []Option) *readOptions {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithReadStyle selects how much of the stream is examined to compute
// audio properties. The default is ReadAverage.
//
// Example:
//
//	props, err := audiotag.ReadAudioProperties(d, audiotag.WithReadStyle(audiotag.ReadAccurate))
func WithReadStyle(style ReadStyle) Option {
	return func(o *readOptions) {
		if style.Valid() {
			o.style = style
		}
	}
}

// WithPictures includes embedded pictures in ReadMetadata.
//
// Without it Metadata.Pictures is nil, which is different from an empty
// slice: an empty slice means the file was checked and holds no pictures.
func WithPictures() Option {
	return func(o *readOptions) {
		o.pictures = true
	}
}

// WithLyrics includes lyrics in the read.
//
// Lyrics keys only appear in the property map when this option is set.
// Writing back a map read without it removes any lyrics from the file.
func WithLyrics() Option {
	return func(o *readOptions) {
		o.lyrics = true
	}
}

// WithoutAudioProperties skips stream statistics in ReadMetadata.
func WithoutAudioProperties() Option {
	return func(o *readOptions) {
		o.audioProperties = false
	}
}

// WithStrictParsing treats any warning as a fatal error.
//
// By default, audiotag continues when it encounters issues like text in
// the wrong encoding or a malformed picture, returning warnings alongside
// the data. With strict parsing enabled, the first warning is returned as
// a *CorruptedFileError.
func WithStrictParsing() Option {
	return func(o *readOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
// Example:
//
//	md, err := audiotag.ReadMetadata(d, audiotag.WithIgnoreWarnings())
//	// md.Warnings will always be empty
func WithIgnoreWarnings() Option {
	return func(o *readOptions) {
		o.ignoreWarnings = true
	}
}

// WithMaxPictureSize skips pictures larger than bytes, with a warning.
//
// Default is 0 (no limit).
//
// Example:
//
//	// Limit pictures to 10MB
//	pics, err := audiotag.ReadPictures(d, audiotag.WithMaxPictureSize(10*1024*1024))
func WithMaxPictureSize(bytes int) Option {
	return func(o *readOptions) {
		o.maxPictureSize = bytes
	}
}

// WithLogger logs this read to l instead of the package logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *readOptions) {
		o.logger = &l
	}
}
