package audiotag

import "github.com/rs/zerolog"

// SaveOption configures a write.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	err := audiotag.WritePropertyMap(d, props,
//	    audiotag.WithBackup(".bak"),
//	    audiotag.WithValidation(),
//	)
type SaveOption func(*saveOptions)

// saveOptions holds configuration for writes.
type saveOptions struct {
	backupSuffix    string // Suffix for backup file (e.g., ".bak")
	validate        bool   // Require an exact read-back of the written data
	preserveModTime bool   // Keep original modification time
	id3v2Version    byte   // 3 or 4
	tempDir         string // Directory for the staged copy
	logger          *zerolog.Logger
}

// defaultSaveOptions returns the default configuration for saving.
func defaultSaveOptions() *saveOptions {
	return &saveOptions{
		id3v2Version: 4,
	}
}

func applySaveOptions(opts []SaveOption) *saveOptions {
	o := defaultSaveOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithBackup creates a backup of the original file before committing.
//
// The backup file will have the specified suffix appended to the original
// filename. For example, WithBackup(".bak") will create "song.mp3.bak"
// before modifying "song.mp3". An existing backup is overwritten.
//
// Backups need the file's path; they are skipped with a log message for
// anonymous descriptors.
func WithBackup(suffix string) SaveOption {
	return func(o *saveOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation requires the staged copy to read back exactly what was
// written.
//
// Every write re-reads the staged copy before committing. Without this
// option the check only asks that the copy still parses; with it, the
// property map (or picture list) read back must equal the one written, or
// the write fails with a *VerificationError and the original is untouched.
func WithValidation() SaveOption {
	return func(o *saveOptions) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the original file modification time.
//
// Example:
//
//	err := audiotag.WritePictures(d, pics, audiotag.WithPreserveModTime())
//	// File modification time unchanged
func WithPreserveModTime() SaveOption {
	return func(o *saveOptions) {
		o.preserveModTime = true
	}
}

// WithID3v2Version selects the ID3v2 version written to MP3 files.
// Only 3 and 4 are accepted; anything else leaves the default of 4.
func WithID3v2Version(version byte) SaveOption {
	return func(o *saveOptions) {
		if version == 3 || version == 4 {
			o.id3v2Version = version
		}
	}
}

// WithTempDir stages the copy in dir instead of next to the file.
func WithTempDir(dir string) SaveOption {
	return func(o *saveOptions) {
		o.tempDir = dir
	}
}

// WithSaveLogger logs this write to l instead of the package logger.
func WithSaveLogger(l zerolog.Logger) SaveOption {
	return func(o *saveOptions) {
		o.logger = &l
	}
}
