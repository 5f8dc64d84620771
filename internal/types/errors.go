package types

import (
	"errors"
	"fmt"
)

// ErrDescriptorConsumed is returned when a descriptor that was already
// handed to an operation (and closed by it) is used again.
var ErrDescriptorConsumed = errors.New("descriptor already consumed")

// ErrNilDescriptor is returned when a nil descriptor is passed in.
var ErrNilDescriptor = errors.New("nil descriptor")

// UnsupportedFormatError is returned when the container is not recognized.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedFileError is returned when file structure is invalid.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// Warning represents a non-fatal issue encountered during parsing.
//
// Warnings indicate problems that don't prevent metadata extraction but
// may indicate corrupted or unusual data. Examples include:
//   - Text that is not valid in its declared encoding
//   - Reserved picture type codes
//   - Frames that could not be decoded and were skipped
type Warning struct {
	// Stage where the warning occurred
	Stage string // "encoding", "tags", "pictures", "audio", "metadata"

	// Warning message
	Message string

	// File offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}

// UnsupportedWriteError indicates write is not supported for this format.
type UnsupportedWriteError struct {
	Reason string
	Format Format
}

func (e *UnsupportedWriteError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("write not supported for %s: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("write not supported for %s", e.Format)
}

// UnrepresentableError is returned when a format cannot hold the requested
// data, such as a Vorbis comment key outside printable ASCII.
type UnrepresentableError struct {
	Format Format
	Key    string
	Reason string
}

func (e *UnrepresentableError) Error() string {
	return fmt.Sprintf("%s cannot represent %q: %s", e.Format, e.Key, e.Reason)
}

// VerificationError is returned when a staged write does not read back as
// expected. The original file is left untouched.
type VerificationError struct {
	Path   string
	Reason string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s: verification failed: %s", e.Path, e.Reason)
}

// CommitError is returned when a verified write fails while being copied
// over the original. The original may be damaged; the new contents are
// left at Staged.
type CommitError struct {
	Path   string
	Staged string
	Err    error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("%s: commit interrupted, new contents kept at %s: %v", e.Path, e.Staged, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }
