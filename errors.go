package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// Re-export the descriptor protocol sentinels.
var (
	ErrDescriptorConsumed = types.ErrDescriptorConsumed
	ErrNilDescriptor      = types.ErrNilDescriptor
)

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Re-exporting from internal/types to maintain public API.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is an alias to types.CorruptedFileError.
type CorruptedFileError = types.CorruptedFileError

// UnsupportedWriteError is an alias to types.UnsupportedWriteError.
type UnsupportedWriteError = types.UnsupportedWriteError

// UnrepresentableError is an alias to types.UnrepresentableError.
type UnrepresentableError = types.UnrepresentableError

// VerificationError is an alias to types.VerificationError.
type VerificationError = types.VerificationError

// CommitError is an alias to types.CommitError.
type CommitError = types.CommitError

// Warning is an alias to types.Warning.
type Warning = types.Warning
