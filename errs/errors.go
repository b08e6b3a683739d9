// Package errs defines the sentinel errors returned by feelgood packages.
//
// Errors are matched with errors.Is. Configuration errors additionally match
// ErrInvalidConfig so callers can treat every eager validation failure alike.
package errs

import "errors"

// ErrInvalidConfig is the umbrella error for run configuration problems.
// It is reported before enumeration begins and is fatal to the run.
var ErrInvalidConfig = errors.New("invalid configuration")

// Configuration errors.
var (
	// ErrNoSections indicates that no section was configured.
	ErrNoSections = newConfigError("at least one section is required")
	// ErrInvalidSectionLength indicates a section width that is zero or negative.
	ErrInvalidSectionLength = newConfigError("section length must be positive")
	// ErrSectionTooLong indicates a section width that cannot be framed by a one-byte length field.
	ErrSectionTooLong = newConfigError("section length exceeds 255 bytes for TLV layout")
	// ErrStartIndexOutOfRange indicates a start index outside [0, 256^L).
	ErrStartIndexOutOfRange = newConfigError("start index outside of the enumeration space")
	// ErrInvalidLayout indicates an unknown section layout.
	ErrInvalidLayout = newConfigError("invalid section layout")
	// ErrInvalidSectionTag indicates a section tag list that does not match the section count.
	ErrInvalidSectionTag = newConfigError("section tag count does not match section count")
	// ErrInvalidCompression indicates an unknown compression type.
	ErrInvalidCompression = newConfigError("invalid compression type")
)

// Enumeration errors.
var (
	// ErrIndexOutOfRange indicates an index that is negative or not below 256^width.
	ErrIndexOutOfRange = errors.New("index exceeds the representable space")
)

// Format errors.
var (
	// ErrInvalidHeaderSize indicates data shorter than the fixed header.
	ErrInvalidHeaderSize = errors.New("invalid header size")
	// ErrInvalidMagic indicates a header whose magic number does not match.
	ErrInvalidMagic = errors.New("invalid magic number")
	// ErrInvalidReserved indicates a header whose reserved byte is not zero.
	ErrInvalidReserved = errors.New("invalid reserved byte")
	// ErrInvalidFileSize indicates a file whose size does not match its configuration.
	ErrInvalidFileSize = errors.New("invalid file size")
	// ErrInvalidFraming indicates TLV section framing that does not match its configuration.
	ErrInvalidFraming = errors.New("invalid section framing")
	// ErrDuplicateContent indicates two files with byte-identical content.
	ErrDuplicateContent = errors.New("duplicate file content")
	// ErrInvalidFileName indicates a sink target name that is empty or escapes the sink root.
	ErrInvalidFileName = errors.New("invalid file name")
)

type configError struct {
	msg string
}

func newConfigError(msg string) error {
	return &configError{msg: msg}
}

func (e *configError) Error() string {
	return e.msg
}

// Is reports ErrInvalidConfig as a match so that every configuration sentinel
// can be checked either individually or as a group.
func (e *configError) Is(target error) bool {
	return target == ErrInvalidConfig
}
