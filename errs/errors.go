// Package errs defines the sentinel errors returned by the tdms packages.
//
// Every failure surfaced by the engine wraps exactly one of the categories
// below, so callers can match on the category with errors.Is while the
// wrapped message carries the detail:
//
//	f, err := tdms.Open("run.tdms")
//	if errors.Is(err, errs.ErrTruncatedFile) {
//	    // a non-final segment is missing bytes
//	}
package errs

import (
	"errors"
	"fmt"
)

// I/O errors.
var (
	// ErrIO wraps failures of the underlying source: open, stat, read.
	ErrIO = errors.New("tdms: i/o error")
)

// Format errors, reported while a file is being indexed.
var (
	// ErrInvalidSegmentHeader is returned when a segment lead-in has a bad tag,
	// an unknown version or is too short to decode.
	ErrInvalidSegmentHeader = errors.New("tdms: invalid segment header")
	// ErrCorruptMetadata is returned when a metadata block is inconsistent with
	// itself or with its declared length.
	ErrCorruptMetadata = errors.New("tdms: corrupt metadata")
	// ErrTruncatedFile is returned when declared bytes are missing from a
	// segment that is not the last one, or when metadata runs past EOF.
	ErrTruncatedFile = errors.New("tdms: truncated file")
	// ErrTypeMismatch is returned when a later segment declares a different
	// data type for an object whose type is already established.
	ErrTypeMismatch = errors.New("tdms: data type mismatch")
	// ErrUnsupportedType is returned for unknown type tags and for known types
	// the engine cannot decode (extended floats, fixed point, DAQmx).
	ErrUnsupportedType = errors.New("tdms: unsupported data type")
)

// Query errors.
var (
	ErrPropertyNotFound = errors.New("tdms: property not found")
	ErrOutOfRange       = errors.New("tdms: index out of range")
	ErrNotFound         = errors.New("tdms: object not found")
	ErrInvalidPath      = errors.New("tdms: invalid object path")
	// ErrUseAfterClose is returned by any handle obtained from a file that has
	// since been closed. It signals a caller bug, not a recoverable condition.
	ErrUseAfterClose = errors.New("tdms: use after close")
)

// IO wraps err as an ErrIO failure while keeping err matchable.
func IO(op string, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
