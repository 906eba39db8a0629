package core

import (
	"errors"
	"fmt"
)

// PatternNotFoundError is returned when a newline-terminated string has no
// terminator before the end of the buffer.
type PatternNotFoundError struct {
	Pattern byte
	Offset  int // where the scan started
}

func (e *PatternNotFoundError) Error() string {
	return fmt.Sprintf("pattern %q not found after offset %d", e.Pattern, e.Offset)
}

// TruncatedDataError reports a cursor position that does not line up with the
// buffer: either a read/write ran past the end, or a full decode finished
// before consuming every byte.
type TruncatedDataError struct {
	Offset int
	Length int
}

func (e *TruncatedDataError) Error() string {
	if e.Offset < e.Length {
		return fmt.Sprintf("trailing data: stopped at offset %d of %d bytes", e.Offset, e.Length)
	}
	return fmt.Sprintf("truncated data: offset %d exceeds length %d", e.Offset, e.Length)
}

// VersionMismatchError is returned when a lotpack file was written for a
// different format version than its companion lotheader.
type VersionMismatchError struct {
	Header  int32
	Lotpack int32
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("version mismatch: lotheader is version %d, lotpack is version %d", e.Header, e.Lotpack)
}

// IndexOutOfRangeError is returned when an index stored in a file refers past
// the end of the sequence it points into.
type IndexOutOfRangeError struct {
	What  string // e.g. "room", "building", "tile"
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.What, e.Index, e.Len)
}

// RoundTripMismatchError is returned by verification when re-encoding a decoded
// file does not reproduce the original bytes.
type RoundTripMismatchError struct {
	Path          string
	Offset        int // first differing byte, or the shorter length
	Length        int
	EncodedLength int
}

func (e *RoundTripMismatchError) Error() string {
	return fmt.Sprintf("round trip mismatch for %s: first difference at offset %d (original %d bytes, encoded %d bytes)",
		e.Path, e.Offset, e.Length, e.EncodedLength)
}

// InvalidCellFileNameError is returned for map file names that do not carry
// an X_Y cell position.
type InvalidCellFileNameError struct {
	Name string
}

func (e *InvalidCellFileNameError) Error() string {
	return fmt.Sprintf("invalid cell file name: %s", e.Name)
}

func IsPatternNotFound(err error) bool {
	var target *PatternNotFoundError
	return errors.As(err, &target)
}

// IsTruncatedData checks if an error is a TruncatedDataError.
func IsTruncatedData(err error) bool {
	var target *TruncatedDataError
	return errors.As(err, &target)
}

func IsVersionMismatch(err error) bool {
	var target *VersionMismatchError
	return errors.As(err, &target)
}

func IsIndexOutOfRange(err error) bool {
	var target *IndexOutOfRangeError
	return errors.As(err, &target)
}

func IsRoundTripMismatch(err error) bool {
	var target *RoundTripMismatchError
	return errors.As(err, &target)
}

// ErrorKind returns a short, stable name for the error kinds defined in this
// package, or "io" for anything else. Used when reporting per-file failures.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsPatternNotFound(err):
		return "PatternNotFound"
	case IsTruncatedData(err):
		return "TruncatedOrTrailingData"
	case IsVersionMismatch(err):
		return "VersionMismatch"
	case IsIndexOutOfRange(err):
		return "IndexOutOfRange"
	case IsRoundTripMismatch(err):
		return "RoundTripMismatch"
	}
	var nameErr *InvalidCellFileNameError
	if errors.As(err, &nameErr) {
		return "InvalidCellFileName"
	}
	return "io"
}
