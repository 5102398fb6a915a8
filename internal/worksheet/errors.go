package worksheet

import (
	"fmt"
	"strings"
)

// InvalidFieldError reports a missing or unparsable request field.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// UnsupportedReadingSystemError reports a reading level system other
// than "fp" or "grade".
type UnsupportedReadingSystemError struct {
	System string
}

func (e *UnsupportedReadingSystemError) Error() string {
	return fmt.Sprintf("unsupported reading level system %q", e.System)
}

// RangeOverflowError reports a field value exceeding its bit allotment
// in the packed worksheet id.
type RangeOverflowError struct {
	Field string
	Value int
	Max   int
}

func (e *RangeOverflowError) Error() string {
	return fmt.Sprintf("field %s value %d exceeds maximum %d", e.Field, e.Value, e.Max)
}

// MalformedIDError reports a worksheet id that cannot be parsed.
type MalformedIDError struct {
	ID     string
	Reason string
}

func (e *MalformedIDError) Error() string {
	return fmt.Sprintf("malformed worksheet id %q: %s", e.ID, e.Reason)
}

// DocChecksumMismatchError reports a generation response whose document
// checksum does not match the canonical document's.
type DocChecksumMismatchError struct {
	Expected string
	Actual   string
}

func (e *DocChecksumMismatchError) Error() string {
	return fmt.Sprintf("doc_checksum mismatch: expected %s, got %s", e.Expected, e.Actual)
}

// DuplicateChecksumError reports the same checksum appearing twice in a
// generation response.
type DuplicateChecksumError struct {
	Checksum string
}

func (e *DuplicateChecksumError) Error() string {
	return fmt.Sprintf("duplicate checksum in response: %s", e.Checksum)
}

// MissingChecksumsError reports every input checksum the generation
// response failed to cover. Checksums is sorted.
type MissingChecksumsError struct {
	Checksums []string
}

func (e *MissingChecksumsError) Error() string {
	return fmt.Sprintf("missing response for checksum(s): %s", strings.Join(e.Checksums, ", "))
}

// ExtraChecksumsError reports every response checksum that matches no
// input entry. Checksums is sorted.
type ExtraChecksumsError struct {
	Checksums []string
}

func (e *ExtraChecksumsError) Error() string {
	return fmt.Sprintf("response contains unexpected checksum(s): %s", strings.Join(e.Checksums, ", "))
}
