package fits

import (
	"errors"
	"fmt"
)

// Sentinel errors. Wrapped variants carry context; match with errors.Is.
var (
	// ErrKeyNotFound is returned by card-store lookups without a default.
	ErrKeyNotFound = errors.New("fits: keyword not found")
	// ErrUnknownHDU is returned when the dispatcher cannot pick a variant.
	ErrUnknownHDU = errors.New("fits: cannot determine HDU variant")
	// ErrHeaderTruncated is returned when the stream ends before an END card.
	ErrHeaderTruncated = errors.New("fits: stream ended before END card")
	// ErrMalformedField is returned when a TFORM descriptor does not parse.
	ErrMalformedField = errors.New("fits: malformed field descriptor")
	// ErrShapeMismatch marks header geometry that disagrees with the data.
	// No operation returns it: the verifier reports such mismatches as
	// warnings and repairs the header.
	ErrShapeMismatch = errors.New("fits: data shape does not match header")
	// ErrStream wraps failures forwarded from the underlying reader or
	// writer. The stream position is indeterminate afterwards.
	ErrStream = errors.New("fits: stream error")
)

// KeyError reports which keyword a lookup missed.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("fits: keyword %q not found", e.Key)
}

func (e *KeyError) Unwrap() error { return ErrKeyNotFound }

// FieldError reports a column whose descriptor could not be used.
type FieldError struct {
	Column int
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("fits: field %d: %s", e.Column, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrMalformedField }
