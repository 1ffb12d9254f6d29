package engine

import (
	"errors"
	"fmt"
)

// NotFoundError reports an unknown person id. Surfaced to the caller,
// never retried.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("person %q not found", e.ID)
}

// ValidationError reports malformed input: out-of-range confidence,
// mismatched vector lengths, missing fields. Surfaced immediately.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
