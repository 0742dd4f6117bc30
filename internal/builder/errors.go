package builder

import (
	"errors"
	"fmt"
)

// ErrSubmissionInFlight is returned when a submit is attempted while a
// previous submit on the same draft has not resolved yet.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// ValidationError blocks an invalid mutation before any state changes.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError means a referenced line or catalog entry does not exist
// in the current state.
type NotFoundError struct {
	Resource string
	Ref      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Ref)
}

func notFound(resource, ref string) error {
	return &NotFoundError{Resource: resource, Ref: ref}
}

// FetchError wraps a failed catalog or counterparty load. Previously loaded
// state is left untouched by the caller.
type FetchError struct {
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// SubmissionError wraps a failed order POST. The draft stays intact so the
// user can retry without re-entering data.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("order submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
