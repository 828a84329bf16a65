package letter

import (
	"errors"
	"fmt"
)

// ErrEmptyDetails is returned when a submission has no letter details.
var ErrEmptyDetails = errors.New("letter details are required")

// ErrEmptyBody is returned when the backend answers with nothing usable.
var ErrEmptyBody = errors.New("backend returned an empty letter body")

// ValidationError marks a submission the user has to correct and resubmit.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BackendError wraps a failed generation call. Its message is the backend's
// own error text.
type BackendError struct {
	Provider string
	Err      error
}

func (e *BackendError) Error() string {
	return e.Err.Error()
}

func (e *BackendError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsBackend reports whether err came from the generation backend.
func IsBackend(err error) bool {
	var b *BackendError
	return errors.As(err, &b)
}
