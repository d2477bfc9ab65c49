package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Student errors
var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrStudentNumberExists = errors.New("student number already exists")
)

// Medication errors
var (
	ErrMedicationNotFound = errors.New("medication not found")
)

// Kind classifies a submission failure. The set is closed so that
// propagation and display logic can be exhaustive.
type Kind string

const (
	// KindValidation marks field-level rule violations. These stay local to
	// the form and never reach the remote API.
	KindValidation Kind = "validation"
	// KindPrecondition marks failures detected before any network call
	// (missing id, missing required fields, duplicate in-flight submission).
	KindPrecondition Kind = "precondition"
	// KindRemote marks a failure reported by or while calling the remote
	// record API.
	KindRemote Kind = "remote"
	// KindUnknown is the fallback for anything unclassified.
	KindUnknown Kind = "unknown"
)

// SubmissionError carries a closed error kind plus a user-displayable
// message. The message is what the caller shows; the wrapped error is for
// logs only, raw transport detail never reaches the user.
type SubmissionError struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *SubmissionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap.
func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// NewPreconditionError creates a precondition failure with a message.
func NewPreconditionError(message string) *SubmissionError {
	return &SubmissionError{Kind: KindPrecondition, Message: message}
}

// NewRemoteError wraps a remote API failure with a user-facing message.
func NewRemoteError(message string, err error) *SubmissionError {
	return &SubmissionError{Kind: KindRemote, Message: message, Err: err}
}

// KindOf returns the closed kind for err, defaulting to KindUnknown.
func KindOf(err error) Kind {
	var se *SubmissionError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}
