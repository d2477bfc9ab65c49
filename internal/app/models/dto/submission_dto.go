package dto

import "github.com/schoolmed/healthdesk/internal/pkg/apperrors"

// SubmissionResult is what a form surface receives back from one
// create/update/delete submission. Exactly one of the failure channels is
// populated on failure: FieldErrors for rule violations, Error for
// everything else. Error strings are always human-readable; raw transport
// errors never appear here.
type SubmissionResult struct {
	Success     bool              `json:"success"`
	Data        interface{}       `json:"data,omitempty"`
	Message     string            `json:"message,omitempty"`
	Error       string            `json:"error,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`

	// Kind classifies the failure for status-code mapping. Not part of
	// the response body.
	Kind apperrors.Kind `json:"-"`
}

// Succeeded creates a successful submission result.
func Succeeded(data interface{}, message string) *SubmissionResult {
	return &SubmissionResult{Success: true, Data: data, Message: message}
}

// Failed creates a failed submission result for a failure detected
// before any network call.
func Failed(errMsg string) *SubmissionResult {
	return &SubmissionResult{Success: false, Error: errMsg, Kind: apperrors.KindPrecondition}
}

// FailedRemote creates a failed submission result for a failure reported
// by or while calling the remote record API.
func FailedRemote(errMsg string) *SubmissionResult {
	return &SubmissionResult{Success: false, Error: errMsg, Kind: apperrors.KindRemote}
}

// FailedValidation creates a failed submission result carrying the
// per-field error map from the validation layer.
func FailedValidation(fields map[string]string) *SubmissionResult {
	return &SubmissionResult{Success: false, Error: "Validation failed", FieldErrors: fields, Kind: apperrors.KindValidation}
}
