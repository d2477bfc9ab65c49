package upstream

import "fmt"

// APIError is the failure reported by the remote record API, either an
// explicit success=false envelope or a write that returned no data. The
// message is already user-displayable; callers surface it verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("remote record API request failed with status %d", e.StatusCode)
}
