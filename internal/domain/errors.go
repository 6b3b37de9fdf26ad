package domain

import "fmt"

// BackendError is a transient failure from a generation or evaluation
// backend. The retry executor treats it like any other error; it exists so
// callers can surface the backend error code in failure reasons.
type BackendError struct {
	Code    string
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend error %s: %s", e.Code, e.Message)
	}
	return "backend error: " + e.Message
}

func (e *BackendError) Unwrap() error { return e.Err }

// NewBackendError wraps err as a transient backend failure.
func NewBackendError(code, message string, err error) *BackendError {
	return &BackendError{Code: code, Message: message, Err: err}
}
