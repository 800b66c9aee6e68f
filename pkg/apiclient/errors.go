package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnreachable marks connectivity failures: DNS, refused, reset, timeouts.
	ErrUnreachable = errors.New("cannot reach server")
	ErrNotFound    = errors.New("not found")
)

// RequestError is a non-2xx answer from the backend.
type RequestError struct {
	Method  string
	Path    string
	Status  int
	Message string // server-supplied, may be empty
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

func (e *RequestError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}
