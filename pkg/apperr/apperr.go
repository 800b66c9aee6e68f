// Package apperr holds the client-side error taxonomy shared by every flow:
// validation failures caught before any network call, backend rejections,
// and connectivity failures. UserMessage turns any of them into toast text.
package apperr

import (
	"context"
	"errors"

	"github.com/piorhaii05/eatup/pkg/apiclient"
)

const (
	MsgGeneric     = "Something went wrong, please try again."
	MsgUnreachable = "Cannot reach the server. Check your connection and try again."
)

// ValidationError is raised before any request is sent.
type ValidationError struct {
	Reason string
	Err    error // optional sentinel, matched by errors.Is
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid builds a ValidationError carrying sentinel so callers can still
// errors.Is against it.
func Invalid(sentinel error, reason string) error {
	return &ValidationError{Reason: reason, Err: sentinel}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// UserMessage picks the text the UI shows for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var v *ValidationError
	if errors.As(err, &v) {
		return v.Reason
	}

	var reqErr *apiclient.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Message != "" {
			return reqErr.Message
		}
		return MsgGeneric
	}

	if errors.Is(err, apiclient.ErrUnreachable) || errors.Is(err, context.DeadlineExceeded) {
		return MsgUnreachable
	}
	return MsgGeneric
}
