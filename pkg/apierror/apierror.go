// Package apierror holds the error taxonomy returned by every EMX client call.
package apierror

import (
	"errors"
	"fmt"
	"time"
)

// AuthError reports a malformed API secret. It is raised before any request leaves the process.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("b64decode failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// RequestError represents a non-2xx response or a transport failure.
// StatusCode is 0 when no response was received.
type RequestError struct {
	StatusCode int
	Status     string
	Reason     string
	Err        error
}

// NewStatusError builds a RequestError from an HTTP response.
func NewStatusError(statusCode int, status, body string) *RequestError {
	return &RequestError{
		StatusCode: statusCode,
		Status:     status,
		Reason:     body,
	}
}

// NewTransportError builds a RequestError from a network level failure.
func NewTransportError(err error) *RequestError {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	return &RequestError{Reason: reason, Err: err}
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed. reason: %s", e.Reason)
}

func (e *RequestError) Unwrap() error { return e.Err }

// TimeoutError reports that a stream produced no frame within its read window.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no messages received within %s", e.Timeout)
}

// ValidationError reports a request rejected locally, before signing.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Message
	}
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
}

func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

func IsRequest(err error) bool {
	var target *RequestError
	return errors.As(err, &target)
}

func IsTimeout(err error) bool {
	var target *TimeoutError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
