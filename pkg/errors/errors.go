// Package errors provides structured error types for folio.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the proxy server, client library and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - NETWORK_ERROR, RATE_LIMITED: Remote failures
//
// # Remote Failures
//
// Fetching repositories can fail in exactly two ways that callers care about:
//
//   - [RateLimitedError]: the remote API signalled exhaustion; carries the reset time
//   - [NetworkError]: any other non-2xx status or a transport failure
//
// Both report their code through [GetCode], so callers can branch without
// type assertions:
//
//	switch errors.GetCode(err) {
//	case errors.ErrCodeRateLimited:
//	    // wait until reset
//	case errors.ErrCodeNetwork:
//	    // show stale data
//	}
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidUsername  Code = "INVALID_USERNAME"
	ErrCodeInvalidSort      Code = "INVALID_SORT"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"

	// Resource not found errors
	ErrCodeUserNotFound Code = "USER_NOT_FOUND"

	// Remote errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeRateLimited Code = "RATE_LIMITED"
)

// coder is implemented by error types that carry their own code.
type coder interface {
	Code() Code
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It walks the error chain and matches the first coded error it finds.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Both *Error and the typed remote errors are recognised.
// Returns empty string for other errors.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// RateLimitedError is returned when the remote API reports that its request
// quota is exhausted.
type RateLimitedError struct {
	ResetAt time.Time // When the quota resets
	Message string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if !e.ResetAt.IsZero() {
		return fmt.Sprintf("rate limit exceeded: resets at %s", e.ResetAt.Format(time.Kitchen))
	}
	return "rate limit exceeded"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}

// RetryAfter returns how long to wait from now until the quota resets.
// It never returns a negative duration.
func (e *RateLimitedError) RetryAfter(now time.Time) time.Duration {
	return max(e.ResetAt.Sub(now), 0)
}

// NetworkError is returned for non-2xx responses other than rate limiting,
// and for transport failures where no response was received (Status 0).
type NetworkError struct {
	Status  int    // HTTP status, 0 for transport failures
	Message string // Message reported by the server, if any
	Cause   error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Status == 0 && e.Cause != nil:
		return fmt.Sprintf("network error: %v", e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("network error: %d: %v", e.Status, e.Cause)
	default:
		return fmt.Sprintf("network error: %d", e.Status)
	}
}

// Unwrap returns the underlying cause.
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// Code returns the error code for this error type.
func (e *NetworkError) Code() Code {
	return ErrCodeNetwork
}
