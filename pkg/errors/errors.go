// Package errors defines the application's error taxonomy: a typed
// AppError with a stable code, used both for build-time failures
// (invariant violations, out-of-range input) and query-time failures
// (no such id).
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the application.
const (
	CodeUnknown           = "UNKNOWN_ERROR"
	CodeInvariantViolated = "INVARIANT_VIOLATED"
	CodeOutOfRange        = "OUT_OF_RANGE"
	CodeNoSuchID          = "NO_SUCH_ID"
	CodeParseError        = "PARSE_ERROR"
	CodeConfigError       = "CONFIG_ERROR"
	CodeTimeout           = "TIMEOUT_ERROR"
	CodeInvalidInput      = "INVALID_INPUT"
)

// AppError represents an application error with a code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error instances.
var (
	ErrInvariantViolated = New(CodeInvariantViolated, "invariant violated")
	ErrOutOfRange        = New(CodeOutOfRange, "value out of range")
	ErrNoSuchID          = New(CodeNoSuchID, "no such id")
	ErrParseError        = New(CodeParseError, "parse error")
	ErrConfigError       = New(CodeConfigError, "configuration error")
	ErrTimeout           = New(CodeTimeout, "operation timeout")
	ErrInvalidInput      = New(CodeInvalidInput, "invalid input")
)

// IsInvariantViolated checks if the error is an invariant-violation
// build error.
func IsInvariantViolated(err error) bool {
	return errors.Is(err, ErrInvariantViolated)
}

// IsOutOfRange checks if the error is an out-of-range build error.
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

// IsNoSuchID checks if the error is a no-such-id query error.
func IsNoSuchID(err error) bool {
	return errors.Is(err, ErrNoSuchID)
}

// IsParseError checks if the error is a parse error.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParseError)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorMessage extracts the error message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
