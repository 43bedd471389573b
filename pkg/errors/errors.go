// Package errors provides structured error types for logle.
//
// Every public operation in logle reports failure as an *Error carrying a
// machine-readable [Code] and a human-readable message. Callers propagate
// these upward unchanged; none of the failure kinds are transient, so there
// is no retry classification.
//
// # Error Codes
//
// Codes fall into two groups:
//   - Analysis: INVALID_ARGUMENT, EXTERNAL, INTERNAL
//   - Graph core: UNKNOWN_TAG, TYPE_MISMATCH, NODE_NOT_FOUND, EDGE_NOT_FOUND,
//     ALREADY_INITIALIZED, NOT_INITIALIZED
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownTag, "unknown node tag %q", tag)
//	if errors.Is(err, errors.ErrCodeUnknownTag) {
//	    // Handle schema violation
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExternal, origErr, "Error opening file: %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Analysis errors
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"
	ErrCodeExternal        Code = "EXTERNAL"
	ErrCodeInternal        Code = "INTERNAL"

	// Graph core errors
	ErrCodeUnknownTag         Code = "UNKNOWN_TAG"
	ErrCodeTypeMismatch       Code = "TYPE_MISMATCH"
	ErrCodeNodeNotFound       Code = "NODE_NOT_FOUND"
	ErrCodeEdgeNotFound       Code = "EDGE_NOT_FOUND"
	ErrCodeAlreadyInitialized Code = "ALREADY_INITIALIZED"
	ErrCodeNotInitialized     Code = "NOT_INITIALIZED"
)

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
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
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

// IsGraphInput reports whether err was caused by labels or ids that do not
// fit the graph (as opposed to I/O or internal failures).
func IsGraphInput(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnknownTag, ErrCodeTypeMismatch, ErrCodeNodeNotFound, ErrCodeEdgeNotFound:
		return true
	}
	return false
}
