// Package errors provides structured error types for nodeweave.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the graph core, the editor and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes fall into three families that mirror how the editor reacts:
//   - Structural violations (STRUCTURAL_VIOLATION, RESOLUTION_ERROR,
//     DUPLICATE_ID): the operation would break a graph invariant and is
//     rejected as a whole, the live graph is left untouched
//   - Malformed documents (MALFORMED_DOCUMENT): the payload could not be
//     parsed or lacks required keys
//   - Everything else (INVALID_*, NOT_FOUND, INTERNAL_ERROR, ...)
//
// Removing something that is already gone is not an error at all: those
// recoverable no-ops are logged at debug level by the caller and never
// surfaced.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeResolution, "edge %d: unknown start socket %d", id, sid)
//	if errors.IsStructural(err) {
//	    // reject the whole document
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMalformedDocument, origErr, "parse clipboard payload")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Structural errors
	ErrCodeStructural  Code = "STRUCTURAL_VIOLATION"
	ErrCodeResolution  Code = "RESOLUTION_ERROR"
	ErrCodeDuplicateID Code = "DUPLICATE_ID"

	// Document errors
	ErrCodeMalformedDocument Code = "MALFORMED_DOCUMENT"

	// Input validation errors
	ErrCodeInvalidState Code = "INVALID_STATE"
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"
	ErrCodeInvalidTitle Code = "INVALID_TITLE"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// IsStructural reports whether err rejects an operation because it would
// break a graph invariant (structural violation, unresolved reference or
// duplicate identifier).
func IsStructural(err error) bool {
	switch GetCode(err) {
	case ErrCodeStructural, ErrCodeResolution, ErrCodeDuplicateID:
		return true
	}
	return false
}

// IsMalformed reports whether err was caused by an unparseable or
// incomplete document.
func IsMalformed(err error) bool {
	return Is(err, ErrCodeMalformedDocument)
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
