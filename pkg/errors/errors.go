// Package errors provides structured error types for famtree.
//
// Errors carry a machine-readable [Code] so the CLI can distinguish the
// fatal configuration failures (a missing master root, an unreadable input
// table) from everything the compiler absorbs silently.
//
// # Error Codes
//
//   - INVALID_*: input or configuration validation failures
//   - UNKNOWN_ROOT: a tree root id is absent from the person table
//   - FILE_NOT_FOUND: a required input file does not exist
//   - NETWORK_ERROR: cache or publish backend unreachable
//   - INTERNAL_ERROR: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownRoot, "master root %q not found", id)
//	if errors.Is(err, errors.ErrCodeUnknownRoot) {
//	    // configuration problem, abort the run
//	}
//
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidQuery  Code = "INVALID_QUERY"

	// Resource not found errors
	ErrCodeUnknownRoot  Code = "UNKNOWN_ROOT"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeNotFound     Code = "NOT_FOUND"

	// Backend errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
// It walks the error chain and matches any *Error carrying code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the chain contains no *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
//
// It keeps every layer of context in the chain, including fmt.Errorf
// prefixes and the innermost cause, and drops only the code prefixes of
// *Error values. A cause that already starts with its wrapper's message, as
// os errors do for "open <path>", is not repeated.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := err.(*Error); ok {
		if e.Cause == nil {
			return e.Message
		}
		cause := UserMessage(e.Cause)
		if e.Message == "" || strings.HasPrefix(cause, e.Message) {
			return cause
		}
		return e.Message + ": " + cause
	}

	inner := errors.Unwrap(err)
	if inner == nil {
		return err.Error()
	}
	prefix, ok := strings.CutSuffix(err.Error(), inner.Error())
	if !ok {
		return err.Error()
	}
	return prefix + UserMessage(inner)
}
