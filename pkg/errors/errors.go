// Package errors provides structured error types for nodelight.
//
// Every failure the core can report carries a machine-readable [Code] so the
// CLI can decide whether it is fatal (startup) or recoverable (per event)
// without string matching:
//
//   - Startup, fatal: MALFORMED_GRAPH, GRAPH_SOURCE, INVALID_LAYOUT_CONFIG,
//     INVALID_CONFIG, TRANSPORT_BIND
//   - Steady state, recoverable: UNKNOWN_NODE_SELECTED, TRANSPORT_RECEIVE, DECODE
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownNodeSelected, "node %q is not in the graph", id)
//	if errors.Is(err, errors.ErrCodeUnknownNodeSelected) {
//	    // log and keep the current selection
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeGraphSource, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Graph model and graph input
	ErrCodeMalformedGraph Code = "MALFORMED_GRAPH"
	ErrCodeUnknownNode    Code = "UNKNOWN_NODE"
	ErrCodeGraphSource    Code = "GRAPH_SOURCE"

	// Configuration
	ErrCodeInvalidLayoutConfig Code = "INVALID_LAYOUT_CONFIG"
	ErrCodeInvalidConfig       Code = "INVALID_CONFIG"

	// Selection
	ErrCodeUnknownNodeSelected Code = "UNKNOWN_NODE_SELECTED"

	// Transport
	ErrCodeTransportBind    Code = "TRANSPORT_BIND"
	ErrCodeTransportReceive Code = "TRANSPORT_RECEIVE"
	ErrCodeDecode           Code = "DECODE"

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
// It unwraps the error chain looking for an *Error with a matching code,
// so a GRAPH_SOURCE error wrapping a MALFORMED_GRAPH error matches both.
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

// Fatal reports whether err belongs to the startup class of failures that
// must abort the process. Unknown codes and plain errors are treated as fatal.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	switch GetCode(err) {
	case ErrCodeUnknownNodeSelected, ErrCodeTransportReceive, ErrCodeDecode:
		return false
	}
	return true
}
