package errors

import (
	"fmt"
)

// Error represents a structured toolkit error with a stable error code.
// Validation errors are raised immediately; there are no retries and no
// partial-failure recovery (all processing is batch, single-pass).
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target carries the same error code. This makes the
// predeclared errors below usable as errors.Is targets even when a more
// detailed instance was returned.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error with the given code and message
func New(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// NewWithDetails creates a new Error with additional details
func NewWithDetails(code, message string, details interface{}) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Error codes used across the toolkit
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeLengthMismatch   = "LENGTH_MISMATCH"
	CodeEmptyInput       = "EMPTY_INPUT"
	CodeUnknownOption    = "UNKNOWN_OPTION"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeIndexOutOfRange  = "INDEX_OUT_OF_RANGE"
	CodeNotMonotonic     = "NOT_MONOTONIC"
	CodeFileFormat       = "FILE_FORMAT"
	CodeMissingParameter = "MISSING_PARAMETER"
)

// Predefined error types for common scenarios
var (
	ErrValidationFailed = New(CodeValidationFailed, "input validation failed")
	ErrLengthMismatch   = New(CodeLengthMismatch, "inputs must have the same length")
	ErrEmptyInput       = New(CodeEmptyInput, "input must not be empty")
	ErrUnknownOption    = New(CodeUnknownOption, "unknown enumerated option")
	ErrInsufficientData = New(CodeInsufficientData, "not enough data for this operation")
	ErrIndexOutOfRange  = New(CodeIndexOutOfRange, "index outside signal bounds")
	ErrNotMonotonic     = New(CodeNotMonotonic, "timestamps must be strictly increasing")
	ErrFileFormat       = New(CodeFileFormat, "unexpected file format")
	ErrMissingParameter = New(CodeMissingParameter, "required parameter is missing")
)

// Helper constructors for the common validation scenarios

// LengthMismatch creates a length mismatch error naming both operands
func LengthMismatch(what string, want, got int) *Error {
	return NewWithDetails(CodeLengthMismatch,
		fmt.Sprintf("%s must have the same length", what),
		fmt.Sprintf("want %d, got %d", want, got))
}

// EmptyInput creates an empty input error for the named argument
func EmptyInput(what string) *Error {
	return NewWithDetails(CodeEmptyInput, "input must not be empty", what)
}

// UnknownOption creates an error for an out-of-enumeration option value
func UnknownOption(name, got string, allowed []string) *Error {
	return NewWithDetails(CodeUnknownOption,
		fmt.Sprintf("%s must be one of %v, not %q", name, allowed, got),
		got)
}

// InsufficientData creates an error for operations that need a minimum sample count
func InsufficientData(what string, need, got int) *Error {
	return NewWithDetails(CodeInsufficientData,
		fmt.Sprintf("%s requires at least %d samples, got %d", what, need, got),
		got)
}

// MissingParameter creates an error for a required-but-absent parameter
func MissingParameter(name, context string) *Error {
	return NewWithDetails(CodeMissingParameter,
		fmt.Sprintf("%s must also be passed when %s", name, context),
		name)
}

// ValidationError represents a single field validation failure
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validation creates a validation error with field details
func Validation(field, message string) *Error {
	return NewWithDetails(CodeValidationFailed, "input validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}
