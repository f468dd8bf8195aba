// Package errors provides structured error types for nwcharts.
//
// Every error that can reach a caller of the chart, style, geo or storage
// packages carries a machine-readable [Code], so that the CLI and the HTTP API
// can map failures to exit codes and status codes without string matching.
//
// # Error Codes
//
// Codes follow a simple naming convention:
//   - INVALID_*: configuration or input validation failures
//   - *_NOT_FOUND: a named resource (style, region, base map) does not exist
//   - STORAGE_ERROR, NETWORK_ERROR: failures talking to a backend
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeStyleNotFound, "no such style: %s", name)
//	if errors.Is(err, errors.ErrCodeStyleNotFound) {
//	    // fall back to the default style
//	}
//
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "upload %s", key)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidLanguage  Code = "INVALID_LANGUAGE"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle     Code = "INVALID_STYLE"
	ErrCodeInvalidChartType Code = "INVALID_CHART_TYPE"
	ErrCodeInvalidUnits     Code = "INVALID_UNITS"
	ErrCodeInvalidKey       Code = "INVALID_KEY"
	ErrCodeInvalidBaseMap   Code = "INVALID_BASE_MAP"
	ErrCodeDuplicateTime    Code = "DUPLICATE_TIMEPOINT"

	// Resource not found errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeStyleNotFound  Code = "STYLE_NOT_FOUND"
	ErrCodeRegionNotFound Code = "REGION_NOT_FOUND"

	// Backend errors
	ErrCodeStorage Code = "STORAGE_ERROR"
	ErrCodeNetwork Code = "NETWORK_ERROR"

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
// It unwraps the error chain looking for the outermost *Error.
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

// IsConfig reports whether err is a configuration error, i.e. one the caller
// can fix by changing the chart definition, style or options.
func IsConfig(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidLanguage, ErrCodeInvalidFormat,
		ErrCodeInvalidStyle, ErrCodeInvalidChartType, ErrCodeInvalidUnits,
		ErrCodeInvalidKey, ErrCodeInvalidBaseMap, ErrCodeDuplicateTime,
		ErrCodeStyleNotFound, ErrCodeRegionNotFound, ErrCodeNotFound:
		return true
	}
	return false
}
