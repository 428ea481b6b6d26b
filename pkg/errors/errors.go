// Package errors provides structured error types for buildfeatures.
//
// Every failure the engine can report carries a machine-readable [Code] so the
// CLI and callers can tell a fatal definition problem apart from a reported,
// skipped extraction step:
//
//   - INVALID_*: definition-time validation failures (fatal to the call)
//   - UNKNOWN_*: lookups against the registry or the version table
//   - DOCUMENT_WRITE_CONFLICT, IO_FAILURE: file-system outcomes of extraction
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownFeatureKey, "feature does not exist: %s", keys)
//	if errors.Is(err, errors.ErrCodeUnknownFeatureKey) {
//	    // Handle selection error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Definition errors
	ErrCodeInvalidFeatureDefinition Code = "INVALID_FEATURE_DEFINITION"
	ErrCodeMalformedCoordinate      Code = "MALFORMED_DEPENDENCY_COORDINATE"
	ErrCodeInvalidExclusion         Code = "INVALID_EXCLUSION"
	ErrCodeInvalidInput             Code = "INVALID_INPUT"
	ErrCodeInvalidDocument          Code = "INVALID_DOCUMENT"
	ErrCodeInvalidPath              Code = "INVALID_PATH"

	// Lookup errors
	ErrCodeUnknownFeatureKey Code = "UNKNOWN_FEATURE_KEY"
	ErrCodeUnknownVersionKey Code = "UNKNOWN_VERSION_KEY"
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"

	// Document errors
	ErrCodeWriteConflict Code = "DOCUMENT_WRITE_CONFLICT"
	ErrCodeIO            Code = "IO_FAILURE"

	// Collaborator errors
	ErrCodePublishFailed Code = "PUBLISH_FAILED"
)

// Error is a coded failure. Cause is set by [Wrap].
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause.
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
// including errors combined with errors.Join.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) && e.Code == code {
		return true
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			if Is(inner, code) {
				return true
			}
		}
	}
	if e != nil && e.Cause != nil {
		return Is(e.Cause, code)
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none. cmd/buildfeatures maps it to an exit status.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code
// or cause, falling back to err.Error().
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
