package errors

import (
	"fmt"
)

// Pipeline stage errors
var (
	ErrNoFileSelected             = New("no video file selected")
	ErrConversionFailed           = New("conversion failed")
	ErrUploadFailed               = New("upload failed")
	ErrTranscriptionRequestFailed = New("transcription request failed")
)

// Media and state errors
var (
	ErrUnsupportedMedia   = New("unsupported media type")
	ErrEmptyMedia         = New("media asset is empty")
	ErrInvalidTransition  = New("invalid state transition")
	ErrEngineUnavailable  = New("transcoding engine unavailable")
	ErrMalformedMediaID   = New("malformed media identifier")
	ErrUnexpectedResponse = New("unexpected response")
)

// Configuration errors
var (
	ErrMissingConfig = New("configuration is required")
	ErrInvalidConfig = New("invalid configuration")
)

// Error represents a standardized error
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// Stage marks err as a failure of the stage identified by sentinel. The result
// matches both the sentinel and the original cause under errors.Is.
func Stage(sentinel *Error, err error) error {
	if err == nil {
		return nil
	}
	return &stageError{sentinel: sentinel, cause: err}
}

type stageError struct {
	sentinel *Error
	cause    error
}

func (e *stageError) Error() string {
	return fmt.Sprintf("%s: %v", e.sentinel.message, e.cause)
}

func (e *stageError) Unwrap() []error {
	return []error{e.sentinel, e.cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return Wrapf(ErrMissingConfig, "%s is required", field)
}

// InvalidField returns an error for invalid field values
func InvalidField(field string, reason string) error {
	return Wrapf(ErrInvalidConfig, "%s is invalid: %s", field, reason)
}
