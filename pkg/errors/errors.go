package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCancelled    ErrorCode = "CANCELLED"

	// Configuration errors. These abort a read or write pass before the
	// outline is touched.
	ErrConfigLoad   ErrorCode = "CONFIG_LOAD"
	ErrConfigParse  ErrorCode = "CONFIG_PARSE"
	ErrBadOption    ErrorCode = "BAD_OPTION"
	ErrBadDelimiter ErrorCode = "BAD_DELIMITER"
	ErrBadEncoding  ErrorCode = "BAD_ENCODING"
	ErrBadHeader    ErrorCode = "BAD_HEADER"

	// Outline errors
	ErrOutlineParse ErrorCode = "OUTLINE_PARSE"
	ErrInvalidGNX   ErrorCode = "INVALID_GNX"

	// Codec errors
	ErrWriteErrors ErrorCode = "WRITE_ERRORS"
	ErrReadErrors  ErrorCode = "READ_ERRORS"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileRead     ErrorCode = "FILE_READ"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrReplace      ErrorCode = "REPLACE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// AtfileError represents a structured error with code and details
type AtfileError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *AtfileError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AtfileError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *AtfileError) Is(target error) bool {
	var targetErr *AtfileError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new AtfileError with the given code and message
func New(code ErrorCode, message string) *AtfileError {
	return &AtfileError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new AtfileError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AtfileError {
	return &AtfileError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an AtfileError.
// Callers must check err for nil first: a nil *AtfileError stored in an
// error interface is not a nil error.
func Wrap(err error, code ErrorCode, message string) *AtfileError {
	if err == nil {
		return nil
	}
	return &AtfileError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AtfileError {
	if err == nil {
		return nil
	}
	return &AtfileError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *AtfileError) WithDetail(key string, value interface{}) *AtfileError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *AtfileError) WithDetails(details map[string]interface{}) *AtfileError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var atErr *AtfileError
	if errors.As(err, &atErr) {
		return atErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an AtfileError
func GetErrorCode(err error) ErrorCode {
	var atErr *AtfileError
	if errors.As(err, &atErr) {
		return atErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an AtfileError
func GetErrorDetails(err error) map[string]interface{} {
	var atErr *AtfileError
	if errors.As(err, &atErr) {
		return atErr.Details
	}
	return nil
}

// IsConfigError reports whether err is one of the configuration errors that
// abort a codec pass.
func IsConfigError(err error) bool {
	switch GetErrorCode(err) {
	case ErrConfigLoad, ErrConfigParse, ErrBadOption, ErrBadDelimiter, ErrBadEncoding, ErrBadHeader:
		return true
	}
	return false
}
