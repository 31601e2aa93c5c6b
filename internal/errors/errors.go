package errors

import (
	stdErrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error

	// HTTPStatus is the upstream status code for UPSTREAM_STATUS errors, 0 otherwise
	HTTPStatus int
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of a wrapped AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return &AppError{
			Code:       appErr.Code,
			Message:    message,
			Cause:      err,
			HTTPStatus: appErr.HTTPStatus,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:       code,
			Message:    appErr.Message,
			Cause:      appErr.Cause,
			HTTPStatus: appErr.HTTPStatus,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given code anywhere in its chain
func HasCode(err error, code string) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		err = stdErrors.Unwrap(err)
	}
	return false
}

// GetHTTPStatus returns the upstream HTTP status recorded on the error chain, or 0
func GetHTTPStatus(err error) int {
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return 0
}

// Predefined error codes
const (
	CodeConfigInvalid  = "CONFIG_INVALID"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeInternalError  = "INTERNAL_ERROR"
	CodeTransport      = "TRANSPORT_ERROR"
	CodeUpstreamStatus = "UPSTREAM_STATUS"
	CodeDecode         = "DECODE_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// Transport reports a request that never produced an HTTP response
func Transport(operation string, cause error) *AppError {
	return &AppError{
		Code:    CodeTransport,
		Message: fmt.Sprintf("%s request failed", operation),
		Cause:   cause,
	}
}

// UpstreamStatus reports a non-2xx response from the passenger API
func UpstreamStatus(operation string, status int, detail string) *AppError {
	msg := fmt.Sprintf("%s returned HTTP %d", operation, status)
	if detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, detail)
	}
	return &AppError{
		Code:       CodeUpstreamStatus,
		Message:    msg,
		HTTPStatus: status,
	}
}

// Decode reports a response body that could not be parsed
func Decode(operation string, cause error) *AppError {
	return &AppError{
		Code:    CodeDecode,
		Message: fmt.Sprintf("%s response could not be decoded", operation),
		Cause:   cause,
	}
}
