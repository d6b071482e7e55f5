// Package errors provides custom error types for the application.
// It defines domain-specific errors with error codes so the CLI and the preview
// server can report failures consistently.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents application error codes
type ErrorCode string

// Error codes for different error categories
const (
	// General errors (1xxx)
	ErrCodeInternal   ErrorCode = "E1000"
	ErrCodeValidation ErrorCode = "E1001"
	ErrCodeNotFound   ErrorCode = "E1002"

	// Template errors (2xxx)
	ErrCodeTemplateNotFound ErrorCode = "E2001"
	ErrCodeTemplateRender   ErrorCode = "E2002"

	// File errors (3xxx)
	ErrCodeFileWrite   ErrorCode = "E3001"
	ErrCodeFileRead    ErrorCode = "E3002"
	ErrCodeIndexRender ErrorCode = "E3003"

	// Capture errors (4xxx)
	ErrCodeCaptureInvalid ErrorCode = "E4001"
	ErrCodeCaptureParse   ErrorCode = "E4002"

	// Export errors (5xxx)
	ErrCodePDFExport ErrorCode = "E5001"

	// Configuration errors (6xxx)
	ErrCodeConfigNotFound ErrorCode = "E6001"
	ErrCodeConfigInvalid  ErrorCode = "E6002"
	ErrCodeConfigParse    ErrorCode = "E6003"
)

// Exit codes for CLI failures
const (
	// ExitCodeRender indicates a report could not be rendered or written
	ExitCodeRender = 1
	// ExitCodeConfigValidation indicates configuration validation failure
	ExitCodeConfigValidation = 2
	// ExitCodeInput indicates an unreadable or invalid capture file
	ExitCodeInput = 3
)

// AppError represents an application-level error with code and context
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
	Details any       `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for the error
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeNotFound, ErrCodeTemplateNotFound:
		return http.StatusNotFound
	case ErrCodeValidation, ErrCodeCaptureInvalid, ErrCodeCaptureParse:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ExitCode returns the process exit code the CLI uses for the error
func (e *AppError) ExitCode() int {
	switch e.Code {
	case ErrCodeConfigNotFound, ErrCodeConfigInvalid, ErrCodeConfigParse:
		return ExitCodeConfigValidation
	case ErrCodeCaptureInvalid, ErrCodeCaptureParse, ErrCodeFileRead:
		return ExitCodeInput
	default:
		return ExitCodeRender
	}
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with AppError
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// Common error constructors for convenience

// ErrInternal creates an internal error
func ErrInternal(message string, err error) *AppError {
	return Wrap(ErrCodeInternal, message, err)
}

// ErrValidation creates a validation error
func ErrValidation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// ErrNotFound creates a not found error
func ErrNotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

// IsAppError checks if an error is, or wraps, an AppError
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError attempts to find an AppError in the error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an AppError with the given code
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
