package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the broad failure categories of the rendering pipeline.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotConfigured = errors.New("not configured")
	ErrInternal      = errors.New("internal error")
)

// AppError is a structured application error carrying a machine-readable code,
// a sanitized message safe for HTTP responses, and an HTTP status mapping.
// The wrapped error (with full internal detail) is meant for logs only.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// InvalidInput creates a 400 error for a caller mistake.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// NotConfigured creates a 500 error for a missing configuration prerequisite.
// Used to fail fast before any rendering work is performed.
func NotConfigured(message string) *AppError {
	return &AppError{
		Code:    "NOT_CONFIGURED",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     ErrNotConfigured,
	}
}

// Pipeline creates a 500 error for a failure inside the rendering pipeline,
// tagged with a code that lets callers distinguish launch failures from load
// timeouts from capture or integrity failures.
func Pipeline(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
