package utils

import (
	"errors"
	"net/http"
)

// AppError carries the HTTP status a service failure should be reported with.
type AppError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewBadRequestError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Message: message}
}

func NewInternalError(message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message}
}

func NewServiceUnavailableError(message string) *AppError {
	return &AppError{StatusCode: http.StatusServiceUnavailable, Message: message}
}

// WrapInternalError keeps the cause for logs while the client only sees message.
func WrapInternalError(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message, Err: err}
}

// AsAppError reports whether err is (or wraps) an AppError.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func NewGatewayTimeoutError(message string) *AppError {
	return &AppError{StatusCode: http.StatusGatewayTimeout, Message: message}
}

func NewBadGatewayError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadGateway, Message: message}
}
