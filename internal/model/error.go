package model

import (
	"errors"
	"fmt"
)

// Application-level sentinel errors. Handlers map these to HTTP status
// codes in webutil.MapErrorToStatusCode.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInternalServer  = errors.New("internal server error")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConflict        = errors.New("resource conflict")
)

// AppError carries a machine-readable code and a human-readable message
// alongside the wrapped sentinel, so the response layer can render a
// structured error body without losing errors.Is semantics.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Err     error  `json:"-"`
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{Code: code, Message: message, Field: field, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// APIErrorResponse is the JSON error envelope returned to clients.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
