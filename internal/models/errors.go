package models

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError.
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeAuthFailure   = "AUTH_FAILURE"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAuthorization = "FORBIDDEN"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// FieldError is a single validation message bound to a form field.
type FieldError struct {
	Field string `json:"field,omitempty"`
	Msg   string `json:"msg"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a validation error from per-field messages.
func NewValidationError(fields ...FieldError) *AppError {
	msg := "validation failed"
	if len(fields) > 0 {
		msg = fields[0].Msg
	}
	return &AppError{
		Code:    ErrCodeValidation,
		Message: msg,
		Fields:  fields,
	}
}

// NewAuthFailure reports rejected credentials; reason is shown to the user.
func NewAuthFailure(reason string) *AppError {
	return &AppError{
		Code:    ErrCodeAuthFailure,
		Message: reason,
	}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewAuthorizationError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeAuthorization,
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// HasCode reports whether err wraps an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
