package verrors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Vellum error code.
type ErrorCode string

const (
	ErrInvalidPoint   ErrorCode = "INVALID_POINT"   // 422
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// VellumError represents a structured error with code, status, and details.
type VellumError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *VellumError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidPoint creates a 422 error for a point field violating its bound.
func NewInvalidPoint(field string, value int, constraint string) *VellumError {
	return &VellumError{
		Code:    ErrInvalidPoint,
		Status:  422,
		Message: fmt.Sprintf("invalid %s %d: %s", field, value, constraint),
		Details: map[string]any{"field": field, "value": value, "constraint": constraint},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *VellumError {
	return &VellumError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a ledger index that does not exist.
func NewNotFound(index int) *VellumError {
	return &VellumError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("ledger entry not found: index %d", index),
		Details: map[string]any{"index": index},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *VellumError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &VellumError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error (possibly wrapped) is a VellumError with the given code.
func Is(err error, code ErrorCode) bool {
	var vErr *VellumError
	if stderrors.As(err, &vErr) {
		return vErr.Code == code
	}
	return false
}
