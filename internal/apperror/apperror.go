// Package apperror defines the application's error taxonomy.
//
// Every layer below the HTTP handlers returns one of these errors (usually
// wrapped with fmt.Errorf("context: %w", err)). The handlers unwrap them with
// errors.Is / errors.As and translate them to status codes in one place, so
// the service and repository layers never know about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers check these with errors.Is().
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrInvalidID    = errors.New("invalid id")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

// AppError carries a human-readable message alongside the sentinel it wraps.
// The Field is set for validation errors so clients know which input failed.
type AppError struct {
	Err     error  // sentinel identifying the error class
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that a resource does not exist for the caller. Ownership
// misses use this too — a record owned by someone else must look exactly like
// a record that does not exist.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// ValidationFailed reports a bad input value on the named field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// InvalidID reports a syntactically malformed identifier. The message format
// is part of the API contract: clients match on "The `id` is not valid".
func InvalidID(field string) *AppError {
	return &AppError{
		Err:     ErrInvalidID,
		Message: fmt.Sprintf("The `%s` is not valid", field),
		Field:   field,
	}
}

// Unauthorized reports failed authentication. The message is deliberately
// uniform — it never reveals whether the username, password, or token was the
// problem.
func Unauthorized() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: "Unauthorized",
	}
}

// Conflict reports a duplicate value on a unique field.
func Conflict(field, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		Field:   field,
	}
}

// RegistrationError is the structured 422 body returned by user registration.
// The shape {code, reason, message, location} is part of the API contract.
type RegistrationError struct {
	Code     int    `json:"code"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
	Location string `json:"location"`
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

// Unwrap makes errors.Is(err, ErrValidation) true for registration errors.
func (e *RegistrationError) Unwrap() error {
	return ErrValidation
}

// Registration builds a RegistrationError for the given field.
func Registration(message, location string) *RegistrationError {
	return &RegistrationError{
		Code:     422,
		Reason:   "ValidationError",
		Message:  message,
		Location: location,
	}
}
