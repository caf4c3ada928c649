// Package apperror defines the domain errors shared by the service and handler layers.
//
// Services return these; handlers translate them to HTTP status codes with errors.Is.
// Storage code wraps raw driver errors with fmt.Errorf("...: %w", err) instead.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("Validation Error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrPartialMigration   = errors.New("partial migration failure")
	ErrDelivery           = errors.New("contact delivery failure")
)

type AppError struct {
	Err     error  // sentinel, matched with errors.Is
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Cause   error  // Optional: underlying failure (storage, SMTP, ...)
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes both the sentinel and the cause so errors.Is matches either.
func (e *AppError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unauthorized is returned when credentials are missing or wrong.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// InvalidArgument rejects a call before it touches storage, e.g. seeding
// content without a user id.
func InvalidArgument(field, message string) *AppError {
	return &AppError{
		Err:     ErrInvalidArgument,
		Message: message,
		Field:   field,
	}
}

// StorageUnavailable wraps a document store failure.
func StorageUnavailable(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrStorageUnavailable,
		Message: fmt.Sprintf("storage unavailable during %s", op),
		Cause:   cause,
	}
}

// PartialMigration reports that at least one seeding step failed. Steps that
// already finished keep their writes.
func PartialMigration(cause error) *AppError {
	return &AppError{
		Err:     ErrPartialMigration,
		Message: fmt.Sprintf("content migration failed: %v", cause),
		Cause:   cause,
	}
}

// DeliveryFailed reports that the mail relay could not hand off a message.
func DeliveryFailed(cause error) *AppError {
	return &AppError{
		Err:     ErrDelivery,
		Message: "Failed to send email",
		Cause:   cause,
	}
}
