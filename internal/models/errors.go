package models

import (
	"errors"
	"fmt"
)

var (
	ErrNoRecord                = errors.New("models: no matching record found")
	ErrUserNotFound            = errors.New("models: user not found")
	ErrBookingNotFound         = errors.New("models: booking not found")
	ErrServiceNotFound         = errors.New("models: service not found")
	ErrCategoryNotFound        = errors.New("models: category not found")
	ErrDuplicateEmail          = errors.New("models: duplicate email")
	ErrInvalidCredentials      = errors.New("models: invalid credentials")
	ErrEmailNotConfirmed       = errors.New("models: email not confirmed")
	ErrInvalidResetCode        = errors.New("models: invalid reset code")
	ErrInvalidStatusTransition = errors.New("models: invalid booking status transition")
	ErrBookingConflict         = errors.New("models: booking was modified concurrently")
)

// ValidationError is raised before any backend call when client input fails a
// structural check. Field names the offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
