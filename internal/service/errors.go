package service

import (
	"errors"
	"fmt"

	"docqa/internal/convert"
	"docqa/internal/docstore"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden is returned when the actor lacks the required permission.
	ErrForbidden = errors.New("forbidden")
	// ErrIngestionInProgress is returned when another ingestion is running.
	ErrIngestionInProgress = errors.New("ingestion already in progress")
	// ErrStoreUnavailable is returned when the vector store cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrExternalService is returned when an external service call fails.
	ErrExternalService = errors.New("external service error")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is makes every ValidationError match ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// wrapDependencyError wraps err with msg and marks it with the sentinel of the
// failing dependency. Conversion errors keep their own identity.
func wrapDependencyError(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, convert.ErrConversion):
		return WrapError(err, msg)
	case errors.Is(err, docstore.ErrStoreUnavailable):
		return fmt.Errorf("%s: %w: %w", msg, ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%s: %w: %w", msg, ErrExternalService, err)
	}
}
