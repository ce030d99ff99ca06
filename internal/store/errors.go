package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in
	// the store. This is a generic version of the entity-specific not
	// found errors (e.g., ErrTaskNotFound, ErrWatermarkNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., an email log with an existing key).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrWatermarkConflict is returned when a compare-and-swap watermark
	// advancement loses to a concurrent writer. The caller should treat
	// the run as failed and let the next scheduled trigger retry.
	ErrWatermarkConflict = errors.New("watermark version conflict")

	// Entity-specific "not found" errors

	// ErrTaskNotFound indicates that the requested task does not exist in the store.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrEmailLogNotFound indicates that the requested email log does not exist in the store.
	ErrEmailLogNotFound = fmt.Errorf("%w: email log", ErrNotFound)

	// ErrWatermarkNotFound indicates that no watermark has been persisted
	// for the requested scope. Callers default to the zero watermark.
	ErrWatermarkNotFound = fmt.Errorf("%w: watermark", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "task", "email_log")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// BatchError reports a partially failed batch operation: Marked items
// succeeded before the batch stopped or skipped items. Err carries the
// joined per-item failures.
type BatchError struct {
	Marked int
	Total  int
	Err    error
}

// Error implements the error interface for BatchError.
func (e *BatchError) Error() string {
	return fmt.Sprintf("batch completed %d of %d items: %v", e.Marked, e.Total, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *BatchError) Unwrap() error {
	return e.Err
}
