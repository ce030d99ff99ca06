package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktracker-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// The store is the sole writer of persisted task state; all other
// components read through it or through its query surface. Event
// publication on mutation is the caller's responsibility — the store
// itself never publishes.
type TaskStore interface {
	// Create saves a new task to the store.
	// The task must be valid according to domain validation rules;
	// returns ErrInvalidEntity wrapping the validation failure otherwise.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update overwrites the three mutable fields (name, assignee, due
	// date) of an existing task. Returns ErrTaskNotFound if absent.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID. Hard delete, no
	// tombstone. Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// MarkCompleted sets the completed flag on a task. Idempotent:
	// marking an already-completed task is a no-op success.
	// Returns ErrTaskNotFound if the task does not exist.
	MarkCompleted(ctx context.Context, id uuid.UUID) error

	// ListByCreator returns all tasks created by the given identity,
	// ordered by creation timestamp descending. Result size is
	// unbounded; see DESIGN.md for the pagination decision.
	ListByCreator(ctx context.Context, createdBy string) ([]*domain.Task, error)

	// ListDueBefore returns tasks due before the cutoff that are not
	// already overdue, restricted to tasks created after createdSince
	// (the reconciler's watermark; pass the zero time for a full scan).
	// If the backing store is distributed, rows written just before the
	// cutoff may legitimately be missing from the result.
	ListDueBefore(ctx context.Context, cutoff, createdSince time.Time) ([]*domain.Task, error)

	// BatchMarkOverdue sets the overdue flag on each task and persists
	// it. No internal retry: partial failure leaves some tasks unmarked
	// and returns a *BatchError; the next scheduled reconciler run
	// retries them.
	BatchMarkOverdue(ctx context.Context, tasks []*domain.Task) error
}
