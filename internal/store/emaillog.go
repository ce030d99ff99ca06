package store

import (
	"context"

	"github.com/phrazzld/tasktracker-api/internal/domain"
)

// EmailLogStore persists notification delivery audit records.
// EmailLog records are immutable: they are only ever created, never
// updated. Delete exists solely for the readiness probe's
// write-then-delete round-trip.
type EmailLogStore interface {
	// Create saves a new email log record.
	// Returns ErrDuplicate if a record with the same key already exists.
	Create(ctx context.Context, log *domain.EmailLog) error

	// ExistsByDedupKey reports whether any record carries the given
	// dedup key. The notification consumer checks this before sending
	// so that redelivered events do not produce duplicate emails.
	ExistsByDedupKey(ctx context.Context, dedupKey string) (bool, error)

	// Delete removes a record by its key.
	// Returns ErrEmailLogNotFound if the record does not exist.
	Delete(ctx context.Context, key string) error
}
