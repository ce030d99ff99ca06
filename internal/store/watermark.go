package store

import (
	"context"
	"time"

	"github.com/phrazzld/tasktracker-api/internal/domain"
)

// WatermarkStore persists the reconciler's progress cursor.
type WatermarkStore interface {
	// Get retrieves the watermark for the given scope.
	// Returns ErrWatermarkNotFound if no watermark has been persisted
	// yet; callers treat that as the zero watermark (full rescan).
	Get(ctx context.Context, scope string) (*domain.Watermark, error)

	// Advance moves the watermark for the given scope forward to next
	// using compare-and-swap on the version: the write succeeds only if
	// the persisted version still equals expectedVersion (0 for a
	// watermark that does not exist yet). Returns ErrWatermarkConflict
	// when a concurrent run advanced the watermark first.
	Advance(ctx context.Context, scope string, next time.Time, expectedVersion int64) error
}
