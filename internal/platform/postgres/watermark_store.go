package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasktracker-api/internal/domain"
	"github.com/phrazzld/tasktracker-api/internal/platform/logger"
	"github.com/phrazzld/tasktracker-api/internal/store"
)

// WatermarkStore implements the store.WatermarkStore interface
// using a PostgreSQL database as the storage backend. Advancement uses
// optimistic concurrency on the version column so overlapping
// reconciler runs cannot silently race a single cursor.
type WatermarkStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewWatermarkStore creates a new PostgreSQL implementation of the
// WatermarkStore interface.
func NewWatermarkStore(db store.DBTX, logger *slog.Logger) *WatermarkStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &WatermarkStore{
		db:     db,
		logger: logger.With(slog.String("component", "watermark_store")),
	}
}

// Ensure WatermarkStore implements store.WatermarkStore interface
var _ store.WatermarkStore = (*WatermarkStore)(nil)

// Get implements store.WatermarkStore.Get
// Returns store.ErrWatermarkNotFound when no watermark exists for the scope.
func (s *WatermarkStore) Get(ctx context.Context, scope string) (*domain.Watermark, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT scope, value, version FROM watermarks WHERE scope = $1`

	var wm domain.Watermark
	err := s.db.QueryRowContext(ctx, query, scope).Scan(&wm.Scope, &wm.Value, &wm.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrWatermarkNotFound
		}
		log.Error("failed to get watermark", "error", err, "scope", scope)
		return nil, MapError(err)
	}

	return &wm, nil
}

// Advance implements store.WatermarkStore.Advance
// The compare-and-swap touches the row only when the version still
// matches; expectedVersion 0 inserts the first watermark for the scope.
// The value can only move forward.
func (s *WatermarkStore) Advance(ctx context.Context, scope string, next time.Time, expectedVersion int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		result sql.Result
		err    error
	)

	if expectedVersion == 0 {
		result, err = s.db.ExecContext(ctx, `
			INSERT INTO watermarks (scope, value, version)
			VALUES ($1, $2, 1)
			ON CONFLICT (scope) DO NOTHING
		`, scope, next)
	} else {
		result, err = s.db.ExecContext(ctx, `
			UPDATE watermarks
			SET value = $1, version = version + 1
			WHERE scope = $2 AND version = $3 AND value <= $1
		`, next, scope, expectedVersion)
	}

	if err != nil {
		log.Error("failed to advance watermark",
			"error", err,
			"scope", scope,
			"next", next)
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		log.Warn("watermark advancement lost to a concurrent writer",
			"scope", scope,
			"expected_version", expectedVersion)
		return store.ErrWatermarkConflict
	}

	log.Debug("watermark advanced", "scope", scope, "value", next)
	return nil
}
