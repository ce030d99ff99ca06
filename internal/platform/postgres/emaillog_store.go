package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktracker-api/internal/domain"
	"github.com/phrazzld/tasktracker-api/internal/platform/logger"
	"github.com/phrazzld/tasktracker-api/internal/store"
)

// EmailLogStore implements the store.EmailLogStore interface
// using a PostgreSQL database as the storage backend.
type EmailLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewEmailLogStore creates a new PostgreSQL implementation of the
// EmailLogStore interface.
func NewEmailLogStore(db store.DBTX, logger *slog.Logger) *EmailLogStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &EmailLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "email_log_store")),
	}
}

// Ensure EmailLogStore implements store.EmailLogStore interface
var _ store.EmailLogStore = (*EmailLogStore)(nil)

// Create implements store.EmailLogStore.Create
func (s *EmailLogStore) Create(ctx context.Context, emailLog *domain.EmailLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := emailLog.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO email_logs (key, task_id, email_to, content, dedup_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		emailLog.Key,
		emailLog.TaskID,
		emailLog.EmailTo,
		emailLog.Content,
		emailLog.DedupKey,
		emailLog.CreatedAt,
	)
	if err != nil {
		log.Error("failed to save email log",
			"error", err,
			"key", emailLog.Key,
			"task_id", emailLog.TaskID)
		return MapError(err)
	}

	log.Debug("email log created", "key", emailLog.Key, "task_id", emailLog.TaskID)
	return nil
}

// ExistsByDedupKey implements store.EmailLogStore.ExistsByDedupKey
func (s *EmailLogStore) ExistsByDedupKey(ctx context.Context, dedupKey string) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM email_logs WHERE dedup_key = $1)`,
		dedupKey,
	).Scan(&exists)
	if err != nil {
		log.Error("failed to check email log dedup key", "error", err)
		return false, MapError(err)
	}

	return exists, nil
}

// Delete implements store.EmailLogStore.Delete
// Used only by the readiness probe's write-then-delete round-trip.
func (s *EmailLogStore) Delete(ctx context.Context, key string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM email_logs WHERE key = $1`, key)
	if err != nil {
		log.Error("failed to delete email log", "error", err, "key", key)
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrEmailLogNotFound
	}

	return nil
}
