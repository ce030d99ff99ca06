package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktracker-api/internal/domain"
	"github.com/phrazzld/tasktracker-api/internal/platform/logger"
	"github.com/phrazzld/tasktracker-api/internal/store"
)

// TaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized
// and managed by the caller. If logger is nil, a default logger will be used.
func NewTaskStore(db store.DBTX, logger *slog.Logger) *TaskStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create
// It saves a new task to the database, handling domain validation.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			"error", err,
			"task_id", task.ID)
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (id, name, created_by, created_at, due_date, assigned_to, is_completed, is_overdue)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Name,
		task.CreatedBy,
		task.CreatedAt,
		task.DueDate,
		task.AssignedTo,
		task.IsCompleted,
		task.IsOverdue,
	)
	if err != nil {
		log.Error("failed to save task",
			"error", err,
			"task_id", task.ID)
		return MapError(err)
	}

	log.Debug("task created", "task_id", task.ID, "name", task.Name)
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, created_by, created_at, due_date, assigned_to, is_completed, is_overdue
		FROM tasks
		WHERE id = $1
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task", "error", err, "task_id", id)
		return nil, MapError(err)
	}

	return task, nil
}

// Update implements store.TaskStore.Update
// It overwrites the mutable fields (name, assignee, due date) and the
// flag columns of an existing task.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET name = $1, assigned_to = $2, due_date = $3, is_completed = $4, is_overdue = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(ctx, query,
		task.Name,
		task.AssignedTo,
		task.DueDate,
		task.IsCompleted,
		task.IsOverdue,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task", "error", err, "task_id", task.ID)
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrTaskNotFound
	}

	log.Debug("task updated", "task_id", task.ID)
	return nil
}

// Delete implements store.TaskStore.Delete
// Hard delete, no tombstone.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task", "error", err, "task_id", id)
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrTaskNotFound
	}

	log.Debug("task deleted", "task_id", id)
	return nil
}

// MarkCompleted implements store.TaskStore.MarkCompleted
// Idempotent: re-marking a completed task affects the same row again
// and reports success.
func (s *TaskStore) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `UPDATE tasks SET is_completed = TRUE WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to mark task completed", "error", err, "task_id", id)
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrTaskNotFound
	}

	log.Debug("task marked completed", "task_id", id)
	return nil
}

// ListByCreator implements store.TaskStore.ListByCreator
// Results are ordered by creation timestamp descending.
func (s *TaskStore) ListByCreator(ctx context.Context, createdBy string) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, created_by, created_at, due_date, assigned_to, is_completed, is_overdue
		FROM tasks
		WHERE created_by = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, createdBy)
	if err != nil {
		log.Error("failed to query tasks by creator", "error", err, "created_by", createdBy)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return collectTasks(rows)
}

// ListDueBefore implements store.TaskStore.ListDueBefore
// Returns tasks due before the cutoff that are not already overdue,
// restricted to tasks created after createdSince.
func (s *TaskStore) ListDueBefore(ctx context.Context, cutoff, createdSince time.Time) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, created_by, created_at, due_date, assigned_to, is_completed, is_overdue
		FROM tasks
		WHERE due_date < $1 AND created_at > $2 AND is_overdue = FALSE
	`

	rows, err := s.db.QueryContext(ctx, query, cutoff, createdSince)
	if err != nil {
		log.Error("failed to query due tasks",
			"error", err,
			"cutoff", cutoff,
			"created_since", createdSince)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return collectTasks(rows)
}

// BatchMarkOverdue implements store.TaskStore.BatchMarkOverdue
// Each task is marked individually with no internal retry; a partial
// failure is reported through *store.BatchError and the unmarked tasks
// are picked up by the next reconciler run.
func (s *TaskStore) BatchMarkOverdue(ctx context.Context, tasks []*domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		marked int
		errs   []error
	)

	for _, task := range tasks {
		log.Info("marking task as overdue", "task_id", task.ID)

		_, err := s.db.ExecContext(ctx, `UPDATE tasks SET is_overdue = TRUE WHERE id = $1`, task.ID)
		if err != nil {
			log.Error("failed to mark task overdue", "error", err, "task_id", task.ID)
			errs = append(errs, fmt.Errorf("task %s: %w", task.ID, MapError(err)))
			continue
		}
		task.IsOverdue = true
		marked++
	}

	if len(errs) > 0 {
		return &store.BatchError{
			Marked: marked,
			Total:  len(tasks),
			Err:    errors.Join(errs...),
		}
	}

	return nil
}

// rowScanner matches *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Name,
		&task.CreatedBy,
		&task.CreatedAt,
		&task.DueDate,
		&task.AssignedTo,
		&task.IsCompleted,
		&task.IsOverdue,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func collectTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}
