package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktracker-api/internal/domain"
	"github.com/phrazzld/tasktracker-api/internal/events"
	"github.com/phrazzld/tasktracker-api/internal/platform/logger"
	"github.com/phrazzld/tasktracker-api/internal/store"
)

// TaskService provides task lifecycle operations: persistence through
// the task store plus lifecycle event publication. The save always
// happens before the publish; a publish failure surfaces to the caller
// rather than being swallowed, since a dropped event means a missed
// notification.
type TaskService interface {
	// CreateTask validates, persists and announces a new task.
	// Returns the assigned task ID.
	CreateTask(ctx context.Context, name, createdBy, assignedTo string, dueDate time.Time) (uuid.UUID, error)

	// GetTask retrieves a task by ID. Returns store.ErrTaskNotFound if absent.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// UpdateTask overwrites the task's name, assignee and due date.
	// A lifecycle event is re-published only when the assignee changed,
	// so edits that keep the same assignee do not re-notify.
	UpdateTask(ctx context.Context, id uuid.UUID, name, assignedTo string, dueDate time.Time) error

	// DeleteTask hard-deletes a task.
	DeleteTask(ctx context.Context, id uuid.UUID) error

	// MarkTaskCompleted flags a task as completed. Idempotent.
	MarkTaskCompleted(ctx context.Context, id uuid.UUID) error

	// ListTasksByCreator returns the creator's tasks, newest first.
	ListTasksByCreator(ctx context.Context, createdBy string) ([]*domain.Task, error)
}

// taskService is the default TaskService implementation.
type taskService struct {
	tasks   store.TaskStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewTaskService creates a TaskService backed by the given store and
// event emitter.
func NewTaskService(tasks store.TaskStore, emitter events.EventEmitter, log *slog.Logger) (TaskService, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}
	if emitter == nil {
		return nil, fmt.Errorf("event emitter cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &taskService{
		tasks:   tasks,
		emitter: emitter,
		logger:  log.With(slog.String("component", "task_service")),
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskService) CreateTask(
	ctx context.Context,
	name, createdBy, assignedTo string,
	dueDate time.Time,
) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(name, createdBy, assignedTo, dueDate)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	log.Info("saving new task to state store", "task_id", task.ID, "name", task.Name)

	if err := s.tasks.Create(ctx, task); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := s.publishTaskSaved(ctx, task); err != nil {
		return uuid.Nil, err
	}

	return task.ID, nil
}

// GetTask implements TaskService.GetTask
func (s *taskService) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskService) UpdateTask(
	ctx context.Context,
	id uuid.UUID,
	name, assignedTo string,
	dueDate time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load task for update: %w", err)
	}

	previousAssignee := task.AssignedTo

	task.Name = name
	task.AssignedTo = assignedTo
	task.DueDate = dueDate

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	log.Info("updating task", "task_id", task.ID)

	if err := s.tasks.Update(ctx, task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	// Re-notification fires only on reassignment, not on every edit.
	if !strings.EqualFold(task.AssignedTo, previousAssignee) {
		if err := s.publishTaskSaved(ctx, task); err != nil {
			return err
		}
	}

	return nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Info("deleting task", "task_id", id)

	if err := s.tasks.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// MarkTaskCompleted implements TaskService.MarkTaskCompleted
func (s *taskService) MarkTaskCompleted(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Info("marking task as completed", "task_id", id)

	if err := s.tasks.MarkCompleted(ctx, id); err != nil {
		return fmt.Errorf("failed to mark task completed: %w", err)
	}
	return nil
}

// ListTasksByCreator implements TaskService.ListTasksByCreator
func (s *taskService) ListTasksByCreator(ctx context.Context, createdBy string) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListByCreator(ctx, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks by creator: %w", err)
	}
	return tasks, nil
}

func (s *taskService) publishTaskSaved(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Info("publishing task saved event",
		"task_id", task.ID,
		"name", task.Name,
		"assigned_to", task.AssignedTo)

	event, err := events.NewTaskSavedEvent(task)
	if err != nil {
		return fmt.Errorf("failed to build task saved event: %w", err)
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to publish task saved event: %w", err)
	}

	return nil
}
