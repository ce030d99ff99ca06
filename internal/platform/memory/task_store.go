package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktracker-api/internal/domain"
	"github.com/phrazzld/tasktracker-api/internal/store"
)

// TaskStore implements the store.TaskStore interface with an in-memory
// map. It backs local development mode and tests; it provides the same
// contract as the durable PostgreSQL store but nothing survives a
// restart.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*domain.Task
}

// NewTaskStore creates an empty in-memory task store.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; ok {
		return store.ErrDuplicate
	}

	s.tasks[task.ID] = copyTask(task)
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}

	return copyTask(task), nil
}

// Update implements store.TaskStore.Update
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}

	s.tasks[task.ID] = copyTask(task)
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}

	delete(s.tasks, id)
	return nil
}

// MarkCompleted implements store.TaskStore.MarkCompleted
func (s *TaskStore) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}

	task.IsCompleted = true
	return nil
}

// ListByCreator implements store.TaskStore.ListByCreator
func (s *TaskStore) ListByCreator(ctx context.Context, createdBy string) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []*domain.Task
	for _, task := range s.tasks {
		if task.CreatedBy == createdBy {
			tasks = append(tasks, copyTask(task))
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	return tasks, nil
}

// ListDueBefore implements store.TaskStore.ListDueBefore
func (s *TaskStore) ListDueBefore(ctx context.Context, cutoff, createdSince time.Time) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []*domain.Task
	for _, task := range s.tasks {
		if task.IsOverdue {
			continue
		}
		if task.DueDate.Before(cutoff) && task.CreatedAt.After(createdSince) {
			tasks = append(tasks, copyTask(task))
		}
	}

	return tasks, nil
}

// BatchMarkOverdue implements store.TaskStore.BatchMarkOverdue
func (s *TaskStore) BatchMarkOverdue(ctx context.Context, tasks []*domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, task := range tasks {
		if stored, ok := s.tasks[task.ID]; ok {
			stored.IsOverdue = true
		}
		task.IsOverdue = true
	}

	return nil
}

func copyTask(task *domain.Task) *domain.Task {
	copied := *task
	return &copied
}
