package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktracker-api/internal/domain"
	"github.com/phrazzld/tasktracker-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNewTask(t *testing.T, name, createdBy, assignedTo string, dueDate time.Time) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(name, createdBy, assignedTo, dueDate)
	require.NoError(t, err)
	return task
}

func TestTaskStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore()

	task := mustNewTask(t, "Ship report", "creator@mail.com", "a@x.com", time.Now().UTC().Add(24*time.Hour))
	require.NoError(t, s.Create(ctx, task))

	got, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Name, got.Name)
	assert.Equal(t, task.CreatedBy, got.CreatedBy)
	assert.Equal(t, task.AssignedTo, got.AssignedTo)
	assert.False(t, got.IsCompleted)
	assert.False(t, got.IsOverdue)

	// Mutating the returned copy must not touch stored state.
	got.Name = "changed"
	again, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ship report", again.Name)
}

func TestTaskStoreCreateValidation(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore()

	invalid := &domain.Task{ID: uuid.New(), CreatedBy: "creator@mail.com"}
	err := s.Create(ctx, invalid)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestTaskStoreGetMissing(t *testing.T) {
	s := NewTaskStore()

	_, err := s.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore()

	task := mustNewTask(t, "Ship report", "creator@mail.com", "a@x.com", time.Now().UTC().Add(24*time.Hour))
	require.NoError(t, s.Create(ctx, task))

	require.NoError(t, s.Delete(ctx, task.ID))

	_, err := s.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	assert.ErrorIs(t, s.Delete(ctx, task.ID), store.ErrTaskNotFound)
}

func TestTaskStoreMarkCompletedIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore()

	task := mustNewTask(t, "Ship report", "creator@mail.com", "a@x.com", time.Now().UTC().Add(24*time.Hour))
	require.NoError(t, s.Create(ctx, task))

	require.NoError(t, s.MarkCompleted(ctx, task.ID))
	first, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)

	// Second call is a no-op success with identical persisted state.
	require.NoError(t, s.MarkCompleted(ctx, task.ID))
	second, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, second.IsCompleted)

	assert.ErrorIs(t, s.MarkCompleted(ctx, uuid.New()), store.ErrTaskNotFound)
}

func TestTaskStoreListByCreator(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore()

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		task := mustNewTask(t, "task", "creator@mail.com", "a@x.com", base.Add(24*time.Hour))
		task.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.Create(ctx, task))
	}
	other := mustNewTask(t, "other", "someone@mail.com", "a@x.com", base.Add(24*time.Hour))
	require.NoError(t, s.Create(ctx, other))

	tasks, err := s.ListByCreator(ctx, "creator@mail.com")
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	// Ordered by creation timestamp descending.
	for i := 1; i < len(tasks); i++ {
		assert.True(t, tasks[i-1].CreatedAt.After(tasks[i].CreatedAt))
	}
}

func TestTaskStoreListDueBefore(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore()

	now := time.Now().UTC()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	overdue := mustNewTask(t, "due yesterday", "creator@mail.com", "a@x.com", now.AddDate(0, 0, -1))
	future := mustNewTask(t, "due tomorrow", "creator@mail.com", "a@x.com", now.AddDate(0, 0, 1))
	alreadyMarked := mustNewTask(t, "already overdue", "creator@mail.com", "a@x.com", now.AddDate(0, 0, -2))
	alreadyMarked.IsOverdue = true

	for _, task := range []*domain.Task{overdue, future, alreadyMarked} {
		require.NoError(t, s.Create(ctx, task))
	}

	tasks, err := s.ListDueBefore(ctx, cutoff, time.Time{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, overdue.ID, tasks[0].ID)

	// Watermark bound excludes tasks created before it.
	tasks, err = s.ListDueBefore(ctx, cutoff, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskStoreBatchMarkOverdue(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore()

	task := mustNewTask(t, "due yesterday", "creator@mail.com", "a@x.com", time.Now().UTC().AddDate(0, 0, -1))
	require.NoError(t, s.Create(ctx, task))

	require.NoError(t, s.BatchMarkOverdue(ctx, []*domain.Task{task}))

	got, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.IsOverdue)
}
