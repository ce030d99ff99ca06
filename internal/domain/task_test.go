package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	dueDate := time.Now().UTC().Add(48 * time.Hour)

	t.Run("valid task", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask("Ship report", "creator@mail.com", "a@x.com", dueDate)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, "Ship report", task.Name)
		assert.Equal(t, "creator@mail.com", task.CreatedBy)
		assert.Equal(t, "a@x.com", task.AssignedTo)
		assert.Equal(t, dueDate, task.DueDate)
		assert.False(t, task.IsCompleted)
		assert.False(t, task.IsOverdue)
		assert.WithinDuration(t, time.Now().UTC(), task.CreatedAt, 5*time.Second)
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		_, err := NewTask("", "creator@mail.com", "a@x.com", dueDate)
		assert.ErrorIs(t, err, ErrTaskNameEmpty)
	})

	t.Run("empty assignee", func(t *testing.T) {
		t.Parallel()

		_, err := NewTask("Ship report", "creator@mail.com", "", dueDate)
		assert.ErrorIs(t, err, ErrTaskAssigneeEmpty)
	})

	t.Run("zero due date", func(t *testing.T) {
		t.Parallel()

		_, err := NewTask("Ship report", "creator@mail.com", "a@x.com", time.Time{})
		assert.ErrorIs(t, err, ErrTaskDueDateZero)
	})
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()

	task, err := NewTask("Ship report", "creator@mail.com", "a@x.com", time.Now())
	require.NoError(t, err)

	task.ID = uuid.Nil
	assert.ErrorIs(t, task.Validate(), ErrTaskIDEmpty)
}

func TestTaskDueBefore(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dueDate time.Time
		want    bool
	}{
		{
			name:    "due yesterday",
			dueDate: now.AddDate(0, 0, -1),
			want:    true,
		},
		{
			name:    "due earlier today",
			dueDate: time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC),
			want:    false,
		},
		{
			name:    "due later today",
			dueDate: time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC),
			want:    false,
		},
		{
			name:    "due tomorrow",
			dueDate: now.AddDate(0, 0, 1),
			want:    false,
		},
		{
			name:    "due last month",
			dueDate: now.AddDate(0, -1, 0),
			want:    true,
		},
		{
			name:    "same calendar day in non-UTC zone",
			dueDate: time.Date(2026, 3, 15, 23, 30, 0, 0, time.FixedZone("UTC+2", 2*60*60)),
			want:    false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			task := &Task{DueDate: tt.dueDate}
			assert.Equal(t, tt.want, task.DueBefore(now))
		})
	}
}
