package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskNameEmpty is returned when a task's name is empty.
	ErrTaskNameEmpty = errors.New("task name cannot be empty")

	// ErrTaskAssigneeEmpty is returned when a task's assignee is empty.
	ErrTaskAssigneeEmpty = errors.New("task assignee cannot be empty")

	// ErrTaskDueDateZero is returned when a task's due date is unset.
	ErrTaskDueDateZero = errors.New("task due date cannot be zero")
)

// Task represents a tracked unit of work with a due date and assignee.
// IsCompleted and IsOverdue are independent one-way flags: IsCompleted
// is set by MarkCompleted and IsOverdue only by the overdue reconciler.
// Neither flag is ever cleared once set.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	DueDate     time.Time `json:"due_date"`
	AssignedTo  string    `json:"assigned_to"`
	IsCompleted bool      `json:"is_completed"`
	IsOverdue   bool      `json:"is_overdue"`
}

// NewTask creates a new Task with the given name, creator, assignee and
// due date. It generates a new UUID for the task ID and sets the
// creation timestamp to the current UTC time.
// Returns an error if validation fails.
func NewTask(name, createdBy, assignedTo string, dueDate time.Time) (*Task, error) {
	task := &Task{
		ID:         uuid.New(),
		Name:       name,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now().UTC(),
		DueDate:    dueDate,
		AssignedTo: assignedTo,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.Name == "" {
		return ErrTaskNameEmpty
	}

	if t.AssignedTo == "" {
		return ErrTaskAssigneeEmpty
	}

	if t.DueDate.IsZero() {
		return ErrTaskDueDateZero
	}

	return nil
}

// DueBefore reports whether the task's due date falls on a calendar day
// strictly before the given instant's calendar day, compared in UTC.
// Tasks due on the same day are not yet overdue.
func (t *Task) DueBefore(now time.Time) bool {
	due := t.DueDate.UTC()
	ref := now.UTC()
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	return refDay.After(dueDay)
}
