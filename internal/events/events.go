package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktracker-api/internal/domain"
)

// TypeTaskSaved identifies the lifecycle event emitted after a task is
// created or reassigned.
const TypeTaskSaved = "task.saved"

// TaskSavedEvent is the lifecycle event published to the task-saved
// topic after every create or reassignment. Delivery is at-least-once:
// consumers must tolerate redelivery. There is no ordering guarantee
// across tasks.
type TaskSavedEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is the topic-level event type, always TypeTaskSaved
	Type string `json:"type"`

	// Payload contains the saved task serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewTaskSavedEvent creates a TaskSavedEvent carrying the given task.
func NewTaskSavedEvent(task *domain.Task) (*TaskSavedEvent, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}

	return &TaskSavedEvent{
		ID:        uuid.New(),
		Type:      TypeTaskSaved,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Task decodes the event payload back into a task.
func (e *TaskSavedEvent) Task() (*domain.Task, error) {
	var task domain.Task
	if err := json.Unmarshal(e.Payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// EventHandler defines an interface for components that consume
// lifecycle events. A handler error propagates to the emitter so the
// transport can apply its own redelivery policy.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *TaskSavedEvent) error
}

// EventEmitter defines an interface for components that publish
// lifecycle events. Implementations guarantee at-least-once delivery to
// a durable topic; a publish failure must surface to the caller rather
// than silently dropping the event, since a dropped event means no
// notification, which is worse than a duplicate.
type EventEmitter interface {
	// EmitEvent publishes the given event to the task-saved topic.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *TaskSavedEvent) error
}
