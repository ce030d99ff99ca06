package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/tasktracker-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventHandler records the events it receives and optionally fails.
type MockEventHandler struct {
	HandledCount int
	LastEvent    *TaskSavedEvent
	HandlerError error
}

func (h *MockEventHandler) HandleEvent(ctx context.Context, event *TaskSavedEvent) error {
	h.HandledCount++
	h.LastEvent = event
	return h.HandlerError
}

func newTestEvent(t *testing.T) *TaskSavedEvent {
	t.Helper()

	task, err := domain.NewTask("Ship report", "creator@mail.com", "a@x.com", time.Now().Add(24*time.Hour))
	require.NoError(t, err)

	event, err := NewTaskSavedEvent(task)
	require.NoError(t, err)
	return event
}

func TestInMemoryEventEmitter(t *testing.T) {
	// Create a minimal logger that discards output
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		event := newTestEvent(t)

		// Should not error even with no handlers
		err := emitter.EmitEvent(context.Background(), event)
		assert.NoError(t, err)
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		handler1 := &MockEventHandler{}
		handler2 := &MockEventHandler{}

		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		event := newTestEvent(t)
		err := emitter.EmitEvent(context.Background(), event)
		assert.NoError(t, err)

		// Verify both handlers received the event
		assert.Equal(t, 1, handler1.HandledCount)
		assert.Equal(t, 1, handler2.HandledCount)
		assert.Equal(t, event, handler1.LastEvent)
		assert.Equal(t, event, handler2.LastEvent)
	})

	t.Run("emit event with failing handler", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		successHandler := &MockEventHandler{}
		failingHandler := &MockEventHandler{
			HandlerError: errors.New("handler error"),
		}

		emitter.RegisterHandler(successHandler)
		emitter.RegisterHandler(failingHandler)

		event := newTestEvent(t)

		// The failing handler's error propagates to the publisher.
		err := emitter.EmitEvent(context.Background(), event)
		assert.Error(t, err)
		assert.Equal(t, "handler error", err.Error())

		// Both handlers should still have received the event
		assert.Equal(t, 1, successHandler.HandledCount)
		assert.Equal(t, 1, failingHandler.HandledCount)
	})
}

func TestTaskSavedEventRoundTrip(t *testing.T) {
	task, err := domain.NewTask("Ship report", "creator@mail.com", "a@x.com", time.Now().UTC().Add(24*time.Hour))
	require.NoError(t, err)

	event, err := NewTaskSavedEvent(task)
	require.NoError(t, err)

	assert.Equal(t, TypeTaskSaved, event.Type)
	assert.NotZero(t, event.ID)

	decoded, err := event.Task()
	require.NoError(t, err)
	assert.Equal(t, task.ID, decoded.ID)
	assert.Equal(t, task.Name, decoded.Name)
	assert.Equal(t, task.AssignedTo, decoded.AssignedTo)
	assert.True(t, task.DueDate.Equal(decoded.DueDate))
}
