package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailLog(t *testing.T) {
	t.Parallel()

	taskID := uuid.New()

	t.Run("valid log", func(t *testing.T) {
		t.Parallel()

		log, err := NewEmailLog(taskID, "a@x.com", "Task 'Ship report' is assigned to you.")
		require.NoError(t, err)

		assert.Equal(t, taskID, log.TaskID)
		assert.Equal(t, "a@x.com", log.EmailTo)
		assert.True(t, strings.HasSuffix(log.Key, "_a@x.com"))
		assert.NotEmpty(t, log.DedupKey)
		assert.False(t, log.CreatedAt.IsZero())
	})

	t.Run("keys are collision-free across attempts", func(t *testing.T) {
		t.Parallel()

		first, err := NewEmailLog(taskID, "a@x.com", "same content")
		require.NoError(t, err)
		second, err := NewEmailLog(taskID, "a@x.com", "same content")
		require.NoError(t, err)

		assert.NotEqual(t, first.Key, second.Key)
		// Identical task and content still share a dedup key.
		assert.Equal(t, first.DedupKey, second.DedupKey)
	})

	t.Run("empty recipient", func(t *testing.T) {
		t.Parallel()

		_, err := NewEmailLog(taskID, "", "content")
		assert.ErrorIs(t, err, ErrEmailLogRecipientEmpty)
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()

		_, err := NewEmailLog(taskID, "a@x.com", "")
		assert.ErrorIs(t, err, ErrEmailLogContentEmpty)
	})
}

func TestEmailDedupKey(t *testing.T) {
	t.Parallel()

	taskID := uuid.New()

	same := EmailDedupKey(taskID, "body")
	assert.Equal(t, same, EmailDedupKey(taskID, "body"))
	assert.NotEqual(t, same, EmailDedupKey(taskID, "other body"))
	assert.NotEqual(t, same, EmailDedupKey(uuid.New(), "body"))
}
