package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktracker-api/internal/domain"
	"github.com/phrazzld/tasktracker-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailLogStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create and dedup lookup", func(t *testing.T) {
		s := NewEmailLogStore()

		emailLog, err := domain.NewEmailLog(uuid.New(), "a@x.com", "Task 'Ship report' is assigned to you.")
		require.NoError(t, err)

		exists, err := s.ExistsByDedupKey(ctx, emailLog.DedupKey)
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, s.Create(ctx, emailLog))

		exists, err = s.ExistsByDedupKey(ctx, emailLog.DedupKey)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, 1, s.Count())
	})

	t.Run("duplicate key rejected", func(t *testing.T) {
		s := NewEmailLogStore()

		emailLog, err := domain.NewEmailLog(uuid.New(), "a@x.com", "content")
		require.NoError(t, err)

		require.NoError(t, s.Create(ctx, emailLog))
		assert.ErrorIs(t, s.Create(ctx, emailLog), store.ErrDuplicate)
	})

	t.Run("write then delete round-trip", func(t *testing.T) {
		s := NewEmailLogStore()

		emailLog, err := domain.NewEmailLog(uuid.New(), "probe@mail.com", "readiness probe test")
		require.NoError(t, err)

		require.NoError(t, s.Create(ctx, emailLog))
		require.NoError(t, s.Delete(ctx, emailLog.Key))
		assert.Equal(t, 0, s.Count())

		assert.ErrorIs(t, s.Delete(ctx, emailLog.Key), store.ErrEmailLogNotFound)
	})
}
