package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/tasktracker-api/internal/domain"
	"github.com/phrazzld/tasktracker-api/internal/events"
	"github.com/phrazzld/tasktracker-api/internal/platform/blob"
	"github.com/phrazzld/tasktracker-api/internal/platform/memory"
	"github.com/phrazzld/tasktracker-api/internal/service"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingHandler struct {
	count int
}

func (h *countingHandler) HandleEvent(ctx context.Context, event *events.TaskSavedEvent) error {
	h.count++
	return nil
}

// failingSink rejects every write.
type failingSink struct{}

func (failingSink) Put(ctx context.Context, blobName string, payload []byte) error {
	return errors.New("blob store unavailable")
}

func (failingSink) Delete(ctx context.Context, blobName string) error {
	return errors.New("blob store unavailable")
}

func newTestProcessor(t *testing.T, sink blob.ArchiveSink) (*Processor, *memory.TaskStore, *countingHandler, afero.Fs) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tasks := memory.NewTaskStore()
	emitter := events.NewInMemoryEventEmitter(log)
	handler := &countingHandler{}
	emitter.RegisterHandler(handler)

	svc, err := service.NewTaskService(tasks, emitter, log)
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	if sink == nil {
		archive, err := blob.NewFSArchive(fs, "external-tasks", log)
		require.NoError(t, err)
		sink = archive
	}

	p, err := NewProcessor(svc, sink, log)
	require.NoError(t, err)

	return p, tasks, handler, fs
}

func TestProcess(t *testing.T) {
	ctx := context.Background()
	external := ExternalTask{
		Name:       "Imported task",
		CreatedBy:  "queue@external.sys",
		AssignedTo: "a@x.com",
		DueDate:    time.Now().UTC().Add(72 * time.Hour),
	}

	t.Run("creates task, publishes event, archives blob", func(t *testing.T) {
		p, tasks, handler, fs := newTestProcessor(t, nil)

		id, err := p.Process(ctx, external)
		require.NoError(t, err)

		stored, err := tasks.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Imported task", stored.Name)
		assert.False(t, stored.CreatedAt.IsZero())

		assert.Equal(t, 1, handler.count)

		raw, err := afero.ReadFile(fs, fmt.Sprintf("external-tasks/%s.json", id))
		require.NoError(t, err)

		var archived domain.Task
		require.NoError(t, json.Unmarshal(raw, &archived))
		assert.Equal(t, id, archived.ID)
		assert.Equal(t, "a@x.com", archived.AssignedTo)
	})

	t.Run("invalid payload creates nothing", func(t *testing.T) {
		p, _, handler, _ := newTestProcessor(t, nil)

		_, err := p.Process(ctx, ExternalTask{Name: "", CreatedBy: "q", AssignedTo: "a@x.com"})
		assert.Error(t, err)
		assert.Equal(t, 0, handler.count)
	})

	t.Run("archive failure surfaces but task stands", func(t *testing.T) {
		p, tasks, handler, _ := newTestProcessor(t, failingSink{})

		_, err := p.Process(ctx, external)
		assert.ErrorContains(t, err, "failed to archive external task")

		// Task creation and its lifecycle event are not rolled back.
		assert.Equal(t, 1, handler.count)
		list, err := tasks.ListByCreator(ctx, "queue@external.sys")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}
