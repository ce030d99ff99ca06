// Package ingest accepts task payloads arriving from external systems
// and folds them into the normal task lifecycle: each accepted payload
// becomes a regular task (lifecycle event included) and its final form
// is archived as a JSON blob for audit and replay.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktracker-api/internal/platform/blob"
	"github.com/phrazzld/tasktracker-api/internal/service"
)

// ExternalTask is the payload shape external producers submit. Any ID
// or creation timestamp the producer supplies is discarded: identity is
// always assigned here so external systems cannot forge either.
type ExternalTask struct {
	Name       string    `json:"name"`
	CreatedBy  string    `json:"created_by"`
	AssignedTo string    `json:"assigned_to"`
	DueDate    time.Time `json:"due_date"`
}

// Processor ingests external tasks.
type Processor struct {
	tasks   service.TaskService
	archive blob.ArchiveSink
	logger  *slog.Logger
}

// NewProcessor creates a Processor with the given dependencies.
func NewProcessor(tasks service.TaskService, archive blob.ArchiveSink, logger *slog.Logger) (*Processor, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task service cannot be nil")
	}
	if archive == nil {
		return nil, fmt.Errorf("archive sink cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &Processor{
		tasks:   tasks,
		archive: archive,
		logger:  logger.With(slog.String("component", "external_ingest")),
	}, nil
}

// Process creates a task from the external payload and archives the
// stored form as "{id}.json".
//
// The two writes are not atomic: an archive failure after the task was
// created surfaces as an error while the task (and its lifecycle event)
// stands. The caller's retry produces a second task rather than losing
// the payload, which is the preferred failure mode for ingest.
func (p *Processor) Process(ctx context.Context, external ExternalTask) (uuid.UUID, error) {
	p.logger.Info("processing external task", slog.String("name", external.Name))

	id, err := p.tasks.CreateTask(ctx, external.Name, external.CreatedBy, external.AssignedTo, external.DueDate)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create task from external payload: %w", err)
	}

	task, err := p.tasks.GetTask(ctx, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to load stored external task: %w", err)
	}

	payload, err := json.Marshal(task)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to serialize external task for archive: %w", err)
	}

	blobName := fmt.Sprintf("%s.json", id)
	if err := p.archive.Put(ctx, blobName, payload); err != nil {
		return uuid.Nil, fmt.Errorf("failed to archive external task: %w", err)
	}

	p.logger.Info("external task ingested",
		slog.String("task_id", id.String()),
		slog.String("blob_name", blobName))

	return id, nil
}
