// Package reconciler sweeps incomplete tasks whose due date has passed
// and marks them overdue. Each run scans forward from a persisted
// watermark, so tasks reconciled by an earlier run are not rescanned.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasktracker-api/internal/domain"
	"github.com/phrazzld/tasktracker-api/internal/store"
)

// Result summarizes one reconciliation run.
type Result struct {
	// Scanned is the number of candidate tasks the watermark query returned.
	Scanned int

	// Marked is the number of tasks flagged overdue this run.
	Marked int

	// Watermark is the new cursor value after a successful run.
	Watermark time.Time
}

// Reconciler performs the overdue sweep. Safe for concurrent use: the
// watermark's compare-and-swap means overlapping runs cannot both
// advance the cursor, and marking a task overdue is idempotent.
type Reconciler struct {
	tasks      store.TaskStore
	watermarks store.WatermarkStore
	scope      string
	logger     *slog.Logger

	// now is a hook for tests; defaults to time.Now.
	now func() time.Time
}

// New creates a Reconciler scoped to the given watermark. An empty scope
// falls back to domain.DefaultWatermarkScope.
func New(tasks store.TaskStore, watermarks store.WatermarkStore, scope string, logger *slog.Logger) (*Reconciler, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}
	if watermarks == nil {
		return nil, fmt.Errorf("watermark store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if scope == "" {
		scope = domain.DefaultWatermarkScope
	}

	return &Reconciler{
		tasks:      tasks,
		watermarks: watermarks,
		scope:      scope,
		logger:     logger.With(slog.String("component", "reconciler")),
		now:        time.Now,
	}, nil
}

// Run executes one reconciliation pass.
//
// The watermark advances only after every due task found this run has
// been marked. On any fetch or mark failure the run aborts with the
// cursor untouched, so the next run re-scans the same window. A
// store.ErrWatermarkConflict means a concurrent run already covered
// this window; callers may treat it as a benign skip.
func (r *Reconciler) Run(ctx context.Context) (*Result, error) {
	runAt := r.now().UTC()

	wm, err := r.watermarks.Get(ctx, r.scope)
	if errors.Is(err, store.ErrWatermarkNotFound) {
		// First ever run: scan everything.
		wm = &domain.Watermark{Scope: r.scope}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read watermark: %w", err)
	}

	log := r.logger.With(
		slog.String("scope", r.scope),
		slog.Time("run_at", runAt),
		slog.Time("watermark", wm.Value))
	log.Info("overdue reconciliation started")

	// A task is overdue once the current calendar day is past its due
	// day, so any candidate is due strictly before today's midnight.
	cutoff := startOfDay(runAt)

	candidates, err := r.tasks.ListDueBefore(ctx, cutoff, wm.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}

	overdue := make([]*domain.Task, 0, len(candidates))
	for _, task := range candidates {
		// Completion does not exempt a task; completed and overdue are
		// independent flags.
		if task.DueBefore(runAt) {
			overdue = append(overdue, task)
		}
	}

	if len(overdue) > 0 {
		if err := r.tasks.BatchMarkOverdue(ctx, overdue); err != nil {
			// Leave the watermark where it is so the unmarked tasks are
			// picked up again next run.
			return nil, fmt.Errorf("failed to mark overdue tasks: %w", err)
		}
	}

	if err := r.watermarks.Advance(ctx, r.scope, runAt, wm.Version); err != nil {
		if errors.Is(err, store.ErrWatermarkConflict) {
			log.Warn("watermark advanced by a concurrent run")
		}
		return nil, fmt.Errorf("failed to advance watermark: %w", err)
	}

	log.Info("overdue reconciliation finished",
		slog.Int("scanned", len(candidates)),
		slog.Int("marked", len(overdue)))

	return &Result{
		Scanned:   len(candidates),
		Marked:    len(overdue),
		Watermark: runAt,
	}, nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
