package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/tasktracker-api/internal/store"
)

// Scheduler triggers reconciliation runs on a fixed interval, standing
// in for an external cron trigger. The HTTP trigger endpoint remains
// usable alongside it; overlapping runs are resolved by the watermark's
// compare-and-swap.
type Scheduler struct {
	reconciler *Reconciler
	interval   time.Duration
	logger     *slog.Logger

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewScheduler creates a Scheduler that runs the reconciler every interval.
func NewScheduler(reconciler *Reconciler, interval time.Duration, logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		reconciler: reconciler,
		interval:   interval,
		logger:     logger.With(slog.String("component", "reconciler_scheduler")),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches the background loop. The first run happens after one
// full interval, not immediately.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.loop()

	s.logger.Info("reconciler scheduler started",
		slog.Duration("interval", s.interval))
}

// Stop cancels the loop and waits for any in-flight run to finish.
func (s *Scheduler) Stop() {
	s.cancelFunc()
	s.wg.Wait()
	s.logger.Info("reconciler scheduler stopped")
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			result, err := s.reconciler.Run(s.ctx)
			switch {
			case errors.Is(err, store.ErrWatermarkConflict):
				// Another instance covered this window.
				s.logger.Info("scheduled run skipped, watermark already advanced")
			case err != nil:
				s.logger.Error("scheduled reconciliation failed",
					slog.String("error", err.Error()))
			default:
				s.logger.Debug("scheduled reconciliation finished",
					slog.Int("marked", result.Marked))
			}
		}
	}
}
