package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/tasktracker-api/internal/api/shared"
	"github.com/phrazzld/tasktracker-api/internal/platform/logger"
	"github.com/phrazzld/tasktracker-api/internal/service/reconciler"
)

// OverdueJobResponse reports the outcome of a triggered reconciliation run.
type OverdueJobResponse struct {
	Scanned   int       `json:"scanned"`
	Marked    int       `json:"marked"`
	Watermark time.Time `json:"watermark"`
}

// JobHandler exposes background jobs as HTTP trigger endpoints, the
// shape an external cron scheduler invokes.
type JobHandler struct {
	reconciler *reconciler.Reconciler
	logger     *slog.Logger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(r *reconciler.Reconciler, logger *slog.Logger) *JobHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for JobHandler")
	}

	return &JobHandler{
		reconciler: r,
		logger:     logger.With(slog.String("component", "job_handler")),
	}
}

// RunOverdueTasksJob handles POST /api/jobs/overduetasks requests. A
// watermark conflict (another run won the race) maps to 409; the caller
// can treat that as "already done".
func (h *JobHandler) RunOverdueTasksJob(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	result, err := h.reconciler.Run(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("overdue job completed",
		slog.Int("scanned", result.Scanned),
		slog.Int("marked", result.Marked))

	shared.RespondWithJSON(w, r, http.StatusOK, OverdueJobResponse{
		Scanned:   result.Scanned,
		Marked:    result.Marked,
		Watermark: result.Watermark,
	})
}
