package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktracker-api/internal/api/shared"
	"github.com/phrazzld/tasktracker-api/internal/domain"
	"github.com/phrazzld/tasktracker-api/internal/platform/blob"
	"github.com/phrazzld/tasktracker-api/internal/platform/logger"
	"github.com/phrazzld/tasktracker-api/internal/store"
)

// HealthResponse is the body returned by the health endpoints.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthHandler implements liveness and readiness probes. Readiness
// exercises real round-trips against the dependencies the notification
// and ingest paths need, not just a ping.
type HealthHandler struct {
	emailLogs store.EmailLogStore
	archive   blob.ArchiveSink
	logger    *slog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(emailLogs store.EmailLogStore, archive blob.ArchiveSink, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for HealthHandler")
	}

	return &HealthHandler{
		emailLogs: emailLogs,
		archive:   archive,
		logger:    logger.With(slog.String("component", "health_handler")),
	}
}

// Liveness handles GET /healthz requests. It reports only that the
// process is serving.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readiness handles GET /api/health/readiness requests by performing a
// write-then-delete round-trip against the email log store and the
// archive sink. Any failure returns 503.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if err := h.probeEmailLogs(r); err != nil {
		log.Error("readiness probe failed on email log store", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Email log store unavailable", err)
		return
	}

	if err := h.probeArchive(r); err != nil {
		log.Error("readiness probe failed on archive sink", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Archive store unavailable", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ready"})
}

func (h *HealthHandler) probeEmailLogs(r *http.Request) error {
	probe, err := domain.NewEmailLog(uuid.New(), "readiness@probe.internal", "readiness probe")
	if err != nil {
		return fmt.Errorf("failed to build probe record: %w", err)
	}

	if err := h.emailLogs.Create(r.Context(), probe); err != nil {
		return fmt.Errorf("probe write failed: %w", err)
	}
	if err := h.emailLogs.Delete(r.Context(), probe.Key); err != nil {
		return fmt.Errorf("probe delete failed: %w", err)
	}
	return nil
}

func (h *HealthHandler) probeArchive(r *http.Request) error {
	blobName := fmt.Sprintf("readiness-%s.probe", uuid.New())

	if err := h.archive.Put(r.Context(), blobName, []byte("readiness probe")); err != nil {
		return fmt.Errorf("probe write failed: %w", err)
	}
	if err := h.archive.Delete(r.Context(), blobName); err != nil {
		return fmt.Errorf("probe delete failed: %w", err)
	}
	return nil
}
