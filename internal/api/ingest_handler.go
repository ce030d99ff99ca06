package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/tasktracker-api/internal/api/shared"
	"github.com/phrazzld/tasktracker-api/internal/platform/logger"
	"github.com/phrazzld/tasktracker-api/internal/service/ingest"
)

// ExternalTaskRequest is the request body submitted by external
// producers. Any identity fields they include are ignored.
type ExternalTaskRequest struct {
	Name       string    `json:"name"        validate:"required,max=200"`
	CreatedBy  string    `json:"created_by"  validate:"required"`
	AssignedTo string    `json:"assigned_to" validate:"required"`
	DueDate    time.Time `json:"due_date"    validate:"required"`
}

// ExternalTaskResponse returns the identity assigned to an ingested task.
type ExternalTaskResponse struct {
	ID string `json:"id"`
}

// IngestHandler handles external task submissions.
type IngestHandler struct {
	processor *ingest.Processor
	logger    *slog.Logger
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(processor *ingest.Processor, logger *slog.Logger) *IngestHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for IngestHandler")
	}

	return &IngestHandler{
		processor: processor,
		logger:    logger.With(slog.String("component", "ingest_handler")),
	}
}

// ProcessExternalTask handles POST /api/externaltasks requests.
func (h *IngestHandler) ProcessExternalTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ExternalTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("failed to decode external task request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	id, err := h.processor.Process(r.Context(), ingest.ExternalTask{
		Name:       req.Name,
		CreatedBy:  req.CreatedBy,
		AssignedTo: req.AssignedTo,
		DueDate:    req.DueDate,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to process external task", err)
		return
	}

	log.Info("external task accepted", slog.String("task_id", id.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, ExternalTaskResponse{ID: id.String()})
}
