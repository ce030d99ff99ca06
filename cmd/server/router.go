package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasktracker-api/internal/api"
	apiMiddleware "github.com/phrazzld/tasktracker-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	jobHandler := api.NewJobHandler(app.reconciler, app.logger)
	ingestHandler := api.NewIngestHandler(app.processor, app.logger)
	healthHandler := api.NewHealthHandler(app.emailLogStore, app.archive, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", taskHandler.CreateTask)
			r.Get("/", taskHandler.ListTasks)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.GetTask)
				r.Put("/", taskHandler.UpdateTask)
				r.Delete("/", taskHandler.DeleteTask)
				r.Put("/markcomplete", taskHandler.MarkTaskCompleted)
			})
		})

		// Trigger endpoint for an external cron scheduler.
		r.Post("/jobs/overduetasks", jobHandler.RunOverdueTasksJob)

		r.Post("/externaltasks", ingestHandler.ProcessExternalTask)

		r.Get("/health/readiness", healthHandler.Readiness)
	})

	r.Get("/healthz", healthHandler.Liveness)

	return r
}
