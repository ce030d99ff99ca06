package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"github.com/phrazzld/tasktracker-api/internal/config"
	"github.com/phrazzld/tasktracker-api/internal/events"
	"github.com/phrazzld/tasktracker-api/internal/platform/blob"
	"github.com/phrazzld/tasktracker-api/internal/platform/memory"
	"github.com/phrazzld/tasktracker-api/internal/platform/postgres"
	"github.com/phrazzld/tasktracker-api/internal/service"
	"github.com/phrazzld/tasktracker-api/internal/service/ingest"
	"github.com/phrazzld/tasktracker-api/internal/service/notifier"
	"github.com/phrazzld/tasktracker-api/internal/service/reconciler"
	"github.com/phrazzld/tasktracker-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB // nil when running on in-memory stores

	// Stores
	taskStore      store.TaskStore
	watermarkStore store.WatermarkStore
	emailLogStore  store.EmailLogStore

	// Infrastructure
	archive      blob.ArchiveSink
	eventEmitter events.EventEmitter

	// Services
	taskService service.TaskService
	processor   *ingest.Processor
	reconciler  *reconciler.Reconciler
	scheduler   *reconciler.Scheduler
}

// newApplication creates an application with all dependencies wired.
// A configured database URL selects the Postgres stores; an empty one
// selects the in-memory stores.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	if err := app.setupStores(); err != nil {
		return nil, err
	}

	archiveDir := cfg.Archive.Dir
	if archiveDir == "" {
		archiveDir = "external-tasks"
	}
	archive, err := blob.NewFSArchive(afero.NewOsFs(), archiveDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize archive sink: %w", err)
	}
	app.archive = archive

	emitter := events.NewInMemoryEventEmitter(logger)
	app.eventEmitter = emitter

	sender, err := setupSender(cfg.Notifier, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize notification sender: %w", err)
	}

	taskNotifier, err := notifier.NewNotifier(app.emailLogStore, sender, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create notifier: %w", err)
	}
	emitter.RegisterHandler(taskNotifier)

	app.taskService, err = service.NewTaskService(app.taskStore, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.processor, err = ingest.NewProcessor(app.taskService, app.archive, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingest processor: %w", err)
	}

	app.reconciler, err = reconciler.New(app.taskStore, app.watermarkStore, cfg.Reconciler.WatermarkScope, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create reconciler: %w", err)
	}

	if cfg.Reconciler.IntervalMinutes > 0 {
		interval := time.Duration(cfg.Reconciler.IntervalMinutes) * time.Minute
		app.scheduler = reconciler.NewScheduler(app.reconciler, interval, logger)
		app.scheduler.Start()
	}

	logger.Info("Application initialized successfully",
		"store", storeKind(cfg),
		"notifier_provider", cfg.Notifier.Provider,
		"reconciler_interval_minutes", cfg.Reconciler.IntervalMinutes)
	return app, nil
}

// setupStores selects and initializes the persistence layer.
func (app *application) setupStores() error {
	if app.config.Database.URL == "" {
		app.logger.Warn("no database URL configured, using in-memory stores")
		app.taskStore = memory.NewTaskStore()
		app.watermarkStore = memory.NewWatermarkStore()
		app.emailLogStore = memory.NewEmailLogStore()
		return nil
	}

	db, err := setupDatabase(app.config.Database.URL, app.logger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	app.db = db

	if err := runMigrations(db, app.logger); err != nil {
		return err
	}

	app.taskStore = postgres.NewTaskStore(db, app.logger)
	app.watermarkStore = postgres.NewWatermarkStore(db, app.logger)
	app.emailLogStore = postgres.NewEmailLogStore(db, app.logger)
	return nil
}

// setupSender builds the configured delivery strategy.
func setupSender(cfg config.NotifierConfig, logger *slog.Logger) (notifier.Sender, error) {
	switch cfg.Provider {
	case "sendgrid":
		return notifier.NewSendGridSender(cfg.SendGridAPIKey, cfg.FromAddress, cfg.FromName, logger)
	case "simulated":
		delay := time.Duration(cfg.SimulatedDelayMs) * time.Millisecond
		return notifier.NewSimulatedSender(delay, logger), nil
	default:
		return nil, fmt.Errorf("unknown notifier provider %q", cfg.Provider)
	}
}

func storeKind(cfg *config.Config) string {
	if cfg.Database.URL == "" {
		return "memory"
	}
	return "postgres"
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
