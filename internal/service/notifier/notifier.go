package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktracker-api/internal/domain"
	"github.com/phrazzld/tasktracker-api/internal/events"
	"github.com/phrazzld/tasktracker-api/internal/store"
)

// Notifier consumes task saved events and emails the task's assignee.
// It implements events.EventHandler.
//
// Delivery is exactly-once per distinct notification content: before
// sending, the dedup key (task ID + content hash) is checked against the
// email log, and redelivered events whose content already went out are
// acknowledged without a second send. A failed send returns an error and
// writes no log record, so the transport's redelivery retries it.
type Notifier struct {
	emailLogs store.EmailLogStore
	sender    Sender
	logger    *slog.Logger
}

// NewNotifier creates a Notifier with the given dependencies.
func NewNotifier(emailLogs store.EmailLogStore, sender Sender, logger *slog.Logger) (*Notifier, error) {
	if emailLogs == nil {
		return nil, fmt.Errorf("email log store cannot be nil")
	}
	if sender == nil {
		return nil, fmt.Errorf("sender cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &Notifier{
		emailLogs: emailLogs,
		sender:    sender,
		logger:    logger.With(slog.String("component", "notifier")),
	}, nil
}

// HandleEvent delivers the assignment notification for a saved task.
func (n *Notifier) HandleEvent(ctx context.Context, event *events.TaskSavedEvent) error {
	task, err := event.Task()
	if err != nil {
		return fmt.Errorf("failed to decode task from event: %w", err)
	}

	log := n.logger.With(
		slog.String("event_id", event.ID.String()),
		slog.String("task_id", task.ID.String()),
		slog.String("assignee", task.AssignedTo))

	content := renderContent(task)
	dedupKey := domain.EmailDedupKey(task.ID, content)

	sent, err := n.emailLogs.ExistsByDedupKey(ctx, dedupKey)
	if err != nil {
		return fmt.Errorf("failed to check notification dedup key: %w", err)
	}
	if sent {
		// Redelivered event; the notification already went out.
		log.Info("skipping duplicate notification")
		return nil
	}

	result, err := n.sender.Send(ctx, SendRequest{
		To:      task.AssignedTo,
		Subject: renderSubject(task),
		Content: content,
	})
	if err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}
	if !result.Accepted {
		return fmt.Errorf("notification email rejected with status %d", result.StatusCode)
	}

	if result.Simulated {
		// Nothing really left the building, so keep no delivery record.
		log.Info("notification simulated")
		return nil
	}

	record, err := domain.NewEmailLog(task.ID, task.AssignedTo, content)
	if err != nil {
		return fmt.Errorf("failed to build email log record: %w", err)
	}
	if err := n.emailLogs.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to record notification delivery: %w", err)
	}

	log.Info("notification delivered", slog.Int("status_code", result.StatusCode))
	return nil
}

func renderSubject(task *domain.Task) string {
	return fmt.Sprintf("Task '%s' is assigned to you!", task.Name)
}

func renderContent(task *domain.Task) string {
	return fmt.Sprintf("Task '%s' is assigned to you. Task should be completed by the end of: %s",
		task.Name, task.DueDate.Format("02/01/2006"))
}
