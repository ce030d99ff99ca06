package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EmailLog-specific validation errors
var (
	// ErrEmailLogRecipientEmpty is returned when a log's recipient is empty.
	ErrEmailLogRecipientEmpty = errors.New("email log recipient cannot be empty")

	// ErrEmailLogContentEmpty is returned when a log's content is empty.
	ErrEmailLogContentEmpty = errors.New("email log content cannot be empty")
)

// EmailLog is an immutable audit record of one attempted notification
// delivery. Records are only ever created, never updated; the random
// component in Key makes every delivery attempt collision-free.
type EmailLog struct {
	Key       string    `json:"key"`
	TaskID    uuid.UUID `json:"task_id"`
	EmailTo   string    `json:"email_to"`
	Content   string    `json:"content"`
	DedupKey  string    `json:"dedup_key"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEmailLog creates an EmailLog for a delivery of content to the given
// recipient on behalf of a task. The key is `{random-id}_{recipient}`
// and the dedup key is derived from the task ID and the content hash,
// so a redelivered event with identical content maps to the same
// dedup key.
func NewEmailLog(taskID uuid.UUID, emailTo, content string) (*EmailLog, error) {
	log := &EmailLog{
		Key:       fmt.Sprintf("%s_%s", uuid.New(), emailTo),
		TaskID:    taskID,
		EmailTo:   emailTo,
		Content:   content,
		DedupKey:  EmailDedupKey(taskID, content),
		CreatedAt: time.Now().UTC(),
	}

	if err := log.Validate(); err != nil {
		return nil, err
	}

	return log, nil
}

// Validate checks if the EmailLog has valid data.
func (l *EmailLog) Validate() error {
	if l.EmailTo == "" {
		return ErrEmailLogRecipientEmpty
	}

	if l.Content == "" {
		return ErrEmailLogContentEmpty
	}

	return nil
}

// EmailDedupKey derives the idempotency key for a notification: the task
// ID joined with a SHA-256 hash of the rendered content. Two deliveries
// of the same content for the same task share a dedup key regardless of
// how often the underlying event is redelivered.
func EmailDedupKey(taskID uuid.UUID, content string) string {
	sum := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%s_%s", taskID, hex.EncodeToString(sum[:]))
}
