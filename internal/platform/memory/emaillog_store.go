package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/phrazzld/tasktracker-api/internal/domain"
	"github.com/phrazzld/tasktracker-api/internal/store"
)

// EmailLogStore implements the store.EmailLogStore interface with an
// in-memory map keyed by the log's delivery key.
type EmailLogStore struct {
	mu   sync.RWMutex
	logs map[string]*domain.EmailLog
}

// NewEmailLogStore creates an empty in-memory email log store.
func NewEmailLogStore() *EmailLogStore {
	return &EmailLogStore{
		logs: make(map[string]*domain.EmailLog),
	}
}

// Ensure EmailLogStore implements store.EmailLogStore interface
var _ store.EmailLogStore = (*EmailLogStore)(nil)

// Create implements store.EmailLogStore.Create
func (s *EmailLogStore) Create(ctx context.Context, emailLog *domain.EmailLog) error {
	if err := emailLog.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.logs[emailLog.Key]; ok {
		return store.ErrDuplicate
	}

	copied := *emailLog
	s.logs[emailLog.Key] = &copied
	return nil
}

// ExistsByDedupKey implements store.EmailLogStore.ExistsByDedupKey
func (s *EmailLogStore) ExistsByDedupKey(ctx context.Context, dedupKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, emailLog := range s.logs {
		if emailLog.DedupKey == dedupKey {
			return true, nil
		}
	}

	return false, nil
}

// Delete implements store.EmailLogStore.Delete
func (s *EmailLogStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.logs[key]; !ok {
		return store.ErrEmailLogNotFound
	}

	delete(s.logs, key)
	return nil
}

// Count returns the number of stored records. Test helper.
func (s *EmailLogStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs)
}

// All returns a snapshot of the stored records. Test helper.
func (s *EmailLogStore) All() []*domain.EmailLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := make([]*domain.EmailLog, 0, len(s.logs))
	for _, emailLog := range s.logs {
		copied := *emailLog
		logs = append(logs, &copied)
	}
	return logs
}
