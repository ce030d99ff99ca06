package memory

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/tasktracker-api/internal/domain"
	"github.com/phrazzld/tasktracker-api/internal/store"
)

// WatermarkStore implements the store.WatermarkStore interface with an
// in-memory map, preserving the compare-and-swap semantics of the
// durable implementation.
type WatermarkStore struct {
	mu         sync.Mutex
	watermarks map[string]*domain.Watermark
}

// NewWatermarkStore creates an empty in-memory watermark store.
func NewWatermarkStore() *WatermarkStore {
	return &WatermarkStore{
		watermarks: make(map[string]*domain.Watermark),
	}
}

// Ensure WatermarkStore implements store.WatermarkStore interface
var _ store.WatermarkStore = (*WatermarkStore)(nil)

// Get implements store.WatermarkStore.Get
func (s *WatermarkStore) Get(ctx context.Context, scope string) (*domain.Watermark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wm, ok := s.watermarks[scope]
	if !ok {
		return nil, store.ErrWatermarkNotFound
	}

	copied := *wm
	return &copied, nil
}

// Advance implements store.WatermarkStore.Advance
func (s *WatermarkStore) Advance(ctx context.Context, scope string, next time.Time, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wm, ok := s.watermarks[scope]
	if !ok {
		if expectedVersion != 0 {
			return store.ErrWatermarkConflict
		}
		s.watermarks[scope] = &domain.Watermark{Scope: scope, Value: next, Version: 1}
		return nil
	}

	if wm.Version != expectedVersion || next.Before(wm.Value) {
		return store.ErrWatermarkConflict
	}

	wm.Value = next
	wm.Version++
	return nil
}
