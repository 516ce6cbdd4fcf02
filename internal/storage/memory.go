// Package storage provides batch store implementations.
package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/hammamikhairi/bulkferm/internal/domain"
	"github.com/hammamikhairi/bulkferm/internal/logger"
)

// Compile-time interface check.
var _ domain.BatchStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory batch store. Safe for concurrent access.
// Batches are copied on the way in and out.
type MemoryStore struct {
	mu      sync.RWMutex
	batches map[string]*domain.Batch
	log     *logger.Logger
}

// NewMemoryStore creates an empty in-memory batch store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		batches: make(map[string]*domain.Batch),
		log:     log,
	}
}

// Save stores a batch. Overwrites if it already exists.
func (s *MemoryStore) Save(ctx context.Context, batch *domain.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving batch %s (label=%q, status=%s)", batch.ID, batch.Label, batch.Status)
	s.batches[batch.ID] = batch.Clone()
	return nil
}

// Update applies fn to a copy of the stored batch and keeps the result
// if fn succeeds. No other write can land between the read and the write.
func (s *MemoryStore) Update(ctx context.Context, id string, fn func(*domain.Batch) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	c := b.Clone()
	if err := fn(c); err != nil {
		return err
	}
	s.batches[id] = c
	s.log.Debug("updated batch %s (status=%s)", id, c.Status)
	return nil
}

// Load retrieves a batch by ID.
func (s *MemoryStore) Load(ctx context.Context, id string) (*domain.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.batches[id]
	if !ok {
		s.log.Debug("batch not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return b.Clone(), nil
}

// Delete removes a batch by ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.batches[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.batches, id)
	s.log.Debug("deleted batch %s", id)
	return nil
}

// ListActive returns fermenting and ready batches, oldest first.
func (s *MemoryStore) ListActive(ctx context.Context) ([]*domain.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Batch
	for _, b := range s.batches {
		if b.Status.Active() {
			out = append(out, b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	s.log.Debug("listing active batches, count=%d", len(out))
	return out, nil
}
