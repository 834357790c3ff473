package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore
// for testing.
type HistoryStore struct {
	mu      sync.RWMutex
	cap     int
	entries []domain.HistoryEntry
}

// NewHistoryStore creates a new in-memory history store.
// A non-positive cap falls back to domain.HistoryCap.
func NewHistoryStore(cap int) *HistoryStore {
	if cap <= 0 {
		cap = domain.HistoryCap
	}
	return &HistoryStore{cap: cap}
}

// Append prepends an entry and evicts the oldest beyond the cap.
func (s *HistoryStore) Append(_ context.Context, entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]domain.HistoryEntry{entry}, s.entries...)
	if len(s.entries) > s.cap {
		s.entries = s.entries[:s.cap]
	}
	return nil
}

// List returns all retained entries, newest first.
func (s *HistoryStore) List(_ context.Context) ([]domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Clear removes every retained entry.
func (s *HistoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}
