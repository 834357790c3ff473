package services

import (
	"context"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService exposes the answered-question log.
type HistoryService struct {
	store driven.HistoryStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// List returns retained history entries, newest first.
func (s *HistoryService) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	return s.store.List(ctx)
}

// Clear removes all retained entries.
func (s *HistoryService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
