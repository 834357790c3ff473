package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driven"
)

// Ensure MappingStore implements the interface.
var _ driven.AssistantMappingStore = (*MappingStore)(nil)

// MappingStore is an in-memory implementation of driven.AssistantMappingStore
// for testing.
type MappingStore struct {
	mu       sync.RWMutex
	bindings map[string]string
}

// NewMappingStore creates a new in-memory mapping store.
func NewMappingStore() *MappingStore {
	return &MappingStore{
		bindings: make(map[string]string),
	}
}

// AssistantFor returns the assistant id bound to a dataset.
func (s *MappingStore) AssistantFor(_ context.Context, datasetID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	assistantID, ok := s.bindings[datasetID]
	if !ok {
		return "", fmt.Errorf("%w: no assistant for dataset %s", domain.ErrNotFound, datasetID)
	}
	return assistantID, nil
}

// Bind records a dataset to assistant mapping.
func (s *MappingStore) Bind(_ context.Context, datasetID, assistantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings[datasetID] = assistantID
	return nil
}

// Unbind removes the mapping for a dataset.
func (s *MappingStore) Unbind(_ context.Context, datasetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bindings, datasetID)
	return nil
}
