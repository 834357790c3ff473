package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driven"
)

// Ensure KnowledgeBaseStore implements the interface.
var _ driven.KnowledgeBaseStore = (*KnowledgeBaseStore)(nil)

// KnowledgeBaseStore is an in-memory implementation of
// driven.KnowledgeBaseStore for testing.
type KnowledgeBaseStore struct {
	mu     sync.RWMutex
	bases  map[string]domain.KnowledgeBase
	active string
}

// NewKnowledgeBaseStore creates a new in-memory knowledge base store.
func NewKnowledgeBaseStore() *KnowledgeBaseStore {
	return &KnowledgeBaseStore{
		bases: make(map[string]domain.KnowledgeBase),
	}
}

// Save records a knowledge base, replacing any entry with the same id.
func (s *KnowledgeBaseStore) Save(_ context.Context, kb domain.KnowledgeBase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bases[kb.ID] = kb
	return nil
}

// Get returns a knowledge base by id.
func (s *KnowledgeBaseStore) Get(_ context.Context, id string) (*domain.KnowledgeBase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kb, ok := s.bases[id]
	if !ok {
		return nil, fmt.Errorf("%w: knowledge base %s", domain.ErrNotFound, id)
	}
	return &kb, nil
}

// List returns all recorded knowledge bases, newest first.
func (s *KnowledgeBaseStore) List(_ context.Context) ([]domain.KnowledgeBase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.KnowledgeBase, 0, len(s.bases))
	for _, kb := range s.bases {
		out = append(out, kb)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a knowledge base record.
func (s *KnowledgeBaseStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bases, id)
	if s.active == id {
		s.active = ""
	}
	return nil
}

// SetActive marks the knowledge base questions default to.
func (s *KnowledgeBaseStore) SetActive(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bases[id]; !ok {
		return fmt.Errorf("%w: knowledge base %s", domain.ErrNotFound, id)
	}
	s.active = id
	return nil
}

// Active returns the default knowledge base.
func (s *KnowledgeBaseStore) Active(_ context.Context) (*domain.KnowledgeBase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == "" {
		return nil, fmt.Errorf("%w: no active knowledge base", domain.ErrNotFound)
	}
	kb := s.bases[s.active]
	return &kb, nil
}
