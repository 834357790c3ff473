package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driving"
	"github.com/custodia-labs/refrag-cli/internal/logger"
)

// Ensure RegistryService implements the interface.
var _ driving.RegistryService = (*RegistryService)(nil)

// RegistryService manages the local registry of pushed knowledge bases.
type RegistryService struct {
	kbs      driven.KnowledgeBaseStore
	mappings driven.AssistantMappingStore
}

// NewRegistryService creates a new registry service.
func NewRegistryService(kbs driven.KnowledgeBaseStore, mappings driven.AssistantMappingStore) *RegistryService {
	return &RegistryService{kbs: kbs, mappings: mappings}
}

// List returns locally recorded knowledge bases, newest first.
func (s *RegistryService) List(ctx context.Context) ([]domain.KnowledgeBase, error) {
	return s.kbs.List(ctx)
}

// Get returns one recorded knowledge base by id.
func (s *RegistryService) Get(ctx context.Context, id string) (*domain.KnowledgeBase, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: knowledge base id is required", domain.ErrInvalidInput)
	}
	return s.kbs.Get(ctx, id)
}

// Use marks a knowledge base as the default target for questions.
func (s *RegistryService) Use(ctx context.Context, id string) error {
	if _, err := s.kbs.Get(ctx, id); err != nil {
		return err
	}
	return s.kbs.SetActive(ctx, id)
}

// Active returns the default knowledge base.
func (s *RegistryService) Active(ctx context.Context) (*domain.KnowledgeBase, error) {
	return s.kbs.Active(ctx)
}

// Forget removes a knowledge base from the local registry along with
// its assistant binding. The remote dataset is left untouched.
func (s *RegistryService) Forget(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: knowledge base id is required", domain.ErrInvalidInput)
	}
	if err := s.mappings.Unbind(ctx, id); err != nil {
		return fmt.Errorf("remove assistant binding: %w", err)
	}
	if err := s.kbs.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove knowledge base record: %w", err)
	}
	logger.Info("forgot knowledge base %s", id)
	return nil
}
