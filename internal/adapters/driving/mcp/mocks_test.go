package mcp

import (
	"context"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driving"
)

// mockQAService is a mock implementation of driving.QAService.
type mockQAService struct {
	answer    *domain.Answer
	err       error
	lastAsked string
	lastKB    string
}

func (m *mockQAService) Ask(_ context.Context, datasetID, question string, _ driving.ParamsProvider) (*domain.Answer, error) {
	m.lastKB = datasetID
	m.lastAsked = question
	return m.answer, m.err
}

// mockRegistryService is a mock implementation of driving.RegistryService.
type mockRegistryService struct {
	bases  []domain.KnowledgeBase
	active *domain.KnowledgeBase
	err    error
}

func (m *mockRegistryService) List(_ context.Context) ([]domain.KnowledgeBase, error) {
	return m.bases, m.err
}

func (m *mockRegistryService) Get(_ context.Context, id string) (*domain.KnowledgeBase, error) {
	for i := range m.bases {
		if m.bases[i].ID == id {
			return &m.bases[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRegistryService) Use(_ context.Context, _ string) error {
	return m.err
}

func (m *mockRegistryService) Active(_ context.Context) (*domain.KnowledgeBase, error) {
	if m.active == nil {
		return nil, domain.ErrNotFound
	}
	return m.active, nil
}

func (m *mockRegistryService) Forget(_ context.Context, _ string) error {
	return m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	entries []domain.HistoryEntry
	err     error
}

func (m *mockHistoryService) List(_ context.Context) ([]domain.HistoryEntry, error) {
	return m.entries, m.err
}

func (m *mockHistoryService) Clear(_ context.Context) error {
	return m.err
}
