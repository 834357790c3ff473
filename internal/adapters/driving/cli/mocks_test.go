package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driving"
)

// mockIngestService implements driving.IngestService for testing.
type mockIngestService struct {
	pushID    string
	pushErr   error
	status    *domain.KnowledgeBaseStatus
	statusErr error
	watchErr  error
	watched   []domain.KnowledgeBaseStatus
	remote    []domain.KnowledgeBase

	lastLabel string
	lastFiles []domain.FileDescriptor
}

func (m *mockIngestService) Push(_ context.Context, files []domain.FileDescriptor, label string) (string, error) {
	m.lastFiles = files
	m.lastLabel = label
	return m.pushID, m.pushErr
}

func (m *mockIngestService) Status(_ context.Context, _ string) (*domain.KnowledgeBaseStatus, error) {
	return m.status, m.statusErr
}

func (m *mockIngestService) Watch(_ context.Context, _ string) (<-chan domain.KnowledgeBaseStatus, error) {
	if m.watchErr != nil {
		return nil, m.watchErr
	}
	ch := make(chan domain.KnowledgeBaseStatus, len(m.watched))
	for _, s := range m.watched {
		ch <- s
	}
	close(ch)
	return ch, nil
}

func (m *mockIngestService) ListRemote(_ context.Context) ([]domain.KnowledgeBase, error) {
	return m.remote, nil
}

// mockQAService implements driving.QAService for testing.
type mockQAService struct {
	answer *domain.Answer
	err    error

	lastDatasetID string
	lastQuestion  string
}

func (m *mockQAService) Ask(_ context.Context, datasetID, question string, _ driving.ParamsProvider) (*domain.Answer, error) {
	m.lastDatasetID = datasetID
	m.lastQuestion = question
	return m.answer, m.err
}

// mockAssistantManager implements driving.AssistantManager for testing.
type mockAssistantManager struct {
	assistantID  string
	assistantErr error
	updateErr    error
	resetErr     error

	lastParams     domain.GenerationParams
	resetCalled    bool
	updatedCalled  bool
	resolvedCalled bool
}

func (m *mockAssistantManager) ResolveAssistant(_ context.Context, _ string, _ driving.ParamsProvider) (string, error) {
	m.resolvedCalled = true
	return m.assistantID, m.assistantErr
}

func (m *mockAssistantManager) AssistantFor(_ context.Context, _ string) (string, error) {
	return m.assistantID, m.assistantErr
}

func (m *mockAssistantManager) ResolveSession(_ context.Context, _ string) (string, error) {
	return "", errors.New("not implemented")
}

func (m *mockAssistantManager) UpdateParams(_ context.Context, _ string, params domain.GenerationParams) error {
	m.updatedCalled = true
	m.lastParams = params
	return m.updateErr
}

func (m *mockAssistantManager) ResetSession(_ context.Context, _ string) error {
	m.resetCalled = true
	return m.resetErr
}

// mockHistoryService implements driving.HistoryService for testing.
type mockHistoryService struct {
	entries     []domain.HistoryEntry
	listErr     error
	clearErr    error
	clearCalled bool
}

func (m *mockHistoryService) List(_ context.Context) ([]domain.HistoryEntry, error) {
	return m.entries, m.listErr
}

func (m *mockHistoryService) Clear(_ context.Context) error {
	m.clearCalled = true
	return m.clearErr
}

// mockRegistryService implements driving.RegistryService for testing.
type mockRegistryService struct {
	bases     []domain.KnowledgeBase
	active    *domain.KnowledgeBase
	activeErr error
	useErr    error
	forgetErr error

	usedID      string
	forgottenID string
}

func (m *mockRegistryService) List(_ context.Context) ([]domain.KnowledgeBase, error) {
	return m.bases, nil
}

func (m *mockRegistryService) Get(_ context.Context, id string) (*domain.KnowledgeBase, error) {
	for i := range m.bases {
		if m.bases[i].ID == id {
			return &m.bases[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRegistryService) Use(_ context.Context, id string) error {
	m.usedID = id
	return m.useErr
}

func (m *mockRegistryService) Active(_ context.Context) (*domain.KnowledgeBase, error) {
	if m.activeErr != nil {
		return nil, m.activeErr
	}
	if m.active == nil {
		return nil, domain.ErrNotFound
	}
	return m.active, nil
}

func (m *mockRegistryService) Forget(_ context.Context, id string) error {
	m.forgottenID = id
	return m.forgetErr
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings    domain.AppSettings
	getErr      error
	validateErr error

	savedParams domain.GenerationParams
	savedURL    string
	savedKey    string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetConnection(apiURL, apiKey string) error {
	m.savedURL = apiURL
	m.savedKey = apiKey
	return nil
}

func (m *mockSettingsService) SetGenerationParams(params domain.GenerationParams) error {
	m.savedParams = params
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// mockLibrarySource implements driven.LibrarySource for testing.
type mockLibrarySource struct {
	files      []domain.FileDescriptor
	collectErr error
}

func (m *mockLibrarySource) Collect(_ context.Context, _ string) ([]domain.FileDescriptor, error) {
	return m.files, m.collectErr
}

func (m *mockLibrarySource) Watch(_ context.Context, _ string) (<-chan string, error) {
	ch := make(chan string)
	close(ch)
	return ch, nil
}
