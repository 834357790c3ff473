package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driving"
	"github.com/custodia-labs/refrag-cli/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.AssistantManager = (*AssistantService)(nil)

// AssistantService resolves the assistant and session backing each
// knowledge base, creating them on first use and reusing them afterwards.
type AssistantService struct {
	client   driven.RAGClient
	mappings driven.AssistantMappingStore
	sessions driven.SessionStore
	kbs      driven.KnowledgeBaseStore
}

// NewAssistantService creates a new assistant service.
func NewAssistantService(client driven.RAGClient, mappings driven.AssistantMappingStore, sessions driven.SessionStore, kbs driven.KnowledgeBaseStore) *AssistantService {
	return &AssistantService{
		client:   client,
		mappings: mappings,
		sessions: sessions,
		kbs:      kbs,
	}
}

// ResolveAssistant returns the assistant bound to a dataset, creating
// and recording one when no binding exists.
func (s *AssistantService) ResolveAssistant(ctx context.Context, datasetID string, params driving.ParamsProvider) (string, error) {
	if datasetID == "" {
		return "", fmt.Errorf("%w: dataset id is required", domain.ErrInvalidInput)
	}

	assistantID, err := s.mappings.AssistantFor(ctx, datasetID)
	if err == nil {
		logger.Debug("reusing assistant %s for knowledge base %s", assistantID, datasetID)
		return assistantID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("look up assistant binding: %w", err)
	}

	// First question against this knowledge base: collect generation
	// parameters, then create and bind a fresh assistant.
	genParams := domain.DefaultGenerationParams()
	if params != nil {
		genParams, err = params()
		if err != nil {
			return "", fmt.Errorf("collect generation parameters: %w", err)
		}
	}
	genParams = genParams.Normalise()

	assistantID, err = s.client.CreateAssistant(ctx, datasetID, s.assistantName(ctx, datasetID), genParams)
	if err != nil {
		return "", fmt.Errorf("create assistant: %w", err)
	}
	if err := s.mappings.Bind(ctx, datasetID, assistantID); err != nil {
		return "", fmt.Errorf("record assistant binding: %w", err)
	}
	logger.Info("created assistant %s for knowledge base %s", assistantID, datasetID)
	return assistantID, nil
}

// AssistantFor returns the existing binding for a dataset without
// creating anything.
func (s *AssistantService) AssistantFor(ctx context.Context, datasetID string) (string, error) {
	if datasetID == "" {
		return "", fmt.Errorf("%w: dataset id is required", domain.ErrInvalidInput)
	}
	return s.mappings.AssistantFor(ctx, datasetID)
}

// ResolveSession returns the active session for an assistant, opening
// and recording one when none is active.
func (s *AssistantService) ResolveSession(ctx context.Context, assistantID string) (string, error) {
	if assistantID == "" {
		return "", fmt.Errorf("%w: assistant id is required", domain.ErrInvalidInput)
	}

	sessionID, err := s.sessions.ActiveSession(ctx, assistantID)
	if err == nil {
		logger.Debug("reusing session %s", sessionID)
		return sessionID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("look up active session: %w", err)
	}

	name := "refrag-" + time.Now().Format("2006-01-02")
	sessionID, err = s.client.CreateSession(ctx, assistantID, name)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	session := domain.Session{
		ID:          sessionID,
		AssistantID: assistantID,
		Name:        name,
		CreatedAt:   time.Now(),
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return "", fmt.Errorf("record session: %w", err)
	}
	logger.Info("opened session %s", sessionID)
	return sessionID, nil
}

// UpdateParams pushes new generation parameters to an assistant.
func (s *AssistantService) UpdateParams(ctx context.Context, assistantID string, params domain.GenerationParams) error {
	if assistantID == "" {
		return fmt.Errorf("%w: assistant id is required", domain.ErrInvalidInput)
	}
	params = params.Normalise()

	// Keep the remote name stable across parameter updates.
	current, err := s.client.GetAssistant(ctx, assistantID)
	if err != nil {
		return fmt.Errorf("fetch assistant: %w", err)
	}
	if err := s.client.UpdateAssistant(ctx, assistantID, current.Name, params); err != nil {
		return fmt.Errorf("update assistant: %w", err)
	}
	logger.Info("updated parameters for assistant %s", assistantID)
	return nil
}

// ResetSession drops the active session pointer so the next question
// starts a fresh conversation.
func (s *AssistantService) ResetSession(ctx context.Context, assistantID string) error {
	if assistantID == "" {
		return fmt.Errorf("%w: assistant id is required", domain.ErrInvalidInput)
	}
	if err := s.sessions.ClearActive(ctx, assistantID); err != nil {
		return fmt.Errorf("clear active session: %w", err)
	}
	logger.Info("cleared active session for assistant %s", assistantID)
	return nil
}

// assistantName derives a readable remote name from the local registry,
// falling back to a unique suffix when the knowledge base is unknown.
func (s *AssistantService) assistantName(ctx context.Context, datasetID string) string {
	if kb, err := s.kbs.Get(ctx, datasetID); err == nil && kb.Name != "" {
		return "refrag-" + kb.Name
	}
	return "refrag-" + uuid.NewString()[:8]
}
