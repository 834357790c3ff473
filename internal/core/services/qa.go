package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driving"
	"github.com/custodia-labs/refrag-cli/internal/logger"
)

// Ensure QAService implements the interface.
var _ driving.QAService = (*QAService)(nil)

// QAService answers questions against a pushed knowledge base.
type QAService struct {
	client     driven.RAGClient
	assistants driving.AssistantManager
	history    driven.HistoryStore
}

// NewQAService creates a new question-answering service.
func NewQAService(client driven.RAGClient, assistants driving.AssistantManager, history driven.HistoryStore) *QAService {
	return &QAService{
		client:     client,
		assistants: assistants,
		history:    history,
	}
}

// Ask routes one question through the assistant bound to the dataset.
func (s *QAService) Ask(ctx context.Context, datasetID, question string, params driving.ParamsProvider) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	// Step 1: Resolve or create the assistant for this knowledge base.
	assistantID, err := s.assistants.ResolveAssistant(ctx, datasetID, params)
	if err != nil {
		return nil, err
	}

	// Step 2: Resolve or open the conversation session.
	sessionID, err := s.assistants.ResolveSession(ctx, assistantID)
	if err != nil {
		return nil, err
	}

	// Step 3: Send the question. A session the backend no longer knows
	// gets its local pointer dropped so the next ask starts clean.
	answer, err := s.client.Converse(ctx, assistantID, sessionID, question)
	if err != nil {
		if domain.IsInvalidSessionMessage(err.Error()) {
			if clearErr := s.assistants.ResetSession(ctx, assistantID); clearErr != nil {
				logger.Warn("could not clear stale session: %v", clearErr)
			}
			return nil, fmt.Errorf("session expired on the backend, retry your question: %w", err)
		}
		return nil, err
	}

	// Step 4: Record the exchange. A history failure must not lose the
	// answer the user already paid for.
	entry := domain.HistoryEntry{
		ID:        uuid.NewString(),
		Question:  question,
		Answer:    answer.Text,
		Sources:   answer.Sources,
		Timestamp: time.Now(),
	}
	if err := s.history.Append(ctx, entry); err != nil {
		logger.Warn("could not record history entry: %v", err)
	}

	return answer, nil
}
