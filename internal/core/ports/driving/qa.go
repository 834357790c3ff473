package driving

import (
	"context"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
)

// ParamsProvider supplies generation parameters when an assistant is
// created for the first time. The CLI backs it with an interactive
// prompt; non-interactive callers return stored defaults.
type ParamsProvider func() (domain.GenerationParams, error)

// QAService answers questions against a pushed knowledge base, creating
// the backing assistant and session on demand and recording each answered
// question in history.
type QAService interface {
	// Ask routes one question through the assistant bound to the dataset.
	// The assistant and session are created lazily and reused afterwards.
	Ask(ctx context.Context, datasetID, question string, params ParamsProvider) (*domain.Answer, error)
}

// AssistantManager exposes assistant and session lifecycle operations
// that QAService performs implicitly.
type AssistantManager interface {
	// ResolveAssistant returns the assistant bound to a dataset, creating
	// and recording one when no binding exists.
	ResolveAssistant(ctx context.Context, datasetID string, params ParamsProvider) (string, error)

	// AssistantFor returns the existing binding for a dataset without
	// creating anything. Returns domain.ErrNotFound when unbound.
	AssistantFor(ctx context.Context, datasetID string) (string, error)

	// ResolveSession returns the active session for an assistant, opening
	// and recording one when none is active.
	ResolveSession(ctx context.Context, assistantID string) (string, error)

	// UpdateParams pushes new generation parameters to an assistant.
	// Values outside their valid range are replaced with defaults.
	UpdateParams(ctx context.Context, assistantID string, params domain.GenerationParams) error

	// ResetSession drops the active session pointer so the next question
	// starts a fresh conversation.
	ResetSession(ctx context.Context, assistantID string) error
}

// HistoryService exposes the answered-question log.
type HistoryService interface {
	// List returns retained history entries, newest first.
	List(ctx context.Context) ([]domain.HistoryEntry, error)

	// Clear removes all retained entries.
	Clear(ctx context.Context) error
}
