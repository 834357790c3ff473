package driven

import (
	"context"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
)

// AssistantMappingStore persists the dataset to assistant binding that
// keeps Ask idempotent across restarts.
type AssistantMappingStore interface {
	// AssistantFor returns the assistant id bound to a dataset, or
	// domain.ErrNotFound when no binding exists.
	AssistantFor(ctx context.Context, datasetID string) (string, error)

	// Bind records a dataset to assistant mapping, replacing any prior one.
	Bind(ctx context.Context, datasetID, assistantID string) error

	// Unbind removes the mapping for a dataset. Missing mappings are not
	// an error.
	Unbind(ctx context.Context, datasetID string) error
}

// SessionStore persists sessions and the per-assistant active pointer.
type SessionStore interface {
	// ActiveSession returns the active session id for an assistant, or
	// domain.ErrNotFound when none is recorded.
	ActiveSession(ctx context.Context, assistantID string) (string, error)

	// SaveSession records a session and marks it active for its assistant.
	SaveSession(ctx context.Context, session domain.Session) error

	// ClearActive drops the active pointer so the next question opens a
	// fresh session. The session record itself is kept.
	ClearActive(ctx context.Context, assistantID string) error

	// Sessions lists all recorded sessions for an assistant, newest first.
	Sessions(ctx context.Context, assistantID string) ([]domain.Session, error)
}

// KnowledgeBaseStore is the local registry of pushed knowledge bases.
type KnowledgeBaseStore interface {
	// Save records a knowledge base, replacing any entry with the same id.
	Save(ctx context.Context, kb domain.KnowledgeBase) error

	// Get returns a knowledge base by id, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.KnowledgeBase, error)

	// List returns all recorded knowledge bases, newest first.
	List(ctx context.Context) ([]domain.KnowledgeBase, error)

	// Delete removes a knowledge base record. Missing ids are not an error.
	Delete(ctx context.Context, id string) error

	// SetActive marks the knowledge base questions default to.
	SetActive(ctx context.Context, id string) error

	// Active returns the default knowledge base, or domain.ErrNotFound
	// when none has been marked.
	Active(ctx context.Context) (*domain.KnowledgeBase, error)
}

// HistoryStore persists answered questions, newest first, capped at a
// fixed maximum set by the implementation.
type HistoryStore interface {
	// Append prepends an entry and evicts the oldest beyond the cap.
	Append(ctx context.Context, entry domain.HistoryEntry) error

	// List returns all retained entries, newest first.
	List(ctx context.Context) ([]domain.HistoryEntry, error)

	// Clear removes every retained entry.
	Clear(ctx context.Context) error
}
