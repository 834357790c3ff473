package driven

import (
	"context"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
)

// RAGClient wraps the remote RAGFlow HTTP API. Implementations are
// stateless beyond connection settings: they build authenticated requests,
// parse the {code, message, data} envelope, and normalise failures into the
// domain error taxonomy.
type RAGClient interface {
	// SetConnection updates the base URL and credential at runtime.
	// Subsequent calls use the new settings; no recreation is needed.
	SetConnection(settings domain.ConnectionSettings)

	// CreateDataset creates a remote knowledge base and returns its id.
	CreateDataset(ctx context.Context, name string) (string, error)

	// UploadDocument submits one file's bytes to a dataset as multipart.
	UploadDocument(ctx context.Context, datasetID string, file domain.FileDescriptor, content []byte) error

	// ListDocumentIDs returns the ids of all documents in a dataset.
	ListDocumentIDs(ctx context.Context, datasetID string) ([]string, error)

	// ParseDocuments triggers backend chunking for the given documents.
	ParseDocuments(ctx context.Context, datasetID string, documentIDs []string) error

	// GetDatasetStatus reads a dataset's parse progress.
	GetDatasetStatus(ctx context.Context, datasetID string) (*domain.KnowledgeBaseStatus, error)

	// ListDatasets returns id and name of every remote knowledge base.
	ListDatasets(ctx context.Context) ([]domain.KnowledgeBase, error)

	// CreateAssistant creates a chat assistant bound to one dataset.
	CreateAssistant(ctx context.Context, datasetID, name string, params domain.GenerationParams) (string, error)

	// UpdateAssistant pushes changed generation parameters to an existing
	// assistant without creating a new one.
	UpdateAssistant(ctx context.Context, assistantID, name string, params domain.GenerationParams) error

	// GetAssistant retrieves an assistant's current configuration.
	GetAssistant(ctx context.Context, assistantID string) (*domain.ChatAssistant, error)

	// CreateSession opens a conversation context under an assistant.
	CreateSession(ctx context.Context, assistantID, name string) (string, error)

	// Converse sends one non-streaming question through a session and
	// returns the answer with its cited passages.
	Converse(ctx context.Context, assistantID, sessionID, question string) (*domain.Answer, error)
}
