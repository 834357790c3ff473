package driving

import (
	"context"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
)

// IngestService pushes local collections to the remote backend as
// knowledge bases.
type IngestService interface {
	// Push uploads a collection's supported files into a fresh remote
	// knowledge base, triggers parsing, and returns the new dataset id.
	Push(ctx context.Context, files []domain.FileDescriptor, label string) (string, error)

	// Status reads a knowledge base's parse progress once.
	Status(ctx context.Context, datasetID string) (*domain.KnowledgeBaseStatus, error)

	// Watch polls a knowledge base until it reaches a terminal state or
	// the attempt budget runs out, emitting each observed status. Only
	// one watch per dataset may run at a time; a second concurrent call
	// returns domain.ErrWatchInProgress.
	Watch(ctx context.Context, datasetID string) (<-chan domain.KnowledgeBaseStatus, error)

	// ListRemote returns all knowledge bases known to the backend.
	ListRemote(ctx context.Context) ([]domain.KnowledgeBase, error)
}
