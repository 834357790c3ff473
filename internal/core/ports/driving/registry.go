package driving

import (
	"context"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
)

// RegistryService manages the local registry of pushed knowledge bases.
type RegistryService interface {
	// List returns locally recorded knowledge bases, newest first.
	List(ctx context.Context) ([]domain.KnowledgeBase, error)

	// Get returns one recorded knowledge base by id.
	Get(ctx context.Context, id string) (*domain.KnowledgeBase, error)

	// Use marks a knowledge base as the default target for questions.
	Use(ctx context.Context, id string) error

	// Active returns the default knowledge base, or domain.ErrNotFound
	// when none has been chosen.
	Active(ctx context.Context) (*domain.KnowledgeBase, error)

	// Forget removes a knowledge base from the local registry along with
	// its assistant binding. The remote dataset is left untouched.
	Forget(ctx context.Context, id string) error
}
