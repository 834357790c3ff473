package mcp

import (
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// QA answers questions against pushed knowledge bases.
	QA driving.QAService

	// Registry resolves the default knowledge base.
	Registry driving.RegistryService

	// History exposes the answered-question log.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.QA == nil {
		return ErrMissingQAService
	}
	if p.Registry == nil {
		return ErrMissingRegistryService
	}
	// History is optional; list_history reports when it is absent
	return nil
}
