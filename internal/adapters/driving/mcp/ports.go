package mcp

import (
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ask answers questions over the indexed corpus.
	Ask driving.AskService

	// Reference resolves chunk IDs to their source items.
	Reference driving.ReferenceService

	// Index reports and ensures the collection's readiness.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	// Reference and Index are optional; without them the chunk
	// resource and status tool degrade gracefully.
	return nil
}
