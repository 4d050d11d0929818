// Package tui provides an interactive chat interface for tracedoc.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ask answers questions over the indexed corpus.
	Ask driving.AskService

	// Reference resolves chunk IDs to their source content.
	Reference driving.ReferenceService

	// Index brings the vector collection to a queryable state.
	Index driving.IndexService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	ask driving.AskService,
	reference driving.ReferenceService,
	index driving.IndexService,
) *Ports {
	return &Ports{
		Ask:       ask,
		Reference: reference,
		Index:     index,
	}
}

// Validate ensures all required ports are set.
// Reference and Index are optional; without them the chat still answers,
// it just cannot show provenance or warm the collection up front.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	return nil
}
