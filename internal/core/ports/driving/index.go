package driving

import (
	"context"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

// IndexService brings the vector collection to a queryable state.
type IndexService interface {
	// EnsureReady populates the collection from the enriched content
	// list when it is empty, and is a cheap no-op when records already
	// exist. Safe to call before every session.
	EnsureReady(ctx context.Context) (domain.IndexStatus, error)
}

// EnrichService assigns chunk IDs to the extractor's raw content list.
type EnrichService interface {
	// Enrich builds the enriched content list if it does not exist.
	Enrich(ctx context.Context) (domain.EnrichStatus, error)

	// Status reports the current enrichment state without building.
	Status(ctx context.Context) (domain.EnrichStatus, error)
}
