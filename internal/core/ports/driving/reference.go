package driving

import (
	"context"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

// ReferenceService resolves chunk IDs to their full content items.
type ReferenceService interface {
	// Load returns the reference map for the corpus. The map is built
	// once per process; later calls return the same map. A missing
	// enriched file yields an empty map, not an error.
	Load(ctx context.Context) (domain.ReferenceMap, error)

	// Resolve looks up a single chunk ID.
	// Returns domain.ErrNotFound for unknown IDs.
	Resolve(ctx context.Context, chunkID string) (domain.ContentItem, error)
}
