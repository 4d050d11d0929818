package driven

import (
	"context"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

// VectorCollection is the durable store of embedded content and the
// similarity ranker over it. Populated once per corpus; read-only from
// the pipeline's point of view afterwards.
type VectorCollection interface {
	// Count returns the number of stored records. Population is
	// skipped entirely when this is non-zero.
	Count(ctx context.Context) (int, error)

	// AddBatch inserts records. Re-inserting an existing chunk ID is
	// a no-op, so a lost initialisation race cannot create duplicates.
	AddBatch(ctx context.Context, records []domain.VectorRecord) error

	// Query returns the k most similar records to the embedding,
	// scores non-increasing. Fewer than k hits when the collection is
	// smaller than k.
	Query(ctx context.Context, embedding []float32, k int) ([]domain.VectorHit, error)

	// Close releases resources.
	Close() error
}
