package driven

import (
	"context"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

// ContentStore persists the content list files of one corpus: the raw
// list the extractor wrote and the enriched list with chunk IDs
// assigned. Both are ordered; order is identity here, since chunk IDs
// are positional.
type ContentStore interface {
	// ReadRaw loads the extractor's content list.
	// Returns domain.ErrSourceMissing when the file does not exist.
	ReadRaw(ctx context.Context) ([]domain.ContentItem, error)

	// ReadEnriched loads the enriched content list.
	// Returns domain.ErrNotFound when the file does not exist.
	ReadEnriched(ctx context.Context) ([]domain.ContentItem, error)

	// WriteEnriched persists the enriched content list.
	WriteEnriched(ctx context.Context, items []domain.ContentItem) error

	// EnrichedExists reports whether the enriched file is present.
	// Presence alone makes enrichment a no-op; content is not examined.
	EnrichedExists(ctx context.Context) (bool, error)

	// RawPath returns the raw content list location, for messages.
	RawPath() string

	// EnrichedPath returns the enriched content list location, for messages.
	EnrichedPath() string
}
