package driven

import (
	"context"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

// Extractor converts one document into structured content through an
// extraction backend. Only the parse workflow depends on it.
type Extractor interface {
	// ExtractDocument processes a single file and returns its
	// artifacts verbatim. Callers persist the bytes untouched so the
	// written files match the backend's output exactly.
	ExtractDocument(ctx context.Context, req ExtractRequest) (ExtractResult, error)

	// Ping validates the backend is reachable.
	Ping(ctx context.Context) error
}

// ExtractRequest is one document plus the batch's shared options.
type ExtractRequest struct {
	// FilePath is the document to extract.
	FilePath string

	// Options carries the extraction settings for the whole batch.
	Options domain.ParseJob
}

// ExtractResult holds the artifacts for one document.
type ExtractResult struct {
	// ContentList is the structured content list, a JSON array of
	// content items in reading order.
	ContentList []byte

	// Markdown is the markdown rendition of the document.
	Markdown []byte
}
