package driving

import (
	"context"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

// ParseService runs document extraction batches.
type ParseService interface {
	// Run extracts every document the job covers. One result per
	// document, in processing order; per-document failures are
	// recorded in their result and do not stop the batch. The error is
	// non-nil only when the batch as a whole could not run or every
	// document failed.
	Run(ctx context.Context, job domain.ParseJob) ([]domain.DocumentResult, error)
}
