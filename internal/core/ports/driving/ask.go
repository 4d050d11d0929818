package driving

import (
	"context"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

// AskService answers questions over the indexed corpus. Every call runs
// the full pipeline - embed, retrieve, synthesise - and captures its own
// trace; calls never share state.
type AskService interface {
	// Ask answers one question. The returned Answer carries the
	// timeline of this call only.
	Ask(ctx context.Context, question string) (domain.Answer, error)
}
