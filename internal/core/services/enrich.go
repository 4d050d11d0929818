package services

import (
	"context"
	"fmt"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driven"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driving"
	"github.com/tracedoc-labs/tracedoc/internal/logger"
)

// Ensure EnrichService implements the interface.
var _ driving.EnrichService = (*EnrichService)(nil)

// EnrichService assigns stable chunk IDs to the extractor's raw content
// list. The enriched file is the single source of truth for chunk
// identity: the reference map and the vector collection are both built
// from it, so IDs are assigned exactly once and never recomputed.
type EnrichService struct {
	store driven.ContentStore
}

// NewEnrichService creates a new enrichment service.
func NewEnrichService(store driven.ContentStore) *EnrichService {
	return &EnrichService{store: store}
}

// Enrich builds the enriched content list if it does not exist. The
// existing file's presence alone suppresses the rebuild; a raw file
// newer than the enriched file is deliberately not detected.
func (s *EnrichService) Enrich(ctx context.Context) (domain.EnrichStatus, error) {
	logger.Section("Content Enrichment")

	exists, err := s.store.EnrichedExists(ctx)
	if err != nil {
		return domain.EnrichStatus{}, fmt.Errorf("check enriched file: %w", err)
	}
	if exists {
		logger.Info("Enriched content list already present, skipping: %s", s.store.EnrichedPath())
		items, err := s.store.ReadEnriched(ctx)
		if err != nil {
			return domain.EnrichStatus{}, fmt.Errorf("read enriched content list: %w", err)
		}
		return domain.EnrichStatus{Enriched: true, Items: len(items)}, nil
	}

	items, err := s.store.ReadRaw(ctx)
	if err != nil {
		return domain.EnrichStatus{}, fmt.Errorf(
			"enrich %s -> %s: %w", s.store.RawPath(), s.store.EnrichedPath(), err)
	}

	for i := range items {
		items[i].ChunkID = fmt.Sprintf("chunk_%d", i)
	}

	if err := s.store.WriteEnriched(ctx, items); err != nil {
		return domain.EnrichStatus{}, fmt.Errorf("write enriched content list: %w", err)
	}

	logger.Info("Enriched %d items -> %s", len(items), s.store.EnrichedPath())
	return domain.EnrichStatus{Enriched: true, Items: len(items), Built: true}, nil
}

// Status reports the enrichment state without building anything.
func (s *EnrichService) Status(ctx context.Context) (domain.EnrichStatus, error) {
	exists, err := s.store.EnrichedExists(ctx)
	if err != nil {
		return domain.EnrichStatus{}, fmt.Errorf("check enriched file: %w", err)
	}
	if !exists {
		return domain.EnrichStatus{}, nil
	}
	items, err := s.store.ReadEnriched(ctx)
	if err != nil {
		return domain.EnrichStatus{}, fmt.Errorf("read enriched content list: %w", err)
	}
	return domain.EnrichStatus{Enriched: true, Items: len(items)}, nil
}
