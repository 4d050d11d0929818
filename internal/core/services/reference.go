package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driven"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driving"
	"github.com/tracedoc-labs/tracedoc/internal/logger"
)

// Ensure ReferenceService implements the interface.
var _ driving.ReferenceService = (*ReferenceService)(nil)

// ReferenceService builds and caches the chunk ID lookup table. Only a
// successfully read map is kept for the process lifetime; a missing or
// unreadable enriched file is re-checked on the next call, so provenance
// comes back once the file appears or the failure clears.
type ReferenceService struct {
	store driven.ContentStore

	mu     sync.Mutex
	refs   domain.ReferenceMap
	loaded bool
}

// NewReferenceService creates a new reference service.
func NewReferenceService(store driven.ContentStore) *ReferenceService {
	return &ReferenceService{store: store}
}

// Load returns the reference map, building it on first use. A missing
// enriched file yields an empty map with a warning - callers can still
// answer questions, they just cannot resolve provenance.
func (s *ReferenceService) Load(ctx context.Context) (domain.ReferenceMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.refs, nil
	}

	items, err := s.store.ReadEnriched(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Enriched content list missing at %s, reference map is empty", s.store.EnrichedPath())
		return domain.ReferenceMap{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load reference map: %w", err)
	}

	refs := make(domain.ReferenceMap, len(items))
	for _, item := range items {
		if item.ChunkID == "" {
			continue
		}
		refs[item.ChunkID] = item
	}
	s.refs = refs
	s.loaded = true
	logger.Debug("Reference map loaded: %d chunks", refs.Len())
	return refs, nil
}

// Resolve looks up a single chunk ID.
func (s *ReferenceService) Resolve(ctx context.Context, chunkID string) (domain.ContentItem, error) {
	refs, err := s.Load(ctx)
	if err != nil {
		return domain.ContentItem{}, err
	}
	item, ok := refs.Lookup(chunkID)
	if !ok {
		return domain.ContentItem{}, fmt.Errorf("chunk %q: %w", chunkID, domain.ErrNotFound)
	}
	return item, nil
}
