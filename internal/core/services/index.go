package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driven"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driving"
	"github.com/tracedoc-labs/tracedoc/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// embedBatchSize is how many texts go into one embedding request.
const embedBatchSize = 10

// defaultBatchRate caps embedding requests per second during population
// so a small local inference server is not flooded.
const defaultBatchRate = rate.Limit(8)

// IndexService brings the vector collection to a queryable state.
//
// Population is count-then-fill: an empty collection is filled from the
// enriched content list, a non-empty one is trusted as complete and
// never touched. The check and the fill are not one transaction across
// processes; a single initialising process is assumed. The collection's
// conflict-ignoring inserts bound a lost race to wasted embedding calls.
type IndexService struct {
	enricher   driving.EnrichService
	store      driven.ContentStore
	collection driven.VectorCollection
	embedder   driven.EmbeddingService
	limiter    *rate.Limiter

	mu    sync.Mutex
	ready *domain.IndexStatus // successful outcome, cached per process
}

// NewIndexService creates a new index service.
func NewIndexService(
	enricher driving.EnrichService,
	store driven.ContentStore,
	collection driven.VectorCollection,
	embedder driven.EmbeddingService,
) *IndexService {
	return &IndexService{
		enricher:   enricher,
		store:      store,
		collection: collection,
		embedder:   embedder,
		limiter:    rate.NewLimiter(defaultBatchRate, 1),
	}
}

// SetRateLimiter overrides the embedding request pacing. Tests pass an
// unlimited limiter.
func (s *IndexService) SetRateLimiter(l *rate.Limiter) {
	s.limiter = l
}

// EnsureReady populates the collection when it is empty. Only a
// successful outcome is cached, so a failed population is retried on
// the next call rather than poisoning the process.
func (s *IndexService) EnsureReady(ctx context.Context) (domain.IndexStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready != nil {
		return *s.ready, nil
	}

	status, err := s.ensureReadyLocked(ctx)
	if err != nil {
		return domain.IndexStatus{}, err
	}

	// An empty outcome (no embeddable items yet) is not ready and must
	// not be cached, so later calls see a corpus added in the meantime.
	if status.Ready {
		cached := status
		cached.Built = false
		s.ready = &cached
	}
	return status, nil
}

func (s *IndexService) ensureReadyLocked(ctx context.Context) (domain.IndexStatus, error) {
	logger.Section("Vector Index")

	count, err := s.collection.Count(ctx)
	if err != nil {
		return domain.IndexStatus{}, fmt.Errorf("count collection records: %w", err)
	}
	if count > 0 {
		logger.Info("Existing index (%d records), skipping build", count)
		return domain.IndexStatus{Ready: true, Records: count}, nil
	}

	if _, err := s.enricher.Enrich(ctx); err != nil {
		return domain.IndexStatus{}, fmt.Errorf("enrich content list: %w", err)
	}

	items, err := s.store.ReadEnriched(ctx)
	if err != nil {
		return domain.IndexStatus{}, fmt.Errorf("read enriched content list: %w", err)
	}

	records := embeddableRecords(items)
	if len(records) == 0 {
		logger.Warn("No embeddable items, collection stays empty")
		return domain.IndexStatus{}, nil
	}

	logger.Info("Building index: %d embeddable of %d items, model %s",
		len(records), len(items), s.embedder.ModelName())

	for start := 0; start < len(records); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return domain.IndexStatus{}, fmt.Errorf("rate limit wait: %w", err)
		}

		texts := make([]string, 0, end-start)
		for _, rec := range records[start:end] {
			texts = append(texts, rec.Text)
		}
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return domain.IndexStatus{}, fmt.Errorf("embed batch %d-%d: %w", start, end-1, err)
		}
		if len(vectors) != end-start {
			return domain.IndexStatus{}, fmt.Errorf(
				"embed batch %d-%d: got %d vectors for %d texts", start, end-1, len(vectors), end-start)
		}
		for i := range vectors {
			records[start+i].Embedding = vectors[i]
		}
		logger.Debug("Embedded batch %d-%d", start, end-1)
	}

	if err := s.collection.AddBatch(ctx, records); err != nil {
		return domain.IndexStatus{}, fmt.Errorf("store records: %w", err)
	}

	logger.Info("Index built: %d records", len(records))
	return domain.IndexStatus{Ready: true, Records: len(records), Built: true}, nil
}

// embeddableRecords projects the qualifying items into collection rows,
// preserving reading order.
func embeddableRecords(items []domain.ContentItem) []domain.VectorRecord {
	var records []domain.VectorRecord
	for _, item := range items {
		if !item.Embeddable() {
			continue
		}
		records = append(records, domain.VectorRecord{
			ChunkID: item.ChunkID,
			Text:    item.Text,
			Page:    item.PageIdx,
			Kind:    item.Type,
			Level:   item.TextLevel,
		})
	}
	return records
}
