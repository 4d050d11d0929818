// Package memory provides an in-memory vector collection for tests and
// throwaway sessions. Nothing survives the process.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driven"
)

// Ensure Collection implements the interface.
var _ driven.VectorCollection = (*Collection)(nil)

// Collection is an in-memory implementation of driven.VectorCollection.
type Collection struct {
	mu      sync.RWMutex
	records map[string]domain.VectorRecord
	order   []string // insertion order, for deterministic iteration
}

// NewCollection creates a new in-memory vector collection.
func NewCollection() *Collection {
	return &Collection{
		records: make(map[string]domain.VectorRecord),
	}
}

// Count returns the number of stored records.
func (c *Collection) Count(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records), nil
}

// AddBatch inserts records. Existing chunk IDs are left untouched,
// matching the persistent collection's conflict-ignoring inserts.
func (c *Collection) AddBatch(_ context.Context, records []domain.VectorRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rec := range records {
		if rec.ChunkID == "" {
			return fmt.Errorf("%w: record without chunk ID", domain.ErrInvalidInput)
		}
		if len(rec.Embedding) == 0 {
			return fmt.Errorf("%w: record %s without embedding", domain.ErrInvalidInput, rec.ChunkID)
		}
		if _, exists := c.records[rec.ChunkID]; exists {
			continue
		}
		c.records[rec.ChunkID] = rec
		c.order = append(c.order, rec.ChunkID)
	}
	return nil
}

// Query returns the k most similar records, scores non-increasing.
func (c *Collection) Query(_ context.Context, embedding []float32, k int) ([]domain.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}
	if len(embedding) == 0 {
		return nil, fmt.Errorf("%w: empty query embedding", domain.ErrInvalidInput)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var hits []domain.VectorHit
	for _, id := range c.order {
		rec := c.records[id]
		if len(rec.Embedding) != len(embedding) {
			return nil, fmt.Errorf("record %s: dimension mismatch, stored %d vs query %d",
				rec.ChunkID, len(rec.Embedding), len(embedding))
		}
		hits = append(hits, domain.VectorHit{
			ChunkID: rec.ChunkID,
			Text:    rec.Text,
			Page:    rec.Page,
			Score:   cosineSimilarity(embedding, rec.Embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Close is a no-op for the in-memory collection.
func (c *Collection) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
