package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

func newTestCollection(t *testing.T) *Collection {
	t.Helper()
	c, err := NewCollection(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestNewCollection(t *testing.T) {
	c := newTestCollection(t)
	assert.NotEmpty(t, c.Path())

	count, err := c.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCollection_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	c, err := NewCollection(dir)
	require.NoError(t, err)
	require.NoError(t, c.AddBatch(ctx, []domain.VectorRecord{
		{ChunkID: "chunk_0", Text: "hello", Embedding: []float32{1, 0}},
	}))
	require.NoError(t, c.Close())

	reopened, err := NewCollection(dir)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollection_AddBatch_IgnoresDuplicates(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	records := []domain.VectorRecord{
		{ChunkID: "chunk_0", Text: "first", Embedding: []float32{1, 0}},
		{ChunkID: "chunk_2", Text: "second", Embedding: []float32{0, 1}},
	}
	require.NoError(t, c.AddBatch(ctx, records))

	// Second pass with the same IDs must not change the stored rows.
	records[0].Text = "overwritten"
	require.NoError(t, c.AddBatch(ctx, records))

	count, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	hits, err := c.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "first", hits[0].Text)
}

func TestCollection_AddBatch_Validation(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	err := c.AddBatch(ctx, []domain.VectorRecord{{Text: "no id", Embedding: []float32{1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = c.AddBatch(ctx, []domain.VectorRecord{{ChunkID: "chunk_0", Text: "no vector"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.NoError(t, c.AddBatch(ctx, nil))
}

func TestCollection_Query_RanksByCosineSimilarity(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	require.NoError(t, c.AddBatch(ctx, []domain.VectorRecord{
		{ChunkID: "chunk_0", Text: "aligned", Page: 0, Embedding: []float32{1, 0, 0}},
		{ChunkID: "chunk_1", Text: "orthogonal", Page: 1, Embedding: []float32{0, 1, 0}},
		{ChunkID: "chunk_2", Text: "close", Page: 2, Embedding: []float32{0.9, 0.1, 0}},
	}))

	hits, err := c.Query(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "chunk_0", hits[0].ChunkID)
	assert.Equal(t, "chunk_2", hits[1].ChunkID)
	assert.Equal(t, "chunk_1", hits[2].ChunkID)

	// Scores non-increasing in rank order.
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
	}
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
}

func TestCollection_Query_FewerHitsThanK(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	require.NoError(t, c.AddBatch(ctx, []domain.VectorRecord{
		{ChunkID: "chunk_0", Text: "only", Embedding: []float32{1, 0}},
		{ChunkID: "chunk_2", Text: "other", Embedding: []float32{0, 1}},
	}))

	hits, err := c.Query(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestCollection_Query_DimensionMismatch(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	require.NoError(t, c.AddBatch(ctx, []domain.VectorRecord{
		{ChunkID: "chunk_0", Text: "stored", Embedding: []float32{1, 0, 0}},
	}))

	_, err := c.Query(ctx, []float32{1, 0}, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")
}

func TestCollection_Query_EmptyCollection(t *testing.T) {
	c := newTestCollection(t)

	hits, err := c.Query(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFloat32BlobRoundTrip(t *testing.T) {
	original := []float32{0.1, -2.5, 3.14159, 0}
	blob := float32SliceToBytes(original)
	restored := bytesToFloat32Slice(blob)
	assert.Equal(t, original, restored)

	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
