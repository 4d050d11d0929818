package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

func rawCorpus() []domain.ContentItem {
	return []domain.ContentItem{
		{Type: domain.ContentTypeText, Text: "引言：本文研究检索增强生成。", PageIdx: 0, TextLevel: 1},
		{Type: domain.ContentTypeImage, Text: "", PageIdx: 0},
		{Type: domain.ContentTypeText, Text: "方法部分描述了分块策略。", PageIdx: 1},
	}
}

func TestEnrichService_AssignsPositionalIDs(t *testing.T) {
	store := &mockContentStore{raw: rawCorpus()}
	svc := NewEnrichService(store)

	status, err := svc.Enrich(context.Background())
	require.NoError(t, err)

	assert.True(t, status.Enriched)
	assert.True(t, status.Built)
	assert.Equal(t, 3, status.Items)

	require.Len(t, store.enriched, 3)
	for i, item := range store.enriched {
		assert.Equal(t, []string{"chunk_0", "chunk_1", "chunk_2"}[i], item.ChunkID)
	}
	// Non-text items get IDs too; only the index cares about type.
	assert.Equal(t, domain.ContentTypeImage, store.enriched[1].Type)
	// Original fields survive untouched.
	assert.Equal(t, 1, store.enriched[0].TextLevel)
	assert.Equal(t, "方法部分描述了分块策略。", store.enriched[2].Text)
}

func TestEnrichService_ExistingFileSkipsRebuild(t *testing.T) {
	store := &mockContentStore{raw: rawCorpus()}
	svc := NewEnrichService(store)

	_, err := svc.Enrich(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, store.writeCalls)

	// Second run: file exists, nothing is rewritten.
	status, err := svc.Enrich(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Enriched)
	assert.False(t, status.Built)
	assert.Equal(t, 3, status.Items)
	assert.Equal(t, 1, store.writeCalls)
}

func TestEnrichService_MissingRawFile(t *testing.T) {
	store := &mockContentStore{} // no raw content
	svc := NewEnrichService(store)

	_, err := svc.Enrich(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceMissing)
	// The message names both ends of the failed transformation.
	assert.Contains(t, err.Error(), store.RawPath())
	assert.Contains(t, err.Error(), store.EnrichedPath())
}

func TestEnrichService_Status(t *testing.T) {
	t.Run("before enrichment", func(t *testing.T) {
		svc := NewEnrichService(&mockContentStore{raw: rawCorpus()})

		status, err := svc.Status(context.Background())
		require.NoError(t, err)
		assert.False(t, status.Enriched)
		assert.Zero(t, status.Items)
	})

	t.Run("after enrichment", func(t *testing.T) {
		store := &mockContentStore{raw: rawCorpus()}
		svc := NewEnrichService(store)
		_, err := svc.Enrich(context.Background())
		require.NoError(t, err)

		status, err := svc.Status(context.Background())
		require.NoError(t, err)
		assert.True(t, status.Enriched)
		assert.Equal(t, 3, status.Items)
		assert.False(t, status.Built)
	})
}

func TestEnrichService_EmptyRawList(t *testing.T) {
	store := &mockContentStore{raw: []domain.ContentItem{}}
	svc := NewEnrichService(store)

	status, err := svc.Enrich(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Enriched)
	assert.Zero(t, status.Items)
	assert.Equal(t, 1, store.writeCalls)
}
