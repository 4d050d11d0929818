package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

func testClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

func askFixture() (*AskService, *mockCollection, *mockLLMService) {
	collection := &mockCollection{hits: []domain.VectorHit{
		{ChunkID: "chunk_0", Text: "引言：检索增强生成。", Page: 0, Score: 0.91},
		{ChunkID: "chunk_2", Text: "方法：逐项分块。", Page: 1, Score: 0.84},
	}}
	llm := &mockLLMService{content: "  系统采用逐项分块策略。  "}
	refs := &mockReferenceService{refs: domain.ReferenceMap{
		"chunk_0": {ChunkID: "chunk_0"},
		"chunk_2": {ChunkID: "chunk_2"},
	}}
	embedder := &mockEmbeddingService{embedding: []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7}}
	svc := NewAskService(embedder, collection, llm, refs, 0)
	svc.SetClock(testClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 100*time.Millisecond))
	return svc, collection, llm
}

func TestAskService_FullPipeline(t *testing.T) {
	svc, collection, llm := askFixture()

	answer, err := svc.Ask(context.Background(), "系统如何分块？")
	require.NoError(t, err)

	t.Run("answer text is trimmed model content", func(t *testing.T) {
		assert.Equal(t, "系统采用逐项分块策略。", answer.Text)
	})

	t.Run("sources preserve collection order", func(t *testing.T) {
		require.Len(t, answer.Sources, 2)
		assert.Equal(t, "chunk_0", answer.Sources[0].ChunkID)
		assert.Equal(t, "chunk_2", answer.Sources[1].ChunkID)
	})

	t.Run("default top k is three", func(t *testing.T) {
		assert.Equal(t, 3, collection.lastK)
	})

	t.Run("no inconsistencies on a consistent corpus", func(t *testing.T) {
		assert.Empty(t, answer.Inconsistencies)
	})

	t.Run("timeline has every stage in order", func(t *testing.T) {
		wantOrder := []struct {
			kind  domain.EventKind
			phase domain.EventPhase
		}{
			{domain.EventQuery, domain.PhaseStart},
			{domain.EventEmbedding, domain.PhaseStart},
			{domain.EventEmbedding, domain.PhaseEnd},
			{domain.EventRetrieve, domain.PhaseStart},
			{domain.EventRetrieve, domain.PhaseEnd},
			{domain.EventSynthesize, domain.PhaseStart},
			{domain.EventLLM, domain.PhaseStart},
			{domain.EventLLM, domain.PhaseEnd},
			{domain.EventSynthesize, domain.PhaseEnd},
			{domain.EventQuery, domain.PhaseEnd},
		}
		require.Len(t, answer.Trace, len(wantOrder))
		for i, want := range wantOrder {
			assert.Equal(t, want.kind, answer.Trace[i].Kind, "event %d kind", i)
			assert.Equal(t, want.phase, answer.Trace[i].Phase, "event %d phase", i)
		}
	})

	t.Run("embedding payload keeps only a preview", func(t *testing.T) {
		payload, ok := answer.Trace.EndPayload(domain.EventEmbedding)
		require.True(t, ok)
		assert.Len(t, payload.VectorPreview, 5)
		assert.Equal(t, 7, payload.VectorDim)

		startPayload, ok := answer.Trace.StartPayload(domain.EventEmbedding)
		require.True(t, ok)
		assert.Equal(t, "系统如何分块？", startPayload.Input)
	})

	t.Run("retrieve payload carries the hits", func(t *testing.T) {
		payload, ok := answer.Trace.EndPayload(domain.EventRetrieve)
		require.True(t, ok)
		require.Len(t, payload.Hits, 2)
		assert.Equal(t, 0.91, payload.Hits[0].Score)
	})

	t.Run("llm payload carries prompt and raw response", func(t *testing.T) {
		startPayload, ok := answer.Trace.StartPayload(domain.EventLLM)
		require.True(t, ok)
		assert.Contains(t, startPayload.Prompt, "Context information is below.")
		assert.Contains(t, startPayload.Prompt, "[page 0] (chunk_0)")
		assert.Contains(t, startPayload.Prompt, "[page 1] (chunk_2)")
		assert.Contains(t, startPayload.Prompt, "Query: 系统如何分块？")
		assert.True(t, strings.HasSuffix(startPayload.Prompt, "Answer: "))

		endPayload, ok := answer.Trace.EndPayload(domain.EventLLM)
		require.True(t, ok)
		assert.Contains(t, endPayload.Raw, "choices")
		require.Len(t, llm.prompts, 1)
		assert.Equal(t, startPayload.Prompt, llm.prompts[0])
	})

	t.Run("durations are computable from the trace", func(t *testing.T) {
		total, ok := answer.Trace.Duration(domain.EventQuery)
		require.True(t, ok)
		assert.Equal(t, 900*time.Millisecond, total)

		llmDur, ok := answer.Trace.Duration(domain.EventLLM)
		require.True(t, ok)
		synthDur, ok2 := answer.Trace.Duration(domain.EventSynthesize)
		require.True(t, ok2)
		assert.Less(t, llmDur, synthDur)
	})
}

func TestAskService_EmptyQuestion(t *testing.T) {
	svc, _, _ := askFixture()

	_, err := svc.Ask(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAskService_EmbedFailureStillClosesTrace(t *testing.T) {
	collection := &mockCollection{}
	embedder := &mockEmbeddingService{embedErr: errors.New("connection refused")}
	svc := NewAskService(embedder, collection, &mockLLMService{}, &mockReferenceService{}, 3)

	answer, err := svc.Ask(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed question")

	// Root pair closed, embedding left dangling.
	_, ok := answer.Trace.Duration(domain.EventQuery)
	assert.True(t, ok)
	_, ok = answer.Trace.Duration(domain.EventEmbedding)
	assert.False(t, ok)
	assert.Zero(t, collection.queryCalls)
}

func TestAskService_RetrieveFailure(t *testing.T) {
	collection := &mockCollection{queryErr: errors.New("database is locked")}
	embedder := &mockEmbeddingService{embedding: []float32{0.5}}
	svc := NewAskService(embedder, collection, &mockLLMService{}, &mockReferenceService{}, 3)

	answer, err := svc.Ask(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieve chunks")
	_, ok := answer.Trace.Duration(domain.EventQuery)
	assert.True(t, ok)
}

func TestAskService_EmptyAnswerContent(t *testing.T) {
	collection := &mockCollection{hits: []domain.VectorHit{{ChunkID: "chunk_0"}}}
	embedder := &mockEmbeddingService{embedding: []float32{0.5}}
	llm := &mockLLMService{content: "   "}
	svc := NewAskService(embedder, collection, llm, &mockReferenceService{}, 3)

	_, err := svc.Ask(context.Background(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoAnswer)
}

func TestAskService_ReportsUnresolvableChunks(t *testing.T) {
	collection := &mockCollection{hits: []domain.VectorHit{
		{ChunkID: "chunk_0", Score: 0.9},
		{ChunkID: "chunk_7", Score: 0.8}, // not in the reference map
	}}
	embedder := &mockEmbeddingService{embedding: []float32{0.5}}
	refs := &mockReferenceService{refs: domain.ReferenceMap{"chunk_0": {ChunkID: "chunk_0"}}}
	svc := NewAskService(embedder, collection, &mockLLMService{content: "answer"}, refs, 3)

	answer, err := svc.Ask(context.Background(), "q")
	require.NoError(t, err)

	assert.Equal(t, []string{"chunk_7"}, answer.Inconsistencies)
	// The divergence does not suppress the answer or its sources.
	assert.Equal(t, "answer", answer.Text)
	assert.Len(t, answer.Sources, 2)
}

func TestAskService_ReferenceLoadFailureIsSoft(t *testing.T) {
	collection := &mockCollection{hits: []domain.VectorHit{{ChunkID: "chunk_0"}}}
	embedder := &mockEmbeddingService{embedding: []float32{0.5}}
	refs := &mockReferenceService{loadErr: errors.New("corrupt enriched file")}
	svc := NewAskService(embedder, collection, &mockLLMService{content: "answer"}, refs, 3)

	answer, err := svc.Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "answer", answer.Text)
	assert.Empty(t, answer.Inconsistencies)
}

func TestAskService_ConfiguredTopK(t *testing.T) {
	collection := &mockCollection{hits: []domain.VectorHit{{ChunkID: "chunk_0"}}}
	embedder := &mockEmbeddingService{embedding: []float32{0.5}}
	svc := NewAskService(embedder, collection, &mockLLMService{content: "a"}, &mockReferenceService{}, 7)

	_, err := svc.Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 7, collection.lastK)
}

func TestAskService_BackToBackTracesAreDisjoint(t *testing.T) {
	svc, _, _ := askFixture()

	first, err := svc.Ask(context.Background(), "第一个问题")
	require.NoError(t, err)
	firstLen := len(first.Trace)
	firstStart := first.Trace[0].At

	second, err := svc.Ask(context.Background(), "第二个问题")
	require.NoError(t, err)

	// The first answer's timeline is untouched by the second run.
	assert.Len(t, first.Trace, firstLen)
	assert.Equal(t, firstStart, first.Trace[0].At)

	// Each timeline holds exactly one run and names its own question.
	assert.Len(t, second.Trace, firstLen)
	firstInput, _ := first.Trace.StartPayload(domain.EventQuery)
	secondInput, _ := second.Trace.StartPayload(domain.EventQuery)
	assert.Equal(t, "第一个问题", firstInput.Input)
	assert.Equal(t, "第二个问题", secondInput.Input)
	assert.NotEqual(t, first.Trace[0].At, second.Trace[0].At)
}
