package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

func tracedAnswer() domain.Answer {
	return domain.Answer{
		Text: "Chunking splits documents into semantic units.",
		Sources: []domain.VectorHit{
			{ChunkID: "chunk_0", Page: 0, Score: 0.91, Text: "Chunking splits documents."},
			{ChunkID: "chunk_2", Page: 2, Score: 0.84, Text: "Each chunk is embedded."},
		},
		Trace: domain.Timeline{
			{Kind: domain.EventQuery, Phase: domain.PhaseStart, At: "01/01/2024, 00:00:00.000000"},
			{Kind: domain.EventQuery, Phase: domain.PhaseEnd, At: "01/01/2024, 00:00:01.500000"},
		},
	}
}

func TestHandleAsk(t *testing.T) {
	ask := &mockAskService{answer: tracedAnswer()}
	server, err := NewServer(&Ports{Ask: ask})
	require.NoError(t, err)

	_, output, err := server.handleAsk(context.Background(), nil, AskInput{Question: "What is chunking?"})
	require.NoError(t, err)

	assert.Equal(t, "What is chunking?", ask.lastQuestion)
	assert.Equal(t, "Chunking splits documents into semantic units.", output.Answer)
	require.Len(t, output.Sources, 2)
	assert.Equal(t, "chunk_0", output.Sources[0].ChunkID)
	assert.InDelta(t, 0.91, output.Sources[0].Score, 1e-9)

	require.Len(t, output.Timings, 1)
	assert.Equal(t, "query", output.Timings[0].Stage)
	assert.InDelta(t, 1.5, output.Timings[0].Seconds, 1e-9)
}

func TestHandleAsk_PropagatesError(t *testing.T) {
	ask := &mockAskService{err: errors.New("llm unreachable")}
	server, err := NewServer(&Ports{Ask: ask})
	require.NoError(t, err)

	_, _, err = server.handleAsk(context.Background(), nil, AskInput{Question: "q"})
	assert.ErrorContains(t, err, "llm unreachable")
}

func TestHandleIndexStatus(t *testing.T) {
	index := &mockIndexService{status: domain.IndexStatus{Ready: true, Records: 42}}
	server, err := NewServer(&Ports{Ask: &mockAskService{}, Index: index})
	require.NoError(t, err)

	_, output, err := server.handleIndexStatus(context.Background(), nil, IndexStatusInput{})
	require.NoError(t, err)
	assert.True(t, output.Ready)
	assert.Equal(t, 42, output.Records)
	assert.Equal(t, 1, index.calls)
}

func TestHandleIndexStatus_NoIndexService(t *testing.T) {
	server, err := NewServer(&Ports{Ask: &mockAskService{}})
	require.NoError(t, err)

	_, output, err := server.handleIndexStatus(context.Background(), nil, IndexStatusInput{})
	require.NoError(t, err)
	assert.False(t, output.Ready)
}

func TestStageTimings_SkipsUnmeasurableStages(t *testing.T) {
	timeline := domain.Timeline{
		{Kind: domain.EventQuery, Phase: domain.PhaseStart, At: "01/01/2024, 00:00:00.000000"},
		{Kind: domain.EventQuery, Phase: domain.PhaseEnd, At: "01/01/2024, 00:00:00.250000"},
		// Embedding start without an end: no timing entry.
		{Kind: domain.EventEmbedding, Phase: domain.PhaseStart, At: "01/01/2024, 00:00:00.010000"},
	}

	timings := stageTimings(timeline)
	require.Len(t, timings, 1)
	assert.Equal(t, "query", timings[0].Stage)
}
