package mcp

import (
	"context"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

func readRequest(uri string) *sdk.ReadResourceRequest {
	return &sdk.ReadResourceRequest{
		Params: &sdk.ReadResourceParams{URI: uri},
	}
}

func TestHandleChunkResource(t *testing.T) {
	refs := domain.ReferenceMap{
		"chunk_0": {ChunkID: "chunk_0", Type: domain.ContentTypeText, Text: "引言", PageIdx: 0, TextLevel: 1},
	}
	server, err := NewServer(&Ports{
		Ask:       &mockAskService{},
		Reference: &mockReferenceService{refs: refs},
	})
	require.NoError(t, err)

	result, err := server.handleChunkResource(context.Background(), readRequest("tracedoc://chunks/chunk_0"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)

	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, `"chunk_id": "chunk_0"`)
	assert.Contains(t, result.Contents[0].Text, "引言")
}

func TestHandleChunkResource_UnknownChunk(t *testing.T) {
	server, err := NewServer(&Ports{
		Ask:       &mockAskService{},
		Reference: &mockReferenceService{refs: domain.ReferenceMap{}},
	})
	require.NoError(t, err)

	_, err = server.handleChunkResource(context.Background(), readRequest("tracedoc://chunks/chunk_99"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHandleChunkResource_InvalidURI(t *testing.T) {
	server, err := NewServer(&Ports{
		Ask:       &mockAskService{},
		Reference: &mockReferenceService{},
	})
	require.NoError(t, err)

	_, err = server.handleChunkResource(context.Background(), readRequest("tracedoc://other/thing"))
	assert.Error(t, err)
}

func TestHandleChunkResource_NoReferenceService(t *testing.T) {
	server, err := NewServer(&Ports{Ask: &mockAskService{}})
	require.NoError(t, err)

	_, err = server.handleChunkResource(context.Background(), readRequest("tracedoc://chunks/chunk_0"))
	assert.ErrorContains(t, err, "no reference service")
}
