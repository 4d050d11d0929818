package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Tracedoc resources.
	uriScheme = "tracedoc://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Template for individual chunks.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "chunks/{chunkId}",
		Name:        "chunk",
		Description: "A single content chunk with its page and heading metadata",
		MIMEType:    "application/json",
	}, s.handleChunkResource)
}

// handleChunkResource returns one chunk resolved through the reference map.
func (s *Server) handleChunkResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Reference == nil {
		return nil, fmt.Errorf("chunk resources are not available: no reference service")
	}

	chunkID := strings.TrimPrefix(req.Params.URI, uriScheme+"chunks/")
	if chunkID == "" || chunkID == req.Params.URI {
		return nil, fmt.Errorf("invalid chunk URI: %s", req.Params.URI)
	}

	item, err := s.ports.Reference.Resolve(ctx, chunkID)
	if err != nil {
		return nil, fmt.Errorf("resolving chunk %s: %w", chunkID, err)
	}

	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling chunk %s: %w", chunkID, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
