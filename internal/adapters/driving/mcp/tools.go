package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed document corpus"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer          string         `json:"answer"`
	Sources         []SourceOutput `json:"sources"`
	Inconsistencies []string       `json:"inconsistencies,omitempty"`
	Timings         []TimingOutput `json:"timings,omitempty"`
}

// SourceOutput is one retrieved chunk backing an answer.
type SourceOutput struct {
	ChunkID string  `json:"chunk_id"`
	Page    int     `json:"page"`
	Score   float64 `json:"score"`
	Text    string  `json:"text,omitempty"`
}

// TimingOutput is the measured duration of one pipeline stage.
type TimingOutput struct {
	Stage   string  `json:"stage"`
	Seconds float64 `json:"seconds"`
}

// IndexStatusInput is the input schema for the index_status tool.
type IndexStatusInput struct{}

// IndexStatusOutput is the output schema for the index_status tool.
type IndexStatusOutput struct {
	Ready   bool `json:"ready"`
	Records int  `json:"records"`
	Built   bool `json:"built"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the indexed document corpus, with retrieval provenance",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_status",
		Description: "Ensure the vector index is populated and report its cardinality",
	}, s.handleIndexStatus)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Ask.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:          answer.Text,
		Sources:         make([]SourceOutput, len(answer.Sources)),
		Inconsistencies: answer.Inconsistencies,
		Timings:         stageTimings(answer.Trace),
	}
	for i, hit := range answer.Sources {
		output.Sources[i] = SourceOutput{
			ChunkID: hit.ChunkID,
			Page:    hit.Page,
			Score:   hit.Score,
			Text:    hit.Text,
		}
	}

	return nil, output, nil
}

// handleIndexStatus handles the index_status tool invocation.
func (s *Server) handleIndexStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ IndexStatusInput,
) (*mcp.CallToolResult, IndexStatusOutput, error) {
	if s.ports.Index == nil {
		return nil, IndexStatusOutput{}, nil
	}

	status, err := s.ports.Index.EnsureReady(ctx)
	if err != nil {
		return nil, IndexStatusOutput{}, err
	}

	return nil, IndexStatusOutput{
		Ready:   status.Ready,
		Records: status.Records,
		Built:   status.Built,
	}, nil
}

// stageTimings projects the measurable stage durations out of a
// timeline. Stages whose pairs are missing are skipped, not zeroed.
func stageTimings(timeline domain.Timeline) []TimingOutput {
	kinds := []domain.EventKind{
		domain.EventQuery,
		domain.EventEmbedding,
		domain.EventRetrieve,
		domain.EventSynthesize,
		domain.EventLLM,
	}
	var timings []TimingOutput
	for _, kind := range kinds {
		if d, ok := timeline.Duration(kind); ok {
			timings = append(timings, TimingOutput{
				Stage:   kind.String(),
				Seconds: d.Round(time.Microsecond).Seconds(),
			})
		}
	}
	return timings
}
