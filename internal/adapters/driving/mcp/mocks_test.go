package mcp

import (
	"context"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	answer domain.Answer
	err    error

	lastQuestion string
}

func (m *mockAskService) Ask(_ context.Context, question string) (domain.Answer, error) {
	m.lastQuestion = question
	return m.answer, m.err
}

// mockReferenceService is a mock implementation of driving.ReferenceService.
type mockReferenceService struct {
	refs domain.ReferenceMap
	err  error
}

func (m *mockReferenceService) Load(_ context.Context) (domain.ReferenceMap, error) {
	return m.refs, m.err
}

func (m *mockReferenceService) Resolve(_ context.Context, chunkID string) (domain.ContentItem, error) {
	if m.err != nil {
		return domain.ContentItem{}, m.err
	}
	item, ok := m.refs.Lookup(chunkID)
	if !ok {
		return domain.ContentItem{}, domain.ErrNotFound
	}
	return item, nil
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	status domain.IndexStatus
	err    error
	calls  int
}

func (m *mockIndexService) EnsureReady(_ context.Context) (domain.IndexStatus, error) {
	m.calls++
	return m.status, m.err
}
