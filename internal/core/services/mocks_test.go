package services

import (
	"context"
	"fmt"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driven"
)

// --- Mock implementations shared across service tests ---

// mockContentStore implements driven.ContentStore in memory.
type mockContentStore struct {
	raw    []domain.ContentItem
	rawErr error

	enriched    []domain.ContentItem
	enrichedSet bool
	readCalls   int

	writeErr   error
	writeCalls int

	existsErr error
}

func (m *mockContentStore) ReadRaw(_ context.Context) ([]domain.ContentItem, error) {
	if m.rawErr != nil {
		return nil, m.rawErr
	}
	if m.raw == nil {
		return nil, fmt.Errorf("%s: %w", m.RawPath(), domain.ErrSourceMissing)
	}
	out := make([]domain.ContentItem, len(m.raw))
	copy(out, m.raw)
	return out, nil
}

func (m *mockContentStore) ReadEnriched(_ context.Context) ([]domain.ContentItem, error) {
	m.readCalls++
	if !m.enrichedSet {
		return nil, fmt.Errorf("%s: %w", m.EnrichedPath(), domain.ErrNotFound)
	}
	out := make([]domain.ContentItem, len(m.enriched))
	copy(out, m.enriched)
	return out, nil
}

func (m *mockContentStore) WriteEnriched(_ context.Context, items []domain.ContentItem) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writeCalls++
	m.enriched = make([]domain.ContentItem, len(items))
	copy(m.enriched, items)
	m.enrichedSet = true
	return nil
}

func (m *mockContentStore) EnrichedExists(_ context.Context) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.enrichedSet, nil
}

func (m *mockContentStore) RawPath() string      { return "/corpus/doc_content_list.json" }
func (m *mockContentStore) EnrichedPath() string { return "/corpus/doc_content_list_enriched.json" }

// mockCollection implements driven.VectorCollection for testing.
type mockCollection struct {
	count      int
	countErr   error
	countCalls int

	added  []domain.VectorRecord
	addErr error

	hits       []domain.VectorHit
	queryErr   error
	queryCalls int
	lastK      int
}

func (m *mockCollection) Count(_ context.Context) (int, error) {
	m.countCalls++
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.count, nil
}

func (m *mockCollection) AddBatch(_ context.Context, records []domain.VectorRecord) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, records...)
	m.count += len(records)
	return nil
}

func (m *mockCollection) Query(_ context.Context, _ []float32, k int) ([]domain.VectorHit, error) {
	m.queryCalls++
	m.lastK = k
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockCollection) Close() error { return nil }

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding  []float32
	embedErr   error
	batchErr   error
	batchCalls [][]string
	dims       int
	model      string
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	batch := make([]string, len(texts))
	copy(batch, texts)
	m.batchCalls = append(m.batchCalls, batch)

	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(len(texts[i])), float32(i)}
	}
	return vectors, nil
}

func (m *mockEmbeddingService) Dimensions() int { return m.dims }

func (m *mockEmbeddingService) ModelName() string {
	if m.model == "" {
		return "mock-embed"
	}
	return m.model
}

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	content     string
	raw         string
	completeErr error
	prompts     []string
}

func (m *mockLLMService) Complete(_ context.Context, prompt string, _ driven.CompleteOptions) (driven.Completion, error) {
	m.prompts = append(m.prompts, prompt)
	if m.completeErr != nil {
		return driven.Completion{}, m.completeErr
	}
	raw := m.raw
	if raw == "" {
		raw = fmt.Sprintf(`{"choices":[{"message":{"content":%q}}]}`, m.content)
	}
	return driven.Completion{Content: m.content, Raw: raw}, nil
}

func (m *mockLLMService) ModelName() string           { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                { return nil }

// mockReferenceService implements driving.ReferenceService for testing.
type mockReferenceService struct {
	refs    domain.ReferenceMap
	loadErr error
}

func (m *mockReferenceService) Load(_ context.Context) (domain.ReferenceMap, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.refs == nil {
		return domain.ReferenceMap{}, nil
	}
	return m.refs, nil
}

func (m *mockReferenceService) Resolve(ctx context.Context, chunkID string) (domain.ContentItem, error) {
	refs, err := m.Load(ctx)
	if err != nil {
		return domain.ContentItem{}, err
	}
	item, ok := refs.Lookup(chunkID)
	if !ok {
		return domain.ContentItem{}, domain.ErrNotFound
	}
	return item, nil
}

// mockExtractor implements driven.Extractor for testing.
type mockExtractor struct {
	failNames map[string]error
	requests  []driven.ExtractRequest
}

func (m *mockExtractor) ExtractDocument(_ context.Context, req driven.ExtractRequest) (driven.ExtractResult, error) {
	m.requests = append(m.requests, req)
	name := req.FilePath
	for failName, failErr := range m.failNames {
		if len(name) >= len(failName) && name[len(name)-len(failName):] == failName {
			return driven.ExtractResult{}, failErr
		}
	}
	return driven.ExtractResult{
		ContentList: []byte(`[{"type":"text","text":"extracted","page_idx":0}]`),
		Markdown:    []byte("# extracted\n"),
	}, nil
}

func (m *mockExtractor) Ping(_ context.Context) error { return nil }
