package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driven"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driving"
	"github.com/tracedoc-labs/tracedoc/internal/logger"
)

// Ensure AskService implements the interfaces.
var (
	_ driving.AskService      = (*AskService)(nil)
	_ driven.PromptStoreAware = (*AskService)(nil)
)

// defaultTopK is how many chunks are retrieved per question.
const defaultTopK = 3

// qaPromptTemplate frames the retrieved context and the question.
// Answers are grounded in the context alone, not the model's prior
// knowledge.
const qaPromptTemplate = `Context information is below.
---------------------
%s
---------------------
Given the context information and not prior knowledge, answer the query.
Query: %s
Answer: `

// vectorPreviewDims is how many leading dimensions of the question
// embedding are kept in the trace. Never the full vector.
const vectorPreviewDims = 5

// AskService answers one question at a time over the indexed corpus.
//
// Every call gets a fresh trace recorder, so back-to-back questions in
// one process can never interleave or leak timelines. The root query
// pair is closed in a defer: a run that fails partway still yields a
// renderable partial trace on the returned answer.
type AskService struct {
	embedder   driven.EmbeddingService
	collection driven.VectorCollection
	llm        driven.LLMService
	references driving.ReferenceService
	prompts    driven.PromptStore
	topK       int
	clock      func() time.Time
}

// NewAskService creates a new ask service. topK values below one fall
// back to the default.
func NewAskService(
	embedder driven.EmbeddingService,
	collection driven.VectorCollection,
	llm driven.LLMService,
	references driving.ReferenceService,
	topK int,
) *AskService {
	if topK < 1 {
		topK = defaultTopK
	}
	return &AskService{
		embedder:   embedder,
		collection: collection,
		llm:        llm,
		references: references,
		topK:       topK,
		clock:      time.Now,
	}
}

// SetClock overrides the trace timestamp source. Tests pin it.
func (s *AskService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// SetPromptStore enables customisable QA prompt templates. Without a
// store, the built-in template is used.
func (s *AskService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Ask runs the full pipeline for one question: embed, retrieve,
// synthesise. The returned answer always carries the timeline of this
// call, even when err is non-nil.
func (s *AskService) Ask(ctx context.Context, question string) (answer domain.Answer, err error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	logger.Section("Query Execution")
	logger.Debug("Question: %q", question)

	rec := domain.NewRecorderWithClock(s.clock)
	rec.Begin(domain.EventQuery, domain.EventPayload{Input: question})
	defer func() {
		rec.End(domain.EventQuery, domain.EventPayload{})
		answer.Trace = rec.Timeline()
	}()

	rec.Begin(domain.EventEmbedding, domain.EventPayload{Input: question})
	vector, embedErr := s.embedder.Embed(ctx, question)
	if embedErr != nil {
		err = fmt.Errorf("embed question: %w", embedErr)
		return answer, err
	}
	rec.End(domain.EventEmbedding, domain.EventPayload{
		VectorPreview: vectorPreview(vector),
		VectorDim:     len(vector),
	})
	logger.Debug("Question embedded: %d dimensions", len(vector))

	rec.Begin(domain.EventRetrieve, domain.EventPayload{})
	hits, queryErr := s.collection.Query(ctx, vector, s.topK)
	if queryErr != nil {
		err = fmt.Errorf("retrieve chunks: %w", queryErr)
		return answer, err
	}
	rec.End(domain.EventRetrieve, domain.EventPayload{Hits: hits})
	logger.Info("Retrieved %d of %d requested chunks", len(hits), s.topK)

	rec.Begin(domain.EventSynthesize, domain.EventPayload{})
	prompt := s.buildPrompt(hits, question)
	rec.Begin(domain.EventLLM, domain.EventPayload{Prompt: prompt})
	completion, llmErr := s.llm.Complete(ctx, prompt, driven.CompleteOptions{})
	if llmErr != nil {
		err = fmt.Errorf("generate answer: %w", llmErr)
		return answer, err
	}
	rec.End(domain.EventLLM, domain.EventPayload{Content: completion.Content, Raw: completion.Raw})
	rec.End(domain.EventSynthesize, domain.EventPayload{})

	text := strings.TrimSpace(completion.Content)
	if text == "" {
		err = domain.ErrNoAnswer
		return answer, err
	}

	answer.Text = text
	answer.Sources = hits
	answer.Inconsistencies = s.checkReferences(ctx, hits)
	return answer, nil
}

// checkReferences verifies every retrieved chunk resolves in the
// reference map. Misses are reported on the answer, never fatal: a
// diverged corpus should degrade provenance, not answering.
func (s *AskService) checkReferences(ctx context.Context, hits []domain.VectorHit) []string {
	refs, err := s.references.Load(ctx)
	if err != nil {
		logger.Warn("Reference map unavailable, skipping consistency check: %v", err)
		return nil
	}
	var missing []string
	for _, hit := range hits {
		if _, ok := refs.Lookup(hit.ChunkID); !ok {
			logger.Warn("Retrieved chunk %s not in reference map", hit.ChunkID)
			missing = append(missing, hit.ChunkID)
		}
	}
	return missing
}

// buildPrompt assembles the QA prompt from the retrieved chunks, in the
// order the collection ranked them.
func (s *AskService) buildPrompt(hits []domain.VectorHit, question string) string {
	blocks := make([]string, 0, len(hits))
	for _, hit := range hits {
		blocks = append(blocks, fmt.Sprintf("[page %d] (%s)\n%s", hit.Page, hit.ChunkID, hit.Text))
	}
	template := qaPromptTemplate
	if s.prompts != nil {
		if custom, err := s.prompts.Load(driven.PromptQA); err == nil && custom != "" {
			template = custom
		}
	}
	return fmt.Sprintf(template, strings.Join(blocks, "\n\n"), question)
}

func vectorPreview(vector []float32) []float32 {
	n := vectorPreviewDims
	if len(vector) < n {
		n = len(vector)
	}
	preview := make([]float32, n)
	copy(preview, vector[:n])
	return preview
}
