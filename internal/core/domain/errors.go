package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceMissing indicates a required source file does not exist.
	// Enrichment cannot proceed without the raw content list.
	ErrSourceMissing = errors.New("source file missing")

	// ErrConfigIncomplete indicates required model configuration is absent.
	// Raised before any network call; the message names every missing value.
	ErrConfigIncomplete = errors.New("model configuration incomplete")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answer synthesis is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Index population and retrieval are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrCollectionUnavailable indicates the vector collection is not configured.
	ErrCollectionUnavailable = errors.New("vector collection unavailable")

	// ErrNoAnswer indicates the model returned no usable answer content.
	ErrNoAnswer = errors.New("no answer generated")

	// ErrExtractionFailed indicates document extraction did not produce output.
	// Within a batch this is per-document; the batch itself continues.
	ErrExtractionFailed = errors.New("extraction failed")
)
