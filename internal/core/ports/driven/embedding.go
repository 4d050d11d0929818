// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from VectorCollection which stores and ranks
// vectors. EmbeddingService generates vectors; VectorCollection stores them.
//
// Implementations may include:
//   - OpenAI-compatible inference servers (vLLM, LM Studio, llama.cpp)
//   - Hosted OpenAI-style APIs
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one request.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536, 3072).
	// Zero until the first embedding has been computed when the model is
	// not recognised up front.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	// Used at startup to verify connectivity before index population begins.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
