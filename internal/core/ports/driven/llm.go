// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService generates answer text from assembled prompts.
//
// Implementations may include:
//   - OpenAI-compatible inference servers (vLLM, LM Studio, llama.cpp)
//   - Hosted OpenAI-style APIs
type LLMService interface {
	// Complete produces a completion for the prompt. The returned
	// Completion carries both the answer text and the unparsed response
	// body so callers can attach the raw exchange to a trace.
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (Completion, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompleteOptions configures text generation behaviour.
type CompleteOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	// Zero applies the service default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// Stop are sequences that stop generation when encountered.
	Stop []string
}

// Completion is the outcome of one model call.
type Completion struct {
	// Content is the generated answer text.
	Content string

	// Raw is the unparsed response body, preserved for trace capture.
	Raw string
}
