package domain

// ModelConfig is the endpoint/credential/model triple for one
// OpenAI-compatible service.
type ModelConfig struct {
	// BaseURL is the service root, e.g. "https://api.example.com/v1".
	BaseURL string

	// APIKey is the bearer credential.
	APIKey string

	// Model is the model identifier sent with every request.
	Model string
}

// IsComplete reports whether every field is set. The configuration
// loader turns an incomplete triple into ErrConfigIncomplete naming the
// missing values before anything touches the network.
func (c ModelConfig) IsComplete() bool {
	return c.BaseURL != "" && c.APIKey != "" && c.Model != ""
}

// EndpointConfig holds the two model endpoints the pipeline needs.
// The answering model and the embedding model are configured
// independently and may live on different services.
type EndpointConfig struct {
	// LLM generates answers.
	LLM ModelConfig

	// Embed computes embeddings.
	Embed ModelConfig
}
