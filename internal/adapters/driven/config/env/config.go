// Package env loads model endpoint configuration from environment
// variables. A .env file, if present, is loaded into the environment by
// the entry point before this package reads it.
package env

import (
	"fmt"
	"os"
	"strings"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

// Environment variable names for the two model endpoints.
const (
	EnvLLMAPIBase   = "LLM_API_BASE"
	EnvLLMAPIKey    = "LLM_API_KEY"
	EnvLLMModelName = "LLM_MODEL_NAME"

	EnvEmbedAPIBase   = "EMBED_API_BASE"
	EnvEmbedAPIKey    = "EMBED_API_KEY"
	EnvEmbedModelName = "EMBED_MODEL_NAME"
)

// LoadEndpointConfig reads both model endpoint triples from the
// environment. Every missing variable is named in one error, raised
// before any network call is attempted.
func LoadEndpointConfig() (domain.EndpointConfig, error) {
	llm, llmMissing := loadModelConfig(EnvLLMAPIBase, EnvLLMAPIKey, EnvLLMModelName)
	embed, embedMissing := loadModelConfig(EnvEmbedAPIBase, EnvEmbedAPIKey, EnvEmbedModelName)

	if missing := append(llmMissing, embedMissing...); len(missing) > 0 {
		return domain.EndpointConfig{}, missingError(missing)
	}
	return domain.EndpointConfig{LLM: llm, Embed: embed}, nil
}

// LoadLLMConfig reads only the LLM endpoint triple, for deployments
// where the embedding side comes from elsewhere.
func LoadLLMConfig() (domain.ModelConfig, error) {
	cfg, missing := loadModelConfig(EnvLLMAPIBase, EnvLLMAPIKey, EnvLLMModelName)
	if len(missing) > 0 {
		return domain.ModelConfig{}, missingError(missing)
	}
	return cfg, nil
}

// LoadEmbedConfig reads only the embedding endpoint triple.
func LoadEmbedConfig() (domain.ModelConfig, error) {
	cfg, missing := loadModelConfig(EnvEmbedAPIBase, EnvEmbedAPIKey, EnvEmbedModelName)
	if len(missing) > 0 {
		return domain.ModelConfig{}, missingError(missing)
	}
	return cfg, nil
}

func loadModelConfig(baseVar, keyVar, modelVar string) (domain.ModelConfig, []string) {
	cfg := domain.ModelConfig{
		BaseURL: os.Getenv(baseVar),
		APIKey:  os.Getenv(keyVar),
		Model:   os.Getenv(modelVar),
	}

	var missing []string
	missing = appendMissing(missing, baseVar, cfg.BaseURL)
	missing = appendMissing(missing, keyVar, cfg.APIKey)
	missing = appendMissing(missing, modelVar, cfg.Model)
	return cfg, missing
}

func missingError(missing []string) error {
	return fmt.Errorf("%w: set %s in the environment or a .env file",
		domain.ErrConfigIncomplete, strings.Join(missing, ", "))
}

func appendMissing(missing []string, name, value string) []string {
	if strings.TrimSpace(value) == "" {
		return append(missing, name)
	}
	return missing
}
