package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/tracedoc-labs/tracedoc/internal/adapters/driven/config/env"
	"github.com/tracedoc-labs/tracedoc/internal/adapters/driven/config/file"
	embedollama "github.com/tracedoc-labs/tracedoc/internal/adapters/driven/embedding/ollama"
	embedopenai "github.com/tracedoc-labs/tracedoc/internal/adapters/driven/embedding/openai"
	"github.com/tracedoc-labs/tracedoc/internal/adapters/driven/extract/mineruweb"
	llmanthropic "github.com/tracedoc-labs/tracedoc/internal/adapters/driven/llm/anthropic"
	llmollama "github.com/tracedoc-labs/tracedoc/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/tracedoc-labs/tracedoc/internal/adapters/driven/llm/openai"
	"github.com/tracedoc-labs/tracedoc/internal/adapters/driven/storage/jsonfile"
	"github.com/tracedoc-labs/tracedoc/internal/adapters/driven/storage/sqlite"
	"github.com/tracedoc-labs/tracedoc/internal/adapters/driving/cli"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driven"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driving"
	"github.com/tracedoc-labs/tracedoc/internal/core/services"
	"github.com/tracedoc-labs/tracedoc/internal/logger"
	"github.com/tracedoc-labs/tracedoc/internal/progress"
)

// version is set at build time via -ldflags.
var version = "dev"

// Defaults for endpoints not covered by the environment or settings.
const defaultExtractorURL = "http://localhost:8888"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file in the working directory provides the endpoint
	// variables; a missing file is not an error.
	_ = godotenv.Load()

	// Wiring happens before cobra parses flags, so the verbose switch
	// must be picked up here for startup diagnostics to appear.
	for _, arg := range os.Args[1:] {
		if arg == "-v" || arg == "--verbose" {
			logger.SetVerbose(true)
		}
	}

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	dataDir := configStore.GetString("workspace.data_dir")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".tracedoc", "data")
	}

	contentStore := jsonfile.NewContentStore(contentListPath(configStore, dataDir))
	enrichService := services.NewEnrichService(contentStore)
	referenceService := services.NewReferenceService(contentStore)

	collection, err := sqlite.NewCollection(dataDir)
	if err != nil {
		return fmt.Errorf("opening vector collection: %w", err)
	}
	defer collection.Close()

	// The model endpoints are optional at startup. Commands that need
	// them fail with a clear message when left unconfigured.
	var (
		askService   driving.AskService
		indexService driving.IndexService
	)

	embedder, err := buildEmbedder(configStore)
	if err != nil {
		logger.Warn("embedding endpoint not configured: %v", err)
	} else {
		indexService = services.NewIndexService(enrichService, contentStore, collection, embedder)
	}

	llm, err := buildLLM(configStore)
	if err != nil {
		logger.Warn("LLM endpoint not configured: %v", err)
	}

	if embedder != nil && llm != nil {
		ask := services.NewAskService(embedder, collection, llm, referenceService,
			configStore.GetInt("query.top_k"))
		if promptStore, err := file.NewPromptStore(""); err == nil {
			ask.SetPromptStore(promptStore)
		} else {
			logger.Warn("prompt store unavailable: %v", err)
		}
		askService = ask
	}

	extractor, err := mineruweb.NewExtractor(mineruweb.Config{
		BaseURL: extractorURL(configStore),
	})
	if err != nil {
		return fmt.Errorf("configuring extractor: %w", err)
	}

	parseFactory := func(narrate bool) driving.ParseService {
		svc := services.NewParseService(extractor, progress.New(narrate))
		if exts := configStore.GetStringSlice("parse.extensions"); len(exts) > 0 {
			svc.SetExtensions(exts)
		}
		return svc
	}

	cli.Wire(cli.Services{
		ParseFactory: parseFactory,
		Enrich:       enrichService,
		Index:        indexService,
		Ask:          askService,
		Reference:    referenceService,
		Config:       configStore,
	})
	cli.SetVersion(version)

	return cli.Execute()
}

// contentListPath locates the raw content list for the configured
// corpus. TRACEDOC_CONTENT_LIST overrides the derived location.
func contentListPath(configStore *file.ConfigStore, dataDir string) string {
	if path := os.Getenv("TRACEDOC_CONTENT_LIST"); path != "" {
		return path
	}

	corpus := configStore.GetString("workspace.corpus_name")
	if corpus == "" {
		corpus = "document"
	}
	return filepath.Join(dataDir, corpus, "auto", corpus+"_content_list.json")
}

// buildEmbedder constructs the embedding backend selected by
// "embedding.provider". The default is an OpenAI-compatible endpoint
// configured through the environment; "ollama" talks to a local Ollama
// server configured through the settings file.
func buildEmbedder(configStore *file.ConfigStore) (driven.EmbeddingService, error) {
	switch provider := configStore.GetString("embedding.provider"); provider {
	case "", "openai":
		cfg, err := env.LoadEmbedConfig()
		if err != nil {
			return nil, err
		}
		svc, err := embedopenai.NewEmbeddingService(embedopenai.Config{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	case "ollama":
		return embedollama.NewEmbeddingService(embedollama.Config{
			BaseURL: configStore.GetString("embedding.base_url"),
			Model:   configStore.GetString("embedding.model"),
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

// buildLLM constructs the completion backend selected by "llm.provider".
func buildLLM(configStore *file.ConfigStore) (driven.LLMService, error) {
	switch provider := configStore.GetString("llm.provider"); provider {
	case "", "openai":
		cfg, err := env.LoadLLMConfig()
		if err != nil {
			return nil, err
		}
		svc, err := llmopenai.NewLLMService(llmopenai.Config{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	case "ollama":
		return llmollama.NewLLMService(llmollama.LLMConfig{
			BaseURL: configStore.GetString("llm.base_url"),
			Model:   configStore.GetString("llm.model"),
		}), nil
	case "anthropic":
		svc, err := llmanthropic.NewLLMService(llmanthropic.Config{
			APIKey:  configStore.GetString("llm.api_key"),
			BaseURL: configStore.GetString("llm.base_url"),
			Model:   configStore.GetString("llm.model"),
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}

// extractorURL resolves the extraction service address: environment
// first, then the settings file, then the local default.
func extractorURL(configStore *file.ConfigStore) string {
	if url := os.Getenv("MINERU_API_BASE"); url != "" {
		return url
	}
	if url := configStore.GetString("parse.api_base"); url != "" {
		return url
	}
	return defaultExtractorURL
}
