package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ziadkadry99/notebase/internal/cache"
	"github.com/ziadkadry99/notebase/internal/config"
	"github.com/ziadkadry99/notebase/internal/db"
	"github.com/ziadkadry99/notebase/internal/embeddings"
	"github.com/ziadkadry99/notebase/internal/llm"
	"github.com/ziadkadry99/notebase/internal/metadata"
	"github.com/ziadkadry99/notebase/internal/notes"
	"github.com/ziadkadry99/notebase/internal/retriever"
	"github.com/ziadkadry99/notebase/internal/synth"
	"github.com/ziadkadry99/notebase/internal/vectordb"
)

// liveCallRPM caps live generation calls per minute; cache hits are
// not limited.
const liveCallRPM = 30

// app bundles everything a command needs once stores are open.
type app struct {
	cfg       *config.Config
	db        *db.DB
	meta      *metadata.Store
	cache     *cache.ResponseCache
	usage     *llm.UsageLog
	retriever *retriever.Retriever
	engine    *synth.Engine
}

// Close releases the underlying database.
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// buildApp opens every store and wires the retrieval and synthesis
// stack from config. Callers must Close the returned app.
func buildApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	database, err := db.Open(filepath.Join(cfg.DataDir, "notebase.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	embedder, err := createEmbedder(cfg)
	if err != nil {
		database.Close()
		return nil, err
	}

	index, err := vectordb.NewPersistent(filepath.Join(cfg.DataDir, "vectors"), embedder)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("opening vector index: %w", err)
	}

	meta := metadata.NewStore(database)
	responseCache := cache.New(database, time.Duration(cfg.CacheTTLHours)*time.Hour)
	usage := llm.NewUsageLog(database)
	loader := notes.NewLoader(cfg.NotesDir, cfg.Include, cfg.Exclude)
	rtr := retriever.New(loader, meta, index, embedder, cfg.TopK)

	provider, err := createProvider(cfg, responseCache, usage)
	if err != nil {
		database.Close()
		return nil, err
	}

	return &app{
		cfg:       cfg,
		db:        database,
		meta:      meta,
		cache:     responseCache,
		usage:     usage,
		retriever: rtr,
		engine:    synth.New(rtr, meta, provider, cfg.Model),
	}, nil
}

// loadConfig loads and validates the config with a friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `notebase init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createEmbedder creates an embeddings.Embedder from config.
func createEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel)), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, 768, os.Getenv("OLLAMA_HOST")), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.EmbeddingProvider)
	}
}

// createProvider builds the generation provider chain from config:
// live provider -> rate limiter -> response cache with usage logging.
// Returns nil when generation is disabled.
func createProvider(cfg *config.Config, responseCache *cache.ResponseCache, usage *llm.UsageLog) (llm.Provider, error) {
	if cfg.Provider == "" || cfg.Provider == config.ProviderNone {
		return nil, nil
	}

	raw, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("creating provider: %w", err)
	}

	limited := llm.NewRateLimitedProvider(raw, liveCallRPM)
	return llm.NewCachedProvider(limited, responseCache, usage), nil
}
