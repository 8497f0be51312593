package config

// DefaultExcludes are glob patterns the note scanner skips by default.
var DefaultExcludes = []string{
	".git/**",
	".obsidian/**",
	".trash/**",
	"templates/**",
	"node_modules/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		NotesDir:          "notes",
		DataDir:           ".notebase",
		Provider:          ProviderNone,
		Model:             "gpt-4o-mini",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		TopK:              5,
		CacheTTLHours:     24,
		Include:           []string{"**/*.md"},
		Exclude:           DefaultExcludes,
		Server: ServerConfig{
			Port: 8787,
		},
	}
}
