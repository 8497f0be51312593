package config

// ProviderType identifies an embedding or generation provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
	// ProviderNone disables LLM generation; answers fall back to the
	// local templated renderer.
	ProviderNone ProviderType = "none"
)

// Config is the top-level notebase configuration, corresponding to .notebase.yml.
type Config struct {
	NotesDir          string       `yaml:"notes_dir" koanf:"notes_dir"`
	DataDir           string       `yaml:"data_dir" koanf:"data_dir"`
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	TopK              int          `yaml:"top_k" koanf:"top_k"`
	CacheTTLHours     int          `yaml:"cache_ttl_hours" koanf:"cache_ttl_hours"`
	Include           []string     `yaml:"include" koanf:"include"`
	Exclude           []string     `yaml:"exclude" koanf:"exclude"`
	Server            ServerConfig `yaml:"server" koanf:"server"`
}

// ServerConfig holds HTTP API server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
