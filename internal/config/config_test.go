package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	def := DefaultConfig()
	if cfg.NotesDir != def.NotesDir {
		t.Errorf("NotesDir = %q, want default %q", cfg.NotesDir, def.NotesDir)
	}
	if cfg.Provider != ProviderNone {
		t.Errorf("Provider = %q, want none", cfg.Provider)
	}
	if cfg.TopK != 5 || cfg.CacheTTLHours != 24 {
		t.Errorf("TopK/TTL = %d/%d, want 5/24", cfg.TopK, cfg.CacheTTLHours)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".notebase.yml")
	content := `notes_dir: /vault
provider: openai
model: gpt-4o
top_k: 8
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NotesDir != "/vault" {
		t.Errorf("NotesDir = %q", cfg.NotesDir)
	}
	if cfg.Provider != ProviderOpenAI || cfg.Model != "gpt-4o" {
		t.Errorf("provider/model = %q/%q", cfg.Provider, cfg.Model)
	}
	if cfg.TopK != 8 {
		t.Errorf("TopK = %d, want 8", cfg.TopK)
	}
	// Unset fields keep their defaults.
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %q, want default", cfg.EmbeddingModel)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".notebase.yml")
	if err := os.WriteFile(path, []byte("notes_dir: /vault\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("NOTEBASE_NOTES_DIR", "/elsewhere")
	t.Setenv("NOTEBASE_TOP_K", "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NotesDir != "/elsewhere" {
		t.Errorf("NotesDir = %q, env should win over file", cfg.NotesDir)
	}
	if cfg.TopK != 3 {
		t.Errorf("TopK = %d, want 3 from env", cfg.TopK)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".notebase.yml")

	cfg := DefaultConfig()
	cfg.NotesDir = "/my/notes"
	cfg.Provider = ProviderOllama
	cfg.Model = "llama3.2"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.NotesDir != "/my/notes" || loaded.Provider != ProviderOllama || loaded.Model != "llama3.2" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"missing notes dir", func(c *Config) { c.NotesDir = "" }, true},
		{"missing data dir", func(c *Config) { c.DataDir = "" }, true},
		{"bad provider", func(c *Config) { c.Provider = "anthropic" }, true},
		{"provider none needs no model", func(c *Config) { c.Provider = ProviderNone; c.Model = "" }, false},
		{"provider without model", func(c *Config) { c.Provider = ProviderOpenAI; c.Model = "" }, true},
		{"bad embedding provider", func(c *Config) { c.EmbeddingProvider = "none" }, true},
		{"zero top_k", func(c *Config) { c.TopK = 0 }, true},
		{"negative ttl", func(c *Config) { c.CacheTTLHours = -1 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	if got := APIKeyEnvVar(ProviderOpenAI); got != "OPENAI_API_KEY" {
		t.Errorf("APIKeyEnvVar(openai) = %q", got)
	}
	if got := APIKeyEnvVar(ProviderOllama); got != "" {
		t.Errorf("APIKeyEnvVar(ollama) = %q, want empty", got)
	}
}
