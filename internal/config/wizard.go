package config

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
)

// defaultModelFor maps a generation provider to its default model.
func defaultModelFor(p ProviderType) string {
	switch p {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderOllama:
		return "llama3"
	default:
		return ""
	}
}

// defaultEmbeddingFor maps an embedding provider to its default model.
func defaultEmbeddingFor(p ProviderType) string {
	if p == ProviderOllama {
		return "nomic-embed-text"
	}
	return "text-embedding-3-small"
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .notebase.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to notebase! Let's configure your knowledge base.")
	fmt.Println()

	// 1. Notes directory.
	notesPrompt := promptui.Prompt{
		Label:   "Notes directory",
		Default: "notes",
	}
	notesDir, err := notesPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("notes dir: %w", err)
	}

	// 2. Embedding provider.
	embedPrompt := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{"openai", "ollama"},
	}
	_, embedStr, err := embedPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding provider selection: %w", err)
	}
	embedProvider := ProviderType(embedStr)

	// 3. Generation provider (optional).
	genPrompt := promptui.Select{
		Label: "Select answer-generation provider",
		Items: []string{
			"none   - templated answers only, no API calls",
			"openai - synthesized answers via OpenAI",
			"ollama - synthesized answers via local Ollama",
		},
	}
	genIdx, _, err := genPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("generation provider selection: %w", err)
	}
	providers := []ProviderType{ProviderNone, ProviderOpenAI, ProviderOllama}
	provider := providers[genIdx]

	// 4. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory for index and cache",
		Default: ".notebase",
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	cfg := DefaultConfig()
	cfg.NotesDir = notesDir
	cfg.DataDir = dataDir
	cfg.Provider = provider
	cfg.Model = defaultModelFor(provider)
	cfg.EmbeddingProvider = embedProvider
	cfg.EmbeddingModel = defaultEmbeddingFor(embedProvider)

	// Check for API key.
	for _, p := range []ProviderType{embedProvider, provider} {
		envVar := APIKeyEnvVar(p)
		if envVar != "" && os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running notebase index.\n", envVar)
			break
		}
	}

	configPath := ".notebase.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
