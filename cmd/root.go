package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "notebase",
	Short: "Semantic search and synthesis over your personal notes",
	Long: `Notebase indexes a directory of markdown notes into a local vector
database and answers questions, writes summaries, and surfaces
connections across your knowledge base. Generation can run against
OpenAI or a local Ollama model, or be skipped entirely for a fully
offline, retrieval-only mode.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".notebase.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
