package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/notebase/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a notebase config file interactively",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(cfgFile); err == nil && !force {
		return fmt.Errorf("%s already exists; use --force to overwrite", cfgFile)
	}

	cfg, err := config.RunWizard()
	if err != nil {
		return fmt.Errorf("wizard aborted: %w", err)
	}

	if err := cfg.Save(cfgFile); err != nil {
		return err
	}

	fmt.Printf("\nWrote %s\n", cfgFile)
	fmt.Println("Next: run `notebase index` to build the knowledge base.")
	if cfg.EmbeddingProvider == config.ProviderOpenAI || cfg.Provider == config.ProviderOpenAI {
		fmt.Println("Remember to export OPENAI_API_KEY first.")
	}
	return nil
}
