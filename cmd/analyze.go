package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [query]",
	Short: "Map themes and connections across notes about a topic",
	Long: `Retrieves notes for the query and reports which tags they share:
every pair of notes with overlapping tags becomes a connection, and
each tag becomes a theme listing the notes carrying it.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Int("limit", 0, "number of notes to analyze (default from config)")
	analyzeCmd.Flags().Bool("json", false, "output the full result as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.engine.Analyze(context.Background(), args[0], limit)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Println(res.Summary)
	return nil
}
