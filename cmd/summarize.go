package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [topic]",
	Short: "Summarize what your notes say about a topic",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

func init() {
	summarizeCmd.Flags().Int("limit", 0, "number of notes to include (default from config)")
	summarizeCmd.Flags().Bool("json", false, "output the full result as JSON")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.engine.Summarize(context.Background(), args[0], limit)
	if err != nil {
		return fmt.Errorf("summarize failed: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Println(res.Summary)
	if res.NoteCount > 0 {
		fmt.Printf("\n(%d notes)\n", res.NoteCount)
	}
	return nil
}
