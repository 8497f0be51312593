package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from your notes",
	Long: `Retrieves the notes most relevant to the question and composes an
answer from them. With a generation provider configured the answer is
synthesized by the model; otherwise a formatted extract of the top
notes is returned.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Int("limit", 0, "number of notes to draw on (default from config)")
	askCmd.Flags().Bool("json", false, "output the full result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.engine.Answer(context.Background(), args[0], limit)
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Println(res.Answer)
	if len(res.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range res.Sources {
			fmt.Printf("  - %s (relevance %.2f)\n", src.Title, src.RelevanceScore)
		}
	}
	fmt.Printf("\nConfidence: %.2f\n", res.Confidence)
	return nil
}
