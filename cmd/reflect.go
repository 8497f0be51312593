package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var reflectCmd = &cobra.Command{
	Use:   "reflect",
	Short: "Generate a reflection over recently modified notes",
	Long: `Reviews every note modified within the window and reports topic
frequencies, headline insights, and the most recent notes. This reads
the metadata store directly; no vector search is involved.`,
	RunE: runReflect,
}

func init() {
	reflectCmd.Flags().Int("days", 7, "window size in days")
	reflectCmd.Flags().Bool("json", false, "output the full result as JSON")
	rootCmd.AddCommand(reflectCmd)
}

func runReflect(cmd *cobra.Command, args []string) error {
	days, _ := cmd.Flags().GetInt("days")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.engine.Reflect(context.Background(), days)
	if err != nil {
		return fmt.Errorf("reflect failed: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Println(res.Summary)
	return nil
}
