package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/notebase/internal/progress"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index all notes into the metadata store and vector database",
	Long: `Scans the configured notes directory, stores each note's metadata,
embeds its content, and upserts the embeddings into the vector index.
Re-running on an unchanged directory overwrites in place and never
duplicates a note.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.retriever.IndexAll(context.Background(), progress.NewReporter("Indexing notes"))
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	if result.NotesLoaded == 0 {
		fmt.Printf("No notes found under %s\n", a.cfg.NotesDir)
		return nil
	}

	fmt.Printf("Indexed %d notes (%d loaded, %d metadata records stored)\n",
		result.NotesEmbedded, result.NotesLoaded, result.NotesStored)
	return nil
}
