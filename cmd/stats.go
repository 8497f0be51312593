package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base, cache, and spend statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	kb, err := a.retriever.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	fmt.Println("Knowledge base:")
	fmt.Printf("  Notes:   %d\n", kb.TotalNotes)
	fmt.Printf("  Indexed: %d\n", kb.IndexedNotes)
	fmt.Printf("  Tags:    %d\n", len(kb.Tags))

	cs, err := a.cache.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("reading cache stats: %w", err)
	}
	fmt.Println("\nResponse cache:")
	fmt.Printf("  Entries: %d (%d valid, %d expired)\n", cs.Total, cs.Valid, cs.Expired)
	fmt.Printf("  Hits:    %d (hit rate %.1f%%)\n", cs.TotalHits, cs.HitRate)

	usage, err := a.usage.Totals(ctx)
	if err != nil {
		return fmt.Errorf("reading usage totals: %w", err)
	}
	fmt.Println("\nGeneration usage:")
	fmt.Printf("  Calls:  %d (%d served from cache)\n", usage.Calls, usage.CachedCalls)
	fmt.Printf("  Tokens: %d in / %d out\n", usage.InputTokens, usage.OutputTokens)
	fmt.Printf("  Spend:  $%.4f\n", usage.CostUSD)

	return nil
}
