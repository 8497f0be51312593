package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/notebase/internal/retriever"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Semantically search your notes",
	Long: `Embeds the query and returns the closest notes from the vector index,
optionally narrowed by tags or a recency window.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 0, "maximum number of results (default from config)")
	searchCmd.Flags().StringSlice("tags", nil, "only return notes carrying any of these tags")
	searchCmd.Flags().Int("days", 0, "only return notes modified in the last N days")
	searchCmd.Flags().Bool("hybrid", false, "merge semantic and keyword matches")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := args[0]

	limit, _ := cmd.Flags().GetInt("limit")
	tags, _ := cmd.Flags().GetStringSlice("tags")
	days, _ := cmd.Flags().GetInt("days")
	hybrid, _ := cmd.Flags().GetBool("hybrid")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	opts := retriever.SearchOptions{TopK: limit, FilterTags: tags}
	if days > 0 {
		start := float64(time.Now().AddDate(0, 0, -days).UnixNano()) / 1e9
		opts.Start = &start
	}

	var results []retriever.Result
	if hybrid {
		results, err = a.retriever.SearchHybrid(ctx, query, opts)
	} else {
		results, err = a.retriever.Search(ctx, query, opts)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		if results == nil {
			results = []retriever.Result{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No matching notes found.")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%d. %s (relevance %.2f)\n", i+1, r.Title, r.RelevanceScore)
		if len(r.Tags) > 0 {
			fmt.Printf("   Tags: %s\n", strings.Join(r.Tags, ", "))
		}
		fmt.Printf("   %s\n", r.Path)
	}
	return nil
}
