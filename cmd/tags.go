package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags, trending topics, or untagged notes",
	RunE:  runTags,
}

func init() {
	tagsCmd.Flags().Bool("trending", false, "show tag frequencies over recent notes instead")
	tagsCmd.Flags().Int("days", 30, "window for --trending, in days")
	tagsCmd.Flags().Bool("orphans", false, "list notes carrying no tags instead")
	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	trending, _ := cmd.Flags().GetBool("trending")
	days, _ := cmd.Flags().GetInt("days")
	orphans, _ := cmd.Flags().GetBool("orphans")

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	switch {
	case orphans:
		list, err := a.engine.OrphanNotes(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No untagged notes.")
			return nil
		}
		fmt.Printf("%d untagged note(s):\n", len(list))
		for _, o := range list {
			fmt.Printf("  - %s (%s)\n", o.Title, o.Path)
		}

	case trending:
		topics, err := a.engine.TrendingTopics(ctx, days, 10)
		if err != nil {
			return err
		}
		if len(topics) == 0 {
			fmt.Printf("No tagged notes in the last %d days.\n", days)
			return nil
		}
		fmt.Printf("Trending topics (last %d days):\n", days)
		for _, t := range topics {
			fmt.Printf("  %3d  %s\n", t.Count, t.Tag)
		}

	default:
		tags, err := a.meta.DistinctTags(ctx)
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			fmt.Println("No tags found.")
			return nil
		}
		for _, tag := range tags {
			fmt.Println(tag)
		}
	}
	return nil
}
