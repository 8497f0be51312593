package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache totals and hit rate",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.cache.GetStats(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Entries:  %d\n", stats.Total)
		fmt.Printf("Valid:    %d\n", stats.Valid)
		fmt.Printf("Expired:  %d\n", stats.Expired)
		fmt.Printf("Hits:     %d\n", stats.TotalHits)
		fmt.Printf("Hit rate: %.1f%%\n", stats.HitRate)
		return nil
	},
}

var cacheSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		removed, err := a.cache.SweepExpired(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d expired entries\n", removed)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cache entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		removed, err := a.cache.ClearAll(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d entries\n", removed)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheSweepCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
