package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/notebase/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve notes to AI agents over MCP on stdio",
	Long: `Runs a Model Context Protocol server exposing note search and
synthesis tools. Intended to be launched by an MCP client; stdout
carries protocol messages, so all diagnostics go to stderr.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	srv := mcpserver.NewServer(a.engine, a.cfg.TopK)
	if err := srv.Serve(); err != nil {
		return fmt.Errorf("mcp server failed: %w", err)
	}
	return nil
}
