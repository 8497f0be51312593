package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/notebase/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the knowledge base over HTTP",
	Long: `Starts a local HTTP API exposing search, question answering,
summaries, analysis, and reflections for editor plugins and other
clients.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (default from config)")
	serveCmd.Flags().Bool("allow-all-origins", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	port, _ := cmd.Flags().GetInt("port")
	allowAll, _ := cmd.Flags().GetBool("allow-all-origins")

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := server.Config{
		Port:     a.cfg.Server.Port,
		AllowAll: a.cfg.Server.AllowAll || allowAll,
	}
	if port > 0 {
		cfg.Port = port
	}

	srv := server.New(cfg, a.engine, a.cache, a.cfg.TopK)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
