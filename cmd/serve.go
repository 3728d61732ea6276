package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/pixelscan/internal/server"
	"github.com/cwbudde/pixelscan/internal/store"
)

var (
	serveAddr    string
	serveDataDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the vectorization job API server",
	Long: `Starts an HTTP server that accepts vectorization jobs, runs them in
the background and serves the resulting scans and SVGs.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveDataDir, "data", "./data", "Job data directory")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("data") {
		if env := os.Getenv("PIXELSCAN_DATA_DIR"); env != "" {
			serveDataDir = env
		}
	}

	jobStore, err := store.NewFSStore(serveDataDir)
	if err != nil {
		return err
	}

	srv := server.NewServer(serveAddr, jobStore)

	// Shut down cleanly on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("Received signal", "signal", sig.String())
		if err := srv.Shutdown(10 * time.Second); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	return srv.Start()
}
