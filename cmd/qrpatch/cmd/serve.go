package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/feanorMV/qrpatch/internal/server"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for the extraction and replacement API",
	Long: `Start an HTTP server exposing the pipeline as a REST API.

The server provides the following endpoints:
  POST /extract     - Scan an uploaded document for QR markers
  POST /replace     - Re-encode markers and return the patched document
  GET  /ws/extract  - WebSocket with per-page scan progress
  GET  /health      - Health check endpoint
  GET  /metrics     - Prometheus metrics

Examples:
  qrpatch serve
  qrpatch serve --port 8080
  qrpatch serve --host 0.0.0.0 --port 3000`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		scfg := cfg.Server
		if cmd.Flags().Changed("host") {
			scfg.Host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			scfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("max-upload-mb") {
			scfg.MaxUploadMB, _ = cmd.Flags().GetInt64("max-upload-mb")
		}
		if cmd.Flags().Changed("timeout") {
			scfg.TimeoutSeconds, _ = cmd.Flags().GetInt("timeout")
		}

		pl, err := buildPipeline(cfg)
		if err != nil {
			return fmt.Errorf("building pipeline: %w", err)
		}

		srv := server.New(scfg, pl, cfg.Style)

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan error, 1)
		go func() {
			done <- srv.Start()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-done:
			return err
		case sig := <-sigCh:
			slog.Info("shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return <-done
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "127.0.0.1", "host to bind the server to")
	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	serveCmd.Flags().Int64("max-upload-mb", 50, "maximum upload size in megabytes")
	serveCmd.Flags().Int("timeout", 120, "request timeout in seconds")
}
