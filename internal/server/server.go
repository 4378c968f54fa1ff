// Package server exposes the extraction and replacement pipeline over
// HTTP. It is an external caller of the pipeline, like the CLI: no
// pipeline semantics live here.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feanorMV/qrpatch/internal/config"
	"github.com/feanorMV/qrpatch/internal/pipeline"
	"github.com/feanorMV/qrpatch/internal/style"
)

// Server serves the qrpatch HTTP API.
type Server struct {
	cfg          config.ServerConfig
	pl           *pipeline.Pipeline
	defaultStyle style.Style
	httpServer   *http.Server
}

// New creates a server around the given pipeline. The style is the
// fallback for replace requests that carry no settings record.
func New(cfg config.ServerConfig, pl *pipeline.Pipeline, st style.Style) *Server {
	return &Server{cfg: cfg, pl: pl, defaultStyle: st}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.withMiddleware(s.healthHandler))
	mux.HandleFunc("/extract", s.withMiddleware(s.extractHandler))
	mux.HandleFunc("/replace", s.withMiddleware(s.replaceHandler))
	// The websocket upgrade needs the raw ResponseWriter, so no
	// status-capturing wrapper here.
	mux.HandleFunc("/ws/extract", s.extractWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Start runs the server until Shutdown or a listener error.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	timeout := time.Duration(s.cfg.TimeoutSeconds) * time.Second

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("starting server", "addr", addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) maxUploadBytes() int64 {
	return s.cfg.MaxUploadMB * 1024 * 1024
}
