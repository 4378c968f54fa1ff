// Package batch runs extraction over many files concurrently. Files
// are independent tasks: one failure never cancels its siblings.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/feanorMV/qrpatch/internal/pipeline"
)

// Config controls a batch run.
type Config struct {
	// Workers caps concurrent file tasks; 0 means NumCPU.
	Workers int

	// Recursive descends into directories given as inputs.
	Recursive bool
}

// FileResult is the outcome for one file: either a session or an
// error, never both.
type FileResult struct {
	Path    string            `json:"path"`
	Session *pipeline.Session `json:"session,omitempty"`
	Err     string            `json:"error,omitempty"`
}

// Failed reports whether the file task failed.
func (r FileResult) Failed() bool { return r.Err != "" }

// Result aggregates a whole batch.
type Result struct {
	Files    []FileResult  `json:"files"`
	Duration time.Duration `json:"duration"`
}

// Succeeded counts files that produced a session.
func (r *Result) Succeeded() int {
	n := 0
	for _, f := range r.Files {
		if !f.Failed() {
			n++
		}
	}
	return n
}

// Failed counts files that did not.
func (r *Result) Failed() int { return len(r.Files) - r.Succeeded() }

// Process extracts markers from every discovered input file. The
// returned error is reserved for batch-level problems (no inputs,
// canceled context); per-file failures land in the result.
func Process(ctx context.Context, p *pipeline.Pipeline, inputs []string, cfg Config) (*Result, error) {
	files, err := discoverFiles(inputs, cfg.Recursive)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no supported input files found")
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	start := time.Now()
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			results[i] = processFile(gctx, p, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Result{Files: results, Duration: time.Since(start)}, nil
}

func processFile(ctx context.Context, p *pipeline.Pipeline, path string) FileResult {
	data, err := os.ReadFile(path) //nolint:gosec // G304: batch inputs are user-provided paths
	if err != nil {
		return FileResult{Path: path, Err: fmt.Sprintf("reading file: %v", err)}
	}
	session, err := p.Extract(ctx, path, data)
	if err != nil {
		slog.Warn("file extraction failed", "file", path, "error", err)
		return FileResult{Path: path, Err: err.Error()}
	}
	return FileResult{Path: path, Session: session}
}
