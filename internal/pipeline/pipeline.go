// Package pipeline wires rasterization, scanning, synthesis,
// compositing and assembly into the two user-facing operations:
// extracting markers from a document and replacing them.
package pipeline

import (
	"errors"

	"github.com/feanorMV/qrpatch/internal/detect"
	"github.com/feanorMV/qrpatch/internal/scan"
)

// Config controls pipeline behavior.
//
// Scales apply to PDF sources, whose native units are points.
// Standalone images are always processed at scale 1.0 so their pixel
// dimensions survive a replace round trip unchanged.
type Config struct {
	// DetectionScale is the raster scale used when scanning PDF pages.
	// 3.0 corresponds to 216 DPI, enough for markers a few dozen
	// points wide.
	DetectionScale float64

	// OutputScale is the raster scale used when re-rendering PDF pages
	// for replacement output.
	OutputScale float64

	// SuppressionPadding is the margin in pixels (at detection scale)
	// whited out around each found marker. Zero selects the default.
	SuppressionPadding int
}

// DefaultConfig returns the stock pipeline configuration.
func DefaultConfig() Config {
	return Config{
		DetectionScale: 3.0,
		OutputScale:    3.0,
	}
}

// Pipeline executes extract and replace operations. It is stateless
// between calls and safe for concurrent use across files as long as
// the configured detector is.
type Pipeline struct {
	cfg Config
	det detect.Detector
}

// Builder assembles a Pipeline.
type Builder struct {
	cfg Config
	det detect.Detector
}

// NewBuilder returns a Builder with default configuration and the
// production QR detector.
func NewBuilder() *Builder {
	return &Builder{cfg: DefaultConfig(), det: detect.NewQRDetector()}
}

// WithDetectionScale overrides the detection raster scale.
func (b *Builder) WithDetectionScale(s float64) *Builder {
	if s > 0 {
		b.cfg.DetectionScale = s
	}
	return b
}

// WithOutputScale overrides the replacement raster scale.
func (b *Builder) WithOutputScale(s float64) *Builder {
	if s > 0 {
		b.cfg.OutputScale = s
	}
	return b
}

// WithSuppressionPadding overrides the suppression margin in pixels.
func (b *Builder) WithSuppressionPadding(px int) *Builder {
	b.cfg.SuppressionPadding = px
	return b
}

// WithDetector swaps the marker detector, e.g. for tests.
func (b *Builder) WithDetector(d detect.Detector) *Builder {
	b.det = d
	return b
}

// Build validates the configuration and returns the pipeline.
func (b *Builder) Build() (*Pipeline, error) {
	if b.det == nil {
		return nil, errors.New("pipeline: no detector configured")
	}
	if b.cfg.DetectionScale <= 0 || b.cfg.OutputScale <= 0 {
		return nil, errors.New("pipeline: scales must be positive")
	}
	return &Pipeline{cfg: b.cfg, det: b.det}, nil
}

func (p *Pipeline) scanOptions() scan.Options {
	return scan.Options{Padding: p.cfg.SuppressionPadding}
}
