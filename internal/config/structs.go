package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/feanorMV/qrpatch/internal/style"
)

// Config is the complete application configuration, loadable from
// config files, QRPATCH_* environment variables and command-line
// flags.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`
	Style    style.Style    `mapstructure:"style" yaml:"style" json:"style"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server" json:"server"`
	Batch    BatchConfig    `mapstructure:"batch" yaml:"batch" json:"batch"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output" json:"output"`
}

// PipelineConfig contains detection and rendering settings.
type PipelineConfig struct {
	// DetectionScale is the raster scale for scanning PDF pages.
	DetectionScale float64 `mapstructure:"detection_scale" yaml:"detection_scale" json:"detection_scale"`

	// OutputScale is the raster scale for replacement output pages.
	OutputScale float64 `mapstructure:"output_scale" yaml:"output_scale" json:"output_scale"`

	// SuppressionPadding is the white-out margin in pixels around each
	// found marker; 0 selects the built-in default.
	SuppressionPadding int `mapstructure:"suppression_padding" yaml:"suppression_padding" json:"suppression_padding"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host           string `mapstructure:"host" yaml:"host" json:"host"`
	Port           int    `mapstructure:"port" yaml:"port" json:"port"`
	MaxUploadMB    int64  `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds" json:"timeout_seconds"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers   int  `mapstructure:"workers" yaml:"workers" json:"workers"`
	Recursive bool `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
}

// OutputConfig contains CLI output settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"` // json or text
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// Validate checks configured values for consistency.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.Pipeline.DetectionScale <= 0 {
		return fmt.Errorf("pipeline.detection_scale must be positive, got %v", c.Pipeline.DetectionScale)
	}
	if c.Pipeline.OutputScale <= 0 {
		return fmt.Errorf("pipeline.output_scale must be positive, got %v", c.Pipeline.OutputScale)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must not be negative, got %d", c.Batch.Workers)
	}
	switch c.Output.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("invalid output.format %q", c.Output.Format)
	}
	if err := c.Style.Validate(); err != nil {
		return fmt.Errorf("style: %w", err)
	}
	return nil
}

// Dump renders the effective configuration as YAML, for --show-config
// style diagnostics.
func (c *Config) Dump() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	return string(out), nil
}
