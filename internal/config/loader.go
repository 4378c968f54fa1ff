package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files.
	ConfigFileName = "qrpatch"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "QRPATCH"
)

// Loader loads configuration from files, environment and bound flags.
type Loader struct {
	v *viper.Viper
}

// NewLoader uses the global viper instance so cobra flag bindings
// take effect.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// Load reads configuration and validates it. A missing config file is
// fine; defaults and environment variables apply.
func (l *Loader) Load() (*Config, error) {
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (l *Loader) load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	l.addConfigPaths()

	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// SetConfigFile points the loader at an explicit config file path.
func (l *Loader) SetConfigFile(path string) {
	if path != "" {
		l.v.SetConfigFile(path)
	}
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
		l.v.AddConfigPath(filepath.Join(home, ".config", "qrpatch"))
	}
	l.v.AddConfigPath("/etc/qrpatch")
}

func (l *Loader) setDefaults() {
	l.v.SetDefault("log_level", "info")
	l.v.SetDefault("verbose", false)

	l.v.SetDefault("pipeline.detection_scale", 3.0)
	l.v.SetDefault("pipeline.output_scale", 3.0)
	l.v.SetDefault("pipeline.suppression_padding", 0)

	l.v.SetDefault("style.color", "#000000")
	l.v.SetDefault("style.background_color", "#FFFFFF")
	l.v.SetDefault("style.size", 100.0)

	l.v.SetDefault("server.host", "127.0.0.1")
	l.v.SetDefault("server.port", 8080)
	l.v.SetDefault("server.max_upload_mb", 50)
	l.v.SetDefault("server.timeout_seconds", 120)

	l.v.SetDefault("batch.workers", 0)
	l.v.SetDefault("batch.recursive", false)

	l.v.SetDefault("output.format", "text")
	l.v.SetDefault("output.file", "")
}
