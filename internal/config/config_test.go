package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freshLoader(t *testing.T) *Loader {
	t.Helper()
	// Isolate from the global viper instance and any real config file
	// in the search path.
	l := &Loader{v: viper.New()}
	t.Cleanup(viper.Reset)
	return l
}

func TestLoad_Defaults(t *testing.T) {
	l := freshLoader(t)
	cfg, err := l.load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.InDelta(t, 3.0, cfg.Pipeline.DetectionScale, 1e-9)
	assert.InDelta(t, 3.0, cfg.Pipeline.OutputScale, 1e-9)
	assert.Equal(t, "#000000", cfg.Style.Color)
	assert.Equal(t, "#FFFFFF", cfg.Style.BackgroundColor)
	assert.InDelta(t, 100.0, cfg.Style.Size, 1e-9)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qrpatch.yaml")
	content := []byte(`
log_level: debug
pipeline:
  detection_scale: 2.5
  suppression_padding: 20
style:
  color: "#112233"
  size: 80
server:
  port: 9090
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	l := freshLoader(t)
	l.SetConfigFile(path)
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.InDelta(t, 2.5, cfg.Pipeline.DetectionScale, 1e-9)
	assert.Equal(t, 20, cfg.Pipeline.SuppressionPadding)
	assert.Equal(t, "#112233", cfg.Style.Color)
	assert.InDelta(t, 80.0, cfg.Style.Size, 1e-9)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Untouched keys keep their defaults.
	assert.InDelta(t, 3.0, cfg.Pipeline.OutputScale, 1e-9)
}

func TestValidate_Rejections(t *testing.T) {
	base := func() *Config {
		l := freshLoader(t)
		cfg, err := l.load()
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Pipeline.DetectionScale = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Server.MaxUploadMB = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Style.Color = "blue"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Output.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestDump_RoundTripsThroughYAML(t *testing.T) {
	l := freshLoader(t)
	cfg, err := l.load()
	require.NoError(t, err)

	out, err := cfg.Dump()
	require.NoError(t, err)
	assert.Contains(t, out, "detection_scale: 3")
	assert.Contains(t, out, "log_level: info")
}
