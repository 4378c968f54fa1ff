package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feanorMV/qrpatch/internal/geometry"
	"github.com/feanorMV/qrpatch/internal/pipeline"
	"github.com/feanorMV/qrpatch/internal/testutil"
)

func TestExtractCommand(t *testing.T) {
	assert.NotNil(t, extractCmd)
	assert.NotEmpty(t, extractCmd.Short)
	assert.NotNil(t, extractCmd.Flags().Lookup("format"))
	assert.NotNil(t, extractCmd.Flags().Lookup("output"))
}

func TestExtractCommandWithoutFile(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	rootCmd.SetArgs([]string{"extract"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files")
}

func TestExtractCommandJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.png")
	data := testutil.QRPagePNG(t, 600, 800, testutil.QRSpec{
		Payload: "https://example.com",
		Rect:    geometry.Rect{X: 50, Y: 50, W: 120, H: 120},
	})
	require.NoError(t, os.WriteFile(path, data, 0o644))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	rootCmd.SetArgs([]string{"extract", path, "--format", "json"})
	err := rootCmd.Execute()
	require.NoError(t, err)

	var session pipeline.Session
	require.NoError(t, json.Unmarshal(buf.Bytes(), &session))
	assert.Equal(t, 1, session.TotalPages)
	require.Len(t, session.Markers, 1)
	assert.Equal(t, "https://example.com", session.Markers[0].Payload)
}

func TestExtractCommandMissingFile(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	rootCmd.SetArgs([]string{"extract", "/does/not/exist.png"})
	err := rootCmd.Execute()
	require.Error(t, err)
}
