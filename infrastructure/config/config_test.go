package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "genealogy3d/pkg/errors"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "genealogy3d.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, float32(8), cfg.Layout.SpacingX)
	assert.Equal(t, float32(60), cfg.Camera.FOV)
	assert.Equal(t, 10, cfg.Traversal.MaxNeighbors)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
environment: production
layout:
  spacing_x: 10
camera:
  zoom_step: 0.1
backend:
  timeout: 2s
watch:
  enabled: false
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, float32(10), cfg.Layout.SpacingX)
	assert.Equal(t, float32(6), cfg.Layout.SpacingY, "untouched keys keep defaults")
	assert.InDelta(t, 0.1, cfg.Camera.ZoomStep, 1e-6)
	assert.Equal(t, 2*time.Second, cfg.Backend.Timeout)
	assert.False(t, cfg.Watch.Enabled)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "log_level: warn\nlayout:\n  spacing_y: 4\n")
	t.Setenv("GENEALOGY3D_LOG_LEVEL", "debug")
	t.Setenv("GENEALOGY3D_LAYOUT__SPACING_Y", "9")
	t.Setenv("GENEALOGY3D_TRAVERSAL__MAX_NEIGHBORS", "3")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, float32(9), cfg.Layout.SpacingY)
	assert.Equal(t, 3, cfg.Traversal.MaxNeighbors)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"environment", "environment: staging\n"},
		{"spacing", "layout:\n  spacing_x: 0\n"},
		{"opacity", "scene:\n  edge_opacity: 2\n"},
		{"neighbors", "traversal:\n  max_neighbors: 0\n"},
		{"metrics address", "metrics:\n  enabled: true\n  address: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			assert.True(t, apperrors.IsValidation(err), "got %v", err)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(writeFile(t, "layout: [unclosed\n"))
	assert.Error(t, err)
}
