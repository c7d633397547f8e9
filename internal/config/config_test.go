package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-exoplanets/internal/camera"
	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/scene"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, catalog.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, catalog.DefaultTimeout, cfg.API.Timeout)
	assert.Equal(t, catalog.DefaultFilterRate, cfg.API.FilterRate)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Cache.Path)
	assert.Empty(t, cfg.Metrics.Addr)
	assert.Equal(t, scene.DefaultParams(), cfg.Scene.Params())
	assert.Equal(t, camera.DefaultConfig(), cfg.Camera)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ls-exoplanets.yaml")
	content := `
api:
  baseUrl: http://localhost:8000
  timeout: 5s
camera:
  sensitivity: 0.1
scene:
  orbitSpeed: 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 0.1, cfg.Camera.Sensitivity)
	assert.Equal(t, 3000.0, cfg.Camera.MaxZoom)
	assert.Equal(t, 1.0, cfg.Scene.OrbitSpeed)
	assert.Equal(t, 0.25, cfg.Scene.StarScale)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"), nil)
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LSEXO_LOG_LEVEL", "debug")
	t.Setenv("LSEXO_CACHE_PATH", "/tmp/catalog.db")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/catalog.db", cfg.Cache.Path)
}

func TestLoad_Flags(t *testing.T) {
	t.Setenv("LSEXO_LOG_LEVEL", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("api-url", "", "")
	flags.String("log-level", "", "")
	flags.String("metrics-addr", "", "")
	require.NoError(t, flags.Parse([]string{"--api-url", "http://example.test", "--log-level", "error"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "http://example.test", cfg.API.BaseURL)
	assert.Equal(t, "error", cfg.Log.Level, "flag beats environment")
	assert.Empty(t, cfg.Metrics.Addr, "unset flag keeps the default")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("", nil)
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"inverted zoom range", func(c *Config) { c.Camera.MaxZoom = -1 }},
		{"default zoom out of range", func(c *Config) { c.Camera.DefaultZoom = 4000 }},
		{"preset out of range", func(c *Config) { c.Camera.ZoomOutPreset = -5 }},
		{"fov too wide", func(c *Config) { c.Camera.FOV = 180 }},
		{"far before near", func(c *Config) { c.Camera.Far = 0.05 }},
		{"zero star scale", func(c *Config) { c.Scene.StarScale = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}
