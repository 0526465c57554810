package runes

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestDefaultConfigValid(t *testing.T) {
	assert.NoError(t, DefaultConfig.Validate())
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeFile(t, "runes.toml", `
viewport_size = 256
hollusion_cycle = "1s"
engine = "wgpu"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.ViewportSize)
	assert.Equal(t, time.Second, cfg.HollusionCycle.Std())
	assert.Equal(t, "wgpu", cfg.Engine)
	// untouched fields keep their defaults
	assert.Equal(t, DefaultConfig.Antialias, cfg.Antialias)
	assert.Equal(t, DefaultConfig.LookAtDepth, cfg.LookAtDepth)
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeFile(t, "runes.yaml", `
antialias: 2
half_eye_distance: 0.05
slide_interval: 250ms
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Antialias)
	assert.Equal(t, float32(0.05), cfg.HalfEyeDistance)
	assert.Equal(t, 250*time.Millisecond, cfg.SlideInterval.Std())

	cfg, err = LoadConfig(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig, cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(writeFile(t, "runes.json", "{}"))
	assert.ErrorContains(t, err, "unsupported")

	_, err = LoadConfig(writeFile(t, "runes.toml", `engine = "opengl"`))
	assert.ErrorContains(t, err, "unknown engine")

	_, err = LoadConfig(writeFile(t, "runes.toml", `hollusion_cycle = "soon"`))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "runes.yaml", "frames: 3\n"))
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	bad := []func(*Config){
		func(c *Config) { c.ViewportSize = 0 },
		func(c *Config) { c.HalfEyeDistance = -1 },
		func(c *Config) { c.LookAtDepth = 0 },
		func(c *Config) { c.HollusionCycle = 0 },
		func(c *Config) { c.MinHollusionFrames = 1 },
		func(c *Config) { c.SlideInterval = -1 },
	}
	for i, mod := range bad {
		cfg := DefaultConfig
		mod(&cfg)
		assert.Error(t, cfg.Validate(), "case %d", i)
	}
}
