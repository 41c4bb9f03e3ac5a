package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/pflag"
	"github.com/stewi1014/clfractal/render"
	"github.com/stewi1014/clfractal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 800, cfg.Height)
	assert.Equal(t, render.GPU, cfg.DeviceKind())
	assert.Equal(t, view.DefaultParams(), cfg.Params())
}

func TestLoadConfigFileThenFlags(t *testing.T) {
	path := writeConfig(t, `
width = 1024
device = "cpu"
scale = 350.5
iterations = 64
center_x = -0.5
`)

	cfg, err := LoadConfig([]string{"--config", path, "--iterations", "128", "--height=600"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
	assert.Equal(t, render.CPU, cfg.DeviceKind())
	assert.Equal(t, uint32(128), cfg.Iterations)
	assert.Equal(t, view.Params{Center: mgl64.Vec2{-0.5, 0}, Scale: 350.5, Iterations: 128}, cfg.Params())
}

func TestLoadConfigMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	_, err := LoadConfig([]string{"--config", missing}, io.Discard)
	assert.Error(t, err, "an explicit config file must exist")

	cfg := DefaultConfig()
	require.NoError(t, cfg.readFile(missing, false))
	assert.Empty(t, cfg.Path)
}

func TestLoadConfigBadToml(t *testing.T) {
	path := writeConfig(t, "width = \"wide\"\n")

	_, err := LoadConfig([]string{"--config", path}, io.Discard)
	assert.ErrorContains(t, err, path)
}

func TestLoadConfigHelp(t *testing.T) {
	_, err := LoadConfig([]string{"--config", writeConfig(t, ""), "--help"}, io.Discard)
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestLoadConfigRejectsArguments(t *testing.T) {
	_, err := LoadConfig([]string{"--config", writeConfig(t, ""), "extra"}, io.Discard)
	assert.ErrorContains(t, err, "unexpected arguments")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"zero scale", func(c *Config) { c.Scale = 0 }},
		{"zero iterations", func(c *Config) { c.Iterations = 0 }},
		{"too many iterations", func(c *Config) { c.Iterations = view.MaxIterations + 1 }},
		{"unknown device", func(c *Config) { c.Device = "fpga" }},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }},
		{"watch without file", func(c *Config) { c.Watch = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
