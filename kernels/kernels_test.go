package kernels

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stewi1014/clfractal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryKernelDefinesEntryPoint(t *testing.T) {
	require.NotEmpty(t, Names())

	for _, name := range Names() {
		k, err := Get(name)
		require.NoError(t, err)

		assert.Equal(t, name, k.Name)
		assert.Equal(t, EntryPoint, k.EntryPoint)
		assert.Equal(t, render.RelaxedMath, k.Options)
		assert.True(t, strings.Contains(k.Source, "__kernel void computeSet("), "%s has no %s", name, EntryPoint)
	}
}

func TestMandelbrotIsRegistered(t *testing.T) {
	assert.Contains(t, Names(), "mandelbrot")
}

func TestGetUnknown(t *testing.T) {
	_, err := Get("newton")
	assert.ErrorContains(t, err, `unknown kernel "newton"`)
}

func TestLoadOverridesSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.cl")
	require.NoError(t, os.WriteFile(path, []byte("__kernel void computeSet() {}"), 0o644))

	k, err := Load("mandelbrot", path)
	require.NoError(t, err)
	assert.Equal(t, path, k.Name)
	assert.Equal(t, "__kernel void computeSet() {}", k.Source)
	assert.Equal(t, EntryPoint, k.EntryPoint)

	k, err = Load("mandelbrot", "")
	require.NoError(t, err)
	assert.Equal(t, "mandelbrot", k.Name)

	_, err = Load("mandelbrot", filepath.Join(t.TempDir(), "missing.cl"))
	assert.Error(t, err)
}
