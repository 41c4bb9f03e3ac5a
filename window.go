package main

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

const windowTitle = "clfractal"

// newWindow opens the window and makes its GL context current on the calling thread.
func newWindow(cfg Config) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLDebugContext, boolHint(cfg.LogLevel == "debug"))

	window, err := glfw.CreateWindow(
		cfg.Width,
		cfg.Height,
		windowTitle,
		nil,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("glfw.CreateWindow failed: %w", err)
	}

	window.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return window, nil
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}
