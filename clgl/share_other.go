//go:build !linux && !darwin

package clgl

import (
	"fmt"
	"runtime"
)

func createSharedContext(p Platform) (*Context, error) {
	return nil, fmt.Errorf("sharing a context with OpenGL is not supported on %s: %w", runtime.GOOS, StatusInvalidOperation)
}
