package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

func snapshotName(dir string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("clfractal-%d.png", t.UnixNano()))
}

// writeSnapshot encodes img into a new file in dir. A partially written file is removed.
func writeSnapshot(dir string, img image.Image, t time.Time) (string, error) {
	name := snapshotName(dir, t)
	file, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		os.Remove(name)
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("close snapshot: %w", err)
	}
	return name, nil
}
