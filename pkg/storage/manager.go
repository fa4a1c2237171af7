package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Manager writes downloaded images into the output directory
type Manager struct {
	outputDir string
	written   map[string]string
	mu        sync.RWMutex
}

// NewManager creates a new storage manager and the output directory. An
// unwritable output directory is a setup failure, reported before any
// download starts.
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{
		outputDir: outputDir,
		written:   make(map[string]string),
	}, nil
}

// Save writes image bytes under the resource name with the given extension
// and returns the filename written. Collisions overwrite: name is the
// dedup key, so the last write wins. The write goes through a temporary
// file and a rename so a crash never leaves a truncated image behind.
func (m *Manager) Save(r io.Reader, name, ext string) (string, error) {
	filename := name + ext
	fullPath := filepath.Join(m.outputDir, filename)

	tempFile := fullPath + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to save image data: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, fullPath); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.written[name] = filename
	m.mu.Unlock()

	return filename, nil
}

// Exists checks whether a file for the given name was written this run
func (m *Manager) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.written[name]
	return ok
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetWrittenCount returns the number of images written this run
func (m *Manager) GetWrittenCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.written)
}
