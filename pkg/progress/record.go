package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"boxart/pkg/logger"
)

// Failure describes a resource that could not be downloaded. Failed names
// are kept for reporting only and stay pending on the next run.
type Failure struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// Record is the persisted completion record for a download session. A name
// is present in Completed iff its image file was fully written to disk.
type Record struct {
	Completed map[string]string `json:"completed"` // name -> filename on disk
	Failed    []Failure         `json:"failed,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Version   int               `json:"version"`
}

// NewRecord creates an empty completion record
func NewRecord() *Record {
	return &Record{
		Completed: make(map[string]string),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Version:   1,
	}
}

// IsCompleted checks if a resource has already been downloaded
func (r *Record) IsCompleted(name string) bool {
	_, exists := r.Completed[name]
	return exists
}

// Len returns the number of completed resources
func (r *Record) Len() int {
	return len(r.Completed)
}

// Manager handles completion record persistence
type Manager struct {
	recordPath string
	logger     logger.Logger
}

// NewManager creates a manager for the record at the given path. The
// directory is created if needed so the first save cannot fail on a
// missing parent.
func NewManager(path string) (*Manager, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create record directory: %w", err)
	}

	return &Manager{
		recordPath: path,
		logger:     logger.GetLogger(),
	}, nil
}

// Load loads the record from disk. A missing file is not an error: it
// yields a fresh empty record so first runs and resumed runs share a path.
func (m *Manager) Load() (*Record, error) {
	file, err := os.Open(m.recordPath)
	if err != nil {
		if os.IsNotExist(err) {
			return NewRecord(), nil
		}
		return nil, fmt.Errorf("failed to open record file: %w", err)
	}
	defer file.Close()

	var record Record
	if err := json.NewDecoder(file).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	if record.Completed == nil {
		record.Completed = make(map[string]string)
	}

	m.logger.InfoWithFields("Completion record loaded", map[string]interface{}{
		"path":      m.recordPath,
		"completed": len(record.Completed),
		"failed":    len(record.Failed),
	})

	return &record, nil
}

// Save writes the record to disk atomically: write to a temporary file,
// sync, then rename over the old record. An interruption mid-write never
// truncates the previous record.
func (m *Manager) Save(record *Record) error {
	record.UpdatedAt = time.Now()

	tempPath := m.recordPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary record file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(record); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode record: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync record file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close record file: %w", err)
	}

	if err := os.Rename(tempPath, m.recordPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace record file: %w", err)
	}

	m.logger.DebugWithFields("Completion record saved", map[string]interface{}{
		"path":      m.recordPath,
		"completed": len(record.Completed),
	})

	return nil
}

// MarkCompleted records a successfully downloaded resource and persists the
// record immediately, so an interruption loses at most the in-flight item.
func (m *Manager) MarkCompleted(record *Record, name, filename string) error {
	record.Completed[name] = filename
	return m.Save(record)
}

// RecordFailure appends a failure for reporting. The record is not
// persisted here; failures are flushed with the next successful save or at
// the end of the run.
func (m *Manager) RecordFailure(record *Record, name, url, reason string) {
	record.Failed = append(record.Failed, Failure{Name: name, URL: url, Reason: reason})
}

// Delete removes the record file
func (m *Manager) Delete() error {
	if err := os.Remove(m.recordPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	m.logger.Info("Completion record deleted")
	return nil
}

// Exists checks if a record file exists
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.recordPath)
	return err == nil
}

// Info returns a summary of the persisted record for the status command
func (m *Manager) Info() (map[string]interface{}, error) {
	if !m.Exists() {
		return nil, nil
	}

	record, err := m.Load()
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"path":       m.recordPath,
		"completed":  len(record.Completed),
		"failed":     len(record.Failed),
		"created_at": record.CreatedAt,
		"updated_at": record.UpdatedAt,
		"age":        time.Since(record.UpdatedAt),
	}, nil
}
