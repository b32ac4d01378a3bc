package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FSStore implements the Store interface using filesystem-based
// persistence. Results are stored under <baseDir>/results/<id>/.
//
// Thread-safety: atomic file operations (rename) only, no locks; multiple
// goroutines can call methods concurrently.
type FSStore struct {
	baseDir string
}

// NewFSStore creates a filesystem-based store. The base directory is
// created if it doesn't exist.
func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &FSStore{baseDir: baseDir}, nil
}

// ResultDir returns the directory holding a result's record and artifacts.
func (fs *FSStore) ResultDir(id string) string {
	return filepath.Join(fs.baseDir, "results", id)
}

// ArtifactPath returns the path of a named artifact (e.g. "diff.png")
// inside a result directory.
func (fs *FSStore) ArtifactPath(id, name string) string {
	return filepath.Join(fs.ResultDir(id), name)
}

func (fs *FSStore) recordPath(id string) string {
	return filepath.Join(fs.ResultDir(id), "result.json")
}

// SaveResult atomically saves a result record using temp file + rename.
func (fs *FSStore) SaveResult(id string, rec *Record) error {
	if id == "" {
		return fmt.Errorf("result id cannot be empty")
	}
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}

	dir := fs.ResultDir(id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create result directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}

	tempPath := fs.recordPath(id) + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp result file: %w", err)
	}

	finalPath := fs.recordPath(id)
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename result file: %w", err)
	}

	slog.Debug("Result saved", "id", id, "path", finalPath)
	return nil
}

// LoadResult retrieves the record for the given result ID.
func (fs *FSStore) LoadResult(id string) (*Record, error) {
	if id == "" {
		return nil, fmt.Errorf("result id cannot be empty")
	}

	path := fs.recordPath(id)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &NotFoundError{ID: id}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat result file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to deserialize result: %w", err)
	}

	return &rec, nil
}

// ListResults returns metadata for all stored results.
func (fs *FSStore) ListResults() ([]ResultInfo, error) {
	resultsDir := filepath.Join(fs.baseDir, "results")

	if _, err := os.Stat(resultsDir); os.IsNotExist(err) {
		return []ResultInfo{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat results directory: %w", err)
	}

	entries, err := os.ReadDir(resultsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}

	var infos []ResultInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		id := entry.Name()
		rec, err := fs.LoadResult(id)
		if err != nil {
			if _, ok := err.(*NotFoundError); ok {
				continue // directory without result.json
			}
			slog.Warn("Failed to load result for listing", "id", id, "error", err)
			continue
		}
		infos = append(infos, rec.ToInfo())
	}

	return infos, nil
}

// DeleteResult removes the record and all associated artifacts.
func (fs *FSStore) DeleteResult(id string) error {
	if id == "" {
		return fmt.Errorf("result id cannot be empty")
	}

	dir := fs.ResultDir(id)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return &NotFoundError{ID: id}
	} else if err != nil {
		return fmt.Errorf("failed to stat result directory: %w", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove result directory: %w", err)
	}

	slog.Debug("Result deleted", "id", id, "path", dir)
	return nil
}
