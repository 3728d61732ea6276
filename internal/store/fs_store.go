package store

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// FSStore implements the Store interface using filesystem-based
// persistence. Jobs are stored in a directory structure:
// <baseDir>/jobs/<jobID>/
//
// Writes use the temp file + rename pattern, so readers never observe
// a partially written record or artifact.
type FSStore struct {
	baseDir string
}

// NewFSStore creates a new filesystem-based store. The baseDir will be
// created if it doesn't exist.
func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &FSStore{baseDir: baseDir}, nil
}

// jobDir returns the directory path for a given job ID.
func (fs *FSStore) jobDir(jobID string) string {
	return filepath.Join(fs.baseDir, "jobs", jobID)
}

func (fs *FSStore) recordPath(jobID string) string {
	return filepath.Join(fs.jobDir(jobID), "job.json")
}

// SaveRecord atomically saves the record for the given job.
func (fs *FSStore) SaveRecord(jobID string, rec *Record) error {
	if jobID == "" {
		return fmt.Errorf("jobID cannot be empty")
	}
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}

	jobDir := fs.jobDir(jobID)
	if err := os.MkdirAll(jobDir, 0755); err != nil {
		return fmt.Errorf("failed to create job directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	tempPath := fs.recordPath(jobID) + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp record file: %w", err)
	}

	finalPath := fs.recordPath(jobID)
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename record file: %w", err)
	}

	slog.Debug("Job record saved", "jobID", jobID, "path", finalPath)
	return nil
}

// LoadRecord retrieves the record for the given job.
func (fs *FSStore) LoadRecord(jobID string) (*Record, error) {
	if jobID == "" {
		return nil, fmt.Errorf("jobID cannot be empty")
	}

	path := fs.recordPath(jobID)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &NotFoundError{JobID: jobID}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat record file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to deserialize record: %w", err)
	}

	return &rec, nil
}

// ListRecords returns the records of all persisted jobs. Corrupted
// records are skipped with a warning.
func (fs *FSStore) ListRecords() ([]Record, error) {
	jobsDir := filepath.Join(fs.baseDir, "jobs")

	if _, err := os.Stat(jobsDir); os.IsNotExist(err) {
		return []Record{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat jobs directory: %w", err)
	}

	entries, err := os.ReadDir(jobsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs directory: %w", err)
	}

	var records []Record
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, err := fs.LoadRecord(entry.Name())
		if err != nil {
			if _, missing := err.(*NotFoundError); !missing {
				slog.Warn("Failed to load job record for listing", "jobID", entry.Name(), "error", err)
			}
			continue
		}
		records = append(records, *rec)
	}

	slog.Debug("Listed job records", "count", len(records))
	return records, nil
}

// DeleteJob removes the job directory and all its artifacts.
func (fs *FSStore) DeleteJob(jobID string) error {
	if jobID == "" {
		return fmt.Errorf("jobID cannot be empty")
	}

	jobDir := fs.jobDir(jobID)
	if _, err := os.Stat(jobDir); os.IsNotExist(err) {
		return &NotFoundError{JobID: jobID}
	} else if err != nil {
		return fmt.Errorf("failed to stat job directory: %w", err)
	}

	if err := os.RemoveAll(jobDir); err != nil {
		return fmt.Errorf("failed to remove job directory: %w", err)
	}

	slog.Debug("Job deleted", "jobID", jobID, "path", jobDir)
	return nil
}

// SaveArtifact streams an artifact into the job directory using the
// same temp file + rename pattern as records.
func (fs *FSStore) SaveArtifact(jobID, name string, write func(io.Writer) error) error {
	if jobID == "" {
		return fmt.Errorf("jobID cannot be empty")
	}
	if filepath.Base(name) != name {
		return fmt.Errorf("artifact name %q must not contain path separators", name)
	}

	jobDir := fs.jobDir(jobID)
	if err := os.MkdirAll(jobDir, 0755); err != nil {
		return fmt.Errorf("failed to create job directory: %w", err)
	}

	finalPath := filepath.Join(jobDir, name)
	tempPath := finalPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp artifact file: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write artifact %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp artifact file: %w", err)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename artifact file: %w", err)
	}

	slog.Debug("Artifact saved", "jobID", jobID, "name", name)
	return nil
}

// OpenArtifact opens a stored artifact for reading.
func (fs *FSStore) OpenArtifact(jobID, name string) (io.ReadCloser, error) {
	if filepath.Base(name) != name {
		return nil, fmt.Errorf("artifact name %q must not contain path separators", name)
	}

	f, err := os.Open(filepath.Join(fs.jobDir(jobID), name))
	if os.IsNotExist(err) {
		return nil, &NotFoundError{JobID: jobID}
	} else if err != nil {
		return nil, fmt.Errorf("failed to open artifact %s: %w", name, err)
	}
	return f, nil
}
