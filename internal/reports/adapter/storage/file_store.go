package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"intelfeed/internal/reports/domain/model"
)

// FileReportStore writes completed report documents as JSON files under
// the configured reports directory.
type FileReportStore struct {
	dir string
}

// NewFileReportStore creates the store and its directory.
func NewFileReportStore(dir string) (*FileReportStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileReportStore{dir: dir}, nil
}

// Save writes the report document and returns its path.
func (s *FileReportStore) Save(reportID string, data *model.ReportData) (string, error) {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, reportID+".json")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Read returns the raw report document.
func (s *FileReportStore) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Exists reports whether the report document is on disk.
func (s *FileReportStore) Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
