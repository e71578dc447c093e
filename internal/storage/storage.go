// Package storage persists the three challenge documents (log sequence,
// milestone catalog, summary) as individual JSON files under the data
// directory. Each document is independently creatable-if-missing with its
// documented default value; corrupt files are backed up and replaced by
// the default rather than surfaced as errors.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mlendvay/hundred-days/internal/model"
)

const (
	logsFile       = "logs.json"
	milestonesFile = "milestones.json"
	summaryFile    = "summary.json"
)

// BaseDir returns the root data directory (~/.hdays).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".hdays"), nil
}

// LogRepo loads and saves the log sequence document.
type LogRepo interface {
	Load() ([]model.LogEntry, error)
	Save([]model.LogEntry) error
}

// MilestoneRepo loads and saves the milestone catalog document.
type MilestoneRepo interface {
	Load() ([]model.Milestone, error)
	Save([]model.Milestone) error
}

// SummaryRepo loads and saves the summary document.
type SummaryRepo interface {
	Load() (model.Summary, error)
	Save(model.Summary) error
}

// FileStore implements the three repositories over JSON files in a single
// base directory.
type FileStore struct {
	base string
}

// NewFileStore returns a FileStore rooted at base.
func NewFileStore(base string) *FileStore {
	return &FileStore{base: base}
}

// Logs returns the log sequence repository.
func (s *FileStore) Logs() LogRepo { return logRepo{s} }

// Milestones returns the milestone catalog repository.
func (s *FileStore) Milestones() MilestoneRepo { return milestoneRepo{s} }

// Summary returns the summary repository.
func (s *FileStore) Summary() SummaryRepo { return summaryRepo{s} }

type logRepo struct{ s *FileStore }

func (r logRepo) Load() ([]model.LogEntry, error) {
	var logs []model.LogEntry
	ok, err := r.s.loadDoc(logsFile, &logs)
	if err != nil {
		return nil, err
	}
	if !ok || logs == nil {
		logs = []model.LogEntry{}
	}
	return logs, nil
}

func (r logRepo) Save(logs []model.LogEntry) error {
	return r.s.saveDoc(logsFile, logs)
}

type milestoneRepo struct{ s *FileStore }

func (r milestoneRepo) Load() ([]model.Milestone, error) {
	var catalog []model.Milestone
	ok, err := r.s.loadDoc(milestonesFile, &catalog)
	if err != nil {
		return nil, err
	}
	if !ok || len(catalog) != model.CatalogSize {
		// Missing or truncated catalog: reseed from the template.
		catalog = model.NewCatalog()
	}
	return catalog, nil
}

func (r milestoneRepo) Save(catalog []model.Milestone) error {
	return r.s.saveDoc(milestonesFile, catalog)
}

type summaryRepo struct{ s *FileStore }

func (r summaryRepo) Load() (model.Summary, error) {
	var sum model.Summary
	ok, err := r.s.loadDoc(summaryFile, &sum)
	if err != nil {
		return model.NewSummary(), err
	}
	if !ok {
		return model.NewSummary(), nil
	}
	if sum.Languages == nil {
		sum.Languages = []string{}
	}
	if sum.RecentMilestones == nil {
		sum.RecentMilestones = []int{}
	}
	return sum, nil
}

func (r summaryRepo) Save(sum model.Summary) error {
	return r.s.saveDoc(summaryFile, sum)
}

// loadDoc reads and unmarshals one document. It reports ok=false when the
// file is missing or corrupt; a corrupt file is first backed up so user
// data is never silently destroyed.
func (s *FileStore) loadDoc(name string, v any) (bool, error) {
	path := filepath.Join(s.base, name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Back up the corrupt file and fall back to defaults.
		_ = os.Rename(path, path+".corrupt")
		return false, nil
	}
	return true, nil
}

// saveDoc atomically writes one document: marshal, write temp, rename.
func (s *FileStore) saveDoc(name string, v any) error {
	path := filepath.Join(s.base, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}
