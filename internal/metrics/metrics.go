// Package metrics defines the boundary to the external activity tracker.
// The tracker (an editor plugin) is responsible for measuring keystrokes,
// lines and active time; the core only consumes its snapshots.
package metrics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/mlendvay/hundred-days/internal/timecalc"
)

// Snapshot is today's coding activity so far. Reading it is idempotent
// within an instant.
type Snapshot struct {
	Minutes    float64 `json:"minutes"`
	Keystrokes int     `json:"keystrokes"`
	LinesAdded int     `json:"lines_added"`
}

// Provider supplies today's activity snapshot.
type Provider interface {
	Snapshot() (Snapshot, error)
}

// LanguageProvider supplies the set of language identifiers active today,
// using the fixed vocabulary ("python", "typescript", "cpp", ...).
type LanguageProvider interface {
	ActiveLanguagesToday() ([]string, error)
}

// activityFile is what the editor plugin writes for us to read.
type activityFile struct {
	Date       string   `json:"date"`
	Minutes    float64  `json:"minutes"`
	Keystrokes int      `json:"keystrokes"`
	LinesAdded int      `json:"lines_added"`
	Languages  []string `json:"languages"`
}

// FileProvider reads the activity snapshot document the editor plugin
// drops into the data directory. A missing, corrupt or stale (not-today)
// snapshot reads as zero activity.
type FileProvider struct {
	Path string
	Now  func() time.Time
}

// NewFileProvider returns a provider reading base/activity.json.
func NewFileProvider(base string) *FileProvider {
	return &FileProvider{Path: filepath.Join(base, "activity.json"), Now: time.Now}
}

func (p *FileProvider) read() activityFile {
	var af activityFile
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return activityFile{}
	}
	if err := json.Unmarshal(data, &af); err != nil {
		return activityFile{}
	}
	day, err := time.ParseInLocation("2006-01-02", af.Date, time.Local)
	if err != nil || !timecalc.SameDay(day, p.Now()) {
		return activityFile{}
	}
	return af
}

// Snapshot returns today's measured activity.
func (p *FileProvider) Snapshot() (Snapshot, error) {
	af := p.read()
	return Snapshot{
		Minutes:    af.Minutes,
		Keystrokes: af.Keystrokes,
		LinesAdded: af.LinesAdded,
	}, nil
}

// ActiveLanguagesToday returns the languages touched today.
func (p *FileProvider) ActiveLanguagesToday() ([]string, error) {
	return p.read().Languages, nil
}

// Static is a fixed snapshot provider, used in tests and for manual logs.
type Static struct {
	Snap  Snapshot
	Langs []string
}

func (s Static) Snapshot() (Snapshot, error)             { return s.Snap, nil }
func (s Static) ActiveLanguagesToday() ([]string, error) { return s.Langs, nil }
