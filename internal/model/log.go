package model

import (
	"strings"
	"time"
)

// Default field values marking a log entry that has not been filled in yet.
const (
	NoTitle       = "No Title"
	NoDescription = ""
)

// MaxEditHours bounds the hours accepted when a log entry is edited.
// Out-of-range values are saturated, not rejected.
const MaxEditHours = 12.0

// CodeMetrics holds one day's measured coding activity.
type CodeMetrics struct {
	Hours      float64 `json:"hours"`
	Keystrokes int     `json:"keystrokes"`
	LinesAdded int     `json:"lines_added"`
}

// Max returns the field-wise maximum of two metric sets.
func (m CodeMetrics) Max(other CodeMetrics) CodeMetrics {
	out := m
	if other.Hours > out.Hours {
		out.Hours = other.Hours
	}
	if other.Keystrokes > out.Keystrokes {
		out.Keystrokes = other.Keystrokes
	}
	if other.LinesAdded > out.LinesAdded {
		out.LinesAdded = other.LinesAdded
	}
	return out
}

// IsZero reports whether all metric fields are zero.
func (m CodeMetrics) IsZero() bool {
	return m.Hours == 0 && m.Keystrokes == 0 && m.LinesAdded == 0
}

// LogEntry represents one calendar day's progress record.
type LogEntry struct {
	// DayNumber is the 1-based, dense position of the entry in the
	// date-ordered log sequence.
	DayNumber   int         `json:"day_number"`
	Date        time.Time   `json:"date"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Links       []string    `json:"links"`
	Metrics     CodeMetrics `json:"codetime_metrics"`
	Milestones  []int       `json:"milestones"`
	Shared      bool        `json:"shared"`
}

// NewLogEntry returns an entry for the given instant with default fields.
func NewLogEntry(date time.Time) LogEntry {
	return LogEntry{
		Date:        date,
		Title:       NoTitle,
		Description: NoDescription,
		Links:       []string{},
		Milestones:  []int{},
	}
}

// IsPlaceholder reports whether the entry is an empty/unpopulated day:
// zero metrics, default title and description, no milestones, and no
// non-blank links. Trailing placeholder days are treated specially by
// reconciliation and rollover.
func (e LogEntry) IsPlaceholder() bool {
	if !e.Metrics.IsZero() {
		return false
	}
	if e.Title != NoTitle || e.Description != NoDescription {
		return false
	}
	if len(e.Milestones) > 0 {
		return false
	}
	for _, l := range e.Links {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// HasMilestone reports whether the milestone id is attributed to this day.
func (e LogEntry) HasMilestone(id int) bool {
	for _, m := range e.Milestones {
		if m == id {
			return true
		}
	}
	return false
}

// AddMilestone attributes a milestone id to this day, without duplicates.
func (e *LogEntry) AddMilestone(id int) {
	if !e.HasMilestone(id) {
		e.Milestones = append(e.Milestones, id)
	}
}

// RemoveMilestone removes a milestone id attribution, if present.
func (e *LogEntry) RemoveMilestone(id int) {
	for i, m := range e.Milestones {
		if m == id {
			e.Milestones = append(e.Milestones[:i], e.Milestones[i+1:]...)
			return
		}
	}
}
