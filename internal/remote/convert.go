package remote

import (
	"time"

	"github.com/mlendvay/hundred-days/internal/model"
	"github.com/mlendvay/hundred-days/internal/timecalc"
)

// FromEntry converts a local log entry to its wire form. The server
// tracks minutes; hours are a local convention.
func FromEntry(e model.LogEntry) Log {
	_, offset := e.Date.Zone()
	return Log{
		DayNumber:     e.DayNumber,
		Title:         e.Title,
		Description:   e.Description,
		RefLinks:      append([]string{}, e.Links...),
		Minutes:       e.Metrics.Hours * 60,
		Keystrokes:    e.Metrics.Keystrokes,
		LinesAdded:    e.Metrics.LinesAdded,
		UnixDate:      e.Date.Unix(),
		LocalDate:     e.Date.Unix() + int64(offset),
		OffsetMinutes: offset / 60,
		Timezone:      e.Date.Location().String(),
	}
}

// ToEntry converts a wire log to a local entry. Milestone attribution is
// not part of the log wire format and starts empty.
func ToEntry(l Log) model.LogEntry {
	e := model.NewLogEntry(time.Unix(l.UnixDate, 0).Local())
	e.DayNumber = l.DayNumber
	if l.Title != "" {
		e.Title = l.Title
	}
	e.Description = l.Description
	if l.RefLinks != nil {
		e.Links = append([]string{}, l.RefLinks...)
	}
	e.Metrics = model.CodeMetrics{
		Hours:      timecalc.MinutesToHours(l.Minutes),
		Keystrokes: l.Keystrokes,
		LinesAdded: l.LinesAdded,
	}
	return e
}

// BatchDate returns the local calendar day a milestone batch refers to.
func BatchDate(b MilestoneBatch) time.Time {
	return time.Unix(b.UnixDate, 0).Local()
}

// FromSummary converts the local summary to its wire form. Only completed
// totals are reported; the in-progress shadow fields stay local.
func FromSummary(s model.Summary) Summary {
	return Summary{
		Days:          s.Days,
		Minutes:       s.Hours * 60,
		Keystrokes:    s.Keystrokes,
		LinesAdded:    s.LinesAdded,
		LongestStreak: s.LongestStreak,
		Milestones:    s.Milestones,
		Shares:        s.Shares,
		Languages:     append([]string{}, s.Languages...),
	}
}
