package timecalc

import (
	"fmt"
	"math"
	"time"
)

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Midnight returns the start of the next day in the same location.
func Midnight(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, t.Location())
}

// IsNextCalendarDay reports whether b falls on the calendar day
// immediately after a's. Streak continuation uses this, not elapsed 24h.
func IsNextCalendarDay(a, b time.Time) bool {
	return SameDay(a.AddDate(0, 0, 1), b)
}

// MinutesToHours converts tracked minutes to fractional hours.
func MinutesToHours(minutes float64) float64 {
	return minutes / 60
}

// FormatHours formats fractional hours as a human-readable string like
// "1h 40m" or "45m".
func FormatHours(hours float64) string {
	total := int64(math.Round(hours * 60))
	h := total / 60
	m := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
