// Package summary derives the cached rollup statistics from the log
// sequence. The summary is a pure cache: everything here is re-derivable
// from the log plus the milestone catalog.
package summary

import (
	"time"

	"github.com/mlendvay/hundred-days/internal/model"
	"github.com/mlendvay/hundred-days/internal/timecalc"
)

// Recompute fully re-derives totals and streaks from the log sequence.
// Every entry except the last is folded into the lifetime totals; the
// last entry is folded too unless it is still today's in-progress day, in
// which case its metrics stay in the current* shadow fields. Fields not
// derivable from the log alone (languages, shares, milestone counts,
// recent milestones) are carried over from prev.
func Recompute(prev model.Summary, entries []model.LogEntry, now time.Time) model.Summary {
	out := prev
	out.Days = 0
	out.Hours = 0
	out.Keystrokes = 0
	out.LinesAdded = 0
	out.CurrentHours = 0
	out.CurrentKeystrokes = 0
	out.CurrentLines = 0
	out.CurrentDate = now

	for i, e := range entries {
		last := i == len(entries)-1
		if last && timecalc.SameDay(e.Date, now) {
			out.CurrentHours = e.Metrics.Hours
			out.CurrentKeystrokes = e.Metrics.Keystrokes
			out.CurrentLines = e.Metrics.LinesAdded
			out.CurrentDate = e.Date
			continue
		}
		out.Days++
		out.Hours += e.Metrics.Hours
		out.Keystrokes += e.Metrics.Keystrokes
		out.LinesAdded += e.Metrics.LinesAdded
	}

	out.CurrentStreak, out.LongestStreak = streaks(entries)
	if prev.LongestStreak > out.LongestStreak {
		out.LongestStreak = prev.LongestStreak
	}
	out.LastUpdated = now
	return out
}

// streaks walks the date-ordered entries, counting consecutive calendar
// days. A gap starts a new streak at 1; the longest streak tracks the
// running maximum. The final (possibly in-progress) entry participates.
func streaks(entries []model.LogEntry) (current, longest int) {
	var prev time.Time
	for i, e := range entries {
		switch {
		case i == 0:
			current = 1
		case timecalc.IsNextCalendarDay(prev, e.Date):
			current++
		case timecalc.SameDay(prev, e.Date):
			// same calendar day, streak unchanged
		default:
			current = 1
		}
		if current > longest {
			longest = current
		}
		prev = e.Date
	}
	return current, longest
}

// Rollover folds the current-day shadow fields into the lifetime totals
// because a new calendar day has begun, advances the day count, updates
// the streak counters, and clears the shadow fields for the new day.
func Rollover(sum model.Summary, now time.Time) model.Summary {
	out := sum
	out.Days++
	out.Hours += sum.CurrentHours
	out.Keystrokes += sum.CurrentKeystrokes
	out.LinesAdded += sum.CurrentLines

	if timecalc.IsNextCalendarDay(sum.CurrentDate, now) {
		out.CurrentStreak++
	} else {
		out.CurrentStreak = 1
	}
	if out.CurrentStreak > out.LongestStreak {
		out.LongestStreak = out.CurrentStreak
	}

	out.CurrentHours = 0
	out.CurrentKeystrokes = 0
	out.CurrentLines = 0
	out.CurrentDate = now
	out.LastUpdated = now
	return out
}

// NeedsRollover reports whether the summary's in-progress day is stale:
// its current date no longer falls on today.
func NeedsRollover(sum model.Summary, now time.Time) bool {
	return !sum.CurrentDate.IsZero() && !timecalc.SameDay(sum.CurrentDate, now)
}

// SetCurrent replaces today's shadow metrics with a fresh snapshot.
func SetCurrent(sum *model.Summary, metrics model.CodeMetrics, now time.Time) {
	sum.CurrentHours = metrics.Hours
	sum.CurrentKeystrokes = metrics.Keystrokes
	sum.CurrentLines = metrics.LinesAdded
	sum.CurrentDate = now
	sum.LastUpdated = now
}

// IncrementShares bumps the share counter.
func IncrementShares(sum *model.Summary, now time.Time) {
	sum.Shares++
	sum.LastUpdated = now
}

// SetLanguages replaces the lifetime language set with a merged one.
func SetLanguages(sum *model.Summary, languages []string, now time.Time) {
	sum.Languages = languages
	sum.LastUpdated = now
}

// RecordMilestones updates the achieved-milestone count and pushes newly
// achieved ids onto the recent-milestones buffer.
func RecordMilestones(sum *model.Summary, total int, newIDs []int, now time.Time) {
	sum.Milestones = total
	sum.PushRecentMilestones(newIDs)
	sum.LastUpdated = now
}

// MergeLanguages unions two language sets preserving first-seen order.
func MergeLanguages(a, b []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, l := range append(append([]string{}, a...), b...) {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
