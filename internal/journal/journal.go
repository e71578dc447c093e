// Package journal implements the append-only, day-indexed log of daily
// progress entries. At most one entry exists per calendar day, and day
// numbers always form a dense 1..N index over the date-ordered sequence.
package journal

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mlendvay/hundred-days/internal/model"
	"github.com/mlendvay/hundred-days/internal/storage"
	"github.com/mlendvay/hundred-days/internal/timecalc"
)

// Book is the in-memory log sequence bound to its repository.
type Book struct {
	repo    storage.LogRepo
	entries []model.LogEntry
}

// Open loads the log sequence from its repository.
func Open(repo storage.LogRepo) (*Book, error) {
	entries, err := repo.Load()
	if err != nil {
		return nil, err
	}
	return &Book{repo: repo, entries: entries}, nil
}

// Save persists the current sequence.
func (b *Book) Save() error {
	return b.repo.Save(b.entries)
}

// Entries returns the ordered log sequence. Callers must not mutate it.
func (b *Book) Entries() []model.LogEntry {
	return b.entries
}

// Len returns the number of logged days.
func (b *Book) Len() int { return len(b.entries) }

// Replace swaps in a merged sequence (used by reconciliation) and
// renumbers it densely.
func (b *Book) Replace(entries []model.LogEntry) {
	b.entries = Renumber(entries)
}

// Append records a new day. If an entry for the same calendar day already
// exists, the new entry is merged into it instead of appended. The
// resulting entry is returned.
func (b *Book) Append(entry model.LogEntry) model.LogEntry {
	if existing := b.FindByCalendarDate(entry.Date); existing != nil {
		merged := Merge(*existing, entry)
		merged.DayNumber = existing.DayNumber
		b.entries[existing.DayNumber-1] = merged
		return merged
	}
	entry.DayNumber = len(b.entries) + 1
	if entry.Links == nil {
		entry.Links = []string{}
	}
	if entry.Milestones == nil {
		entry.Milestones = []int{}
	}
	b.entries = append(b.entries, entry)
	return entry
}

// Update replaces title, description, links and hours of an existing
// entry in place. Hours are saturated to [0, model.MaxEditHours], never
// rejected. The entry's date is bumped to now as its last-edit instant.
func (b *Book) Update(dayNumber int, title, description string, links []string, hours float64, now time.Time) error {
	if dayNumber < 1 || dayNumber > len(b.entries) {
		return fmt.Errorf("no log entry for day %d", dayNumber)
	}
	e := &b.entries[dayNumber-1]
	e.Title = title
	e.Description = description
	if links == nil {
		links = []string{}
	}
	e.Links = links
	if hours < 0 {
		hours = 0
	}
	if hours > model.MaxEditHours {
		hours = model.MaxEditHours
	}
	e.Metrics.Hours = hours
	e.Date = now
	return nil
}

// FindByCalendarDate returns the entry whose date falls on the same
// calendar day as t, or nil.
func (b *Book) FindByCalendarDate(t time.Time) *model.LogEntry {
	for i := range b.entries {
		if timecalc.SameDay(b.entries[i].Date, t) {
			return &b.entries[i]
		}
	}
	return nil
}

// ByDayNumber returns the entry with the given day number, or nil.
func (b *Book) ByDayNumber(dayNumber int) *model.LogEntry {
	if dayNumber < 1 || dayNumber > len(b.entries) {
		return nil
	}
	return &b.entries[dayNumber-1]
}

// MostRecent returns the last entry in the sequence, or nil when empty.
func (b *Book) MostRecent() *model.LogEntry {
	if len(b.entries) == 0 {
		return nil
	}
	return &b.entries[len(b.entries)-1]
}

// MarkShared flips the one-way shared flag on an entry. It reports
// whether the flag was newly set; marking an already-shared entry is a
// no-op so the share counter is only ever incremented once per day.
func (b *Book) MarkShared(dayNumber int) (bool, error) {
	if dayNumber < 1 || dayNumber > len(b.entries) {
		return false, fmt.Errorf("no log entry for day %d", dayNumber)
	}
	e := &b.entries[dayNumber-1]
	if e.Shared {
		return false, nil
	}
	e.Shared = true
	return true, nil
}

// HoursSeries returns the per-day hours in day order, for charting.
func (b *Book) HoursSeries() []float64 {
	out := make([]float64, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e.Metrics.Hours)
	}
	return out
}

// LastPopulated returns up to n most-recent entries with a non-default
// title, newest first.
func (b *Book) LastPopulated(n int) []model.LogEntry {
	var out []model.LogEntry
	for i := len(b.entries) - 1; i >= 0 && len(out) < n; i-- {
		if b.entries[i].Title != model.NoTitle {
			out = append(out, b.entries[i])
		}
	}
	return out
}

// DateRange returns the first and last entry dates. ok is false when the
// log is empty.
func (b *Book) DateRange() (first, last time.Time, ok bool) {
	if len(b.entries) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return b.entries[0].Date, b.entries[len(b.entries)-1].Date, true
}

// Renumber sorts entries by date ascending and reassigns day numbers
// densely from 1.
func Renumber(entries []model.LogEntry) []model.LogEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	for i := range entries {
		entries[i].DayNumber = i + 1
	}
	return entries
}

// Merge combines two entries for the same calendar day into one. Nothing
// is dropped: differing titles are joined with " OR ", differing
// descriptions are concatenated, links and milestones are unioned, and
// each metric field takes the maximum of the two.
func Merge(a, b model.LogEntry) model.LogEntry {
	out := a

	switch {
	case a.Title == model.NoTitle:
		out.Title = b.Title
	case b.Title == model.NoTitle || b.Title == a.Title:
		// keep a's
	default:
		out.Title = a.Title + " OR " + b.Title
	}

	switch {
	case a.Description == model.NoDescription:
		out.Description = b.Description
	case b.Description == model.NoDescription || b.Description == a.Description:
		// keep a's
	default:
		out.Description = a.Description + "\n---\n" + b.Description
	}

	out.Links = unionStrings(a.Links, b.Links)
	out.Metrics = a.Metrics.Max(b.Metrics)
	out.Milestones = unionInts(a.Milestones, b.Milestones)
	out.Shared = a.Shared || b.Shared
	if b.Date.After(a.Date) {
		out.Date = b.Date
	}
	return out
}

func unionStrings(a, b []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, s := range append(append([]string{}, a...), b...) {
		if strings.TrimSpace(s) == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func unionInts(a, b []int) []int {
	out := []int{}
	seen := map[int]bool{}
	for _, v := range append(append([]int{}, a...), b...) {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
