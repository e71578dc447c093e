package model

import "time"

// RecentMilestonesCap bounds the recent-milestones ring buffer.
const RecentMilestonesCap = 5

// Summary is the cached aggregate derived from the full log sequence.
// It is always re-derivable from the log plus the milestone catalog and
// must never be the sole source of truth.
type Summary struct {
	Days          int      `json:"days"`
	Hours         float64  `json:"hours"`
	Keystrokes    int      `json:"keystrokes"`
	LinesAdded    int      `json:"lines_added"`
	LongestStreak int      `json:"longest_streak"`
	CurrentStreak int      `json:"current_streak"`
	Milestones    int      `json:"milestones"`
	Shares        int      `json:"shares"`
	Languages     []string `json:"languages"`

	// Shadow fields for the in-progress day, folded into the totals above
	// when the day rolls over.
	CurrentHours      float64   `json:"current_hours"`
	CurrentKeystrokes int       `json:"current_keystrokes"`
	CurrentLines      int       `json:"current_lines"`
	CurrentDate       time.Time `json:"current_date"`

	// RecentMilestones holds the most recently achieved ids, newest first.
	RecentMilestones []int     `json:"recent_milestones"`
	LastUpdated      time.Time `json:"last_updated"`
}

// NewSummary returns the zeroed summary used when no document exists yet.
func NewSummary() Summary {
	return Summary{
		Languages:        []string{},
		RecentMilestones: []int{},
	}
}

// AverageHours returns lifetime hours per day, or 0 when no day has
// completed yet.
func (s Summary) AverageHours() float64 {
	if s.Days == 0 {
		return 0
	}
	return s.Hours / float64(s.Days)
}

// PercentOfAverage compares today's hours against the lifetime average.
// With no history the day counts as exactly on pace.
func (s Summary) PercentOfAverage() float64 {
	avg := s.AverageHours()
	if avg == 0 {
		return 100
	}
	return s.CurrentHours / avg * 100
}

// HasLanguage reports whether the language has ever been seen.
func (s Summary) HasLanguage(lang string) bool {
	for _, l := range s.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// PushRecentMilestones prepends newly achieved ids and trims the buffer
// to RecentMilestonesCap.
func (s *Summary) PushRecentMilestones(ids []int) {
	if len(ids) == 0 {
		return
	}
	s.RecentMilestones = append(append([]int{}, ids...), s.RecentMilestones...)
	if len(s.RecentMilestones) > RecentMilestonesCap {
		s.RecentMilestones = s.RecentMilestones[:RecentMilestonesCap]
	}
}
