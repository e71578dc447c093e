// Package remote talks to the challenge service. Every call reports
// success via HTTP status (< 300 = ok); any transport error or non-2xx
// status is collapsed into ErrUnavailable; the core never distinguishes
// further and always has a local-only fallback.
package remote

import (
	"context"
	"errors"
)

// ErrUnavailable marks any remote failure: offline, timeout, non-2xx.
// Always retryable, never fatal.
var ErrUnavailable = errors.New("remote service unavailable")

// Log is the wire representation of one day's progress record.
type Log struct {
	DayNumber     int      `json:"day_number"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	RefLinks      []string `json:"ref_links"`
	Minutes       float64  `json:"minutes"`
	Keystrokes    int      `json:"keystrokes"`
	LinesAdded    int      `json:"lines_added"`
	UnixDate      int64    `json:"unix_date"`
	LocalDate     int64    `json:"local_date"`
	OffsetMinutes int      `json:"offset_minutes"`
	Timezone      string   `json:"timezone"`
}

// MilestoneBatch is a server-reported set of milestone achievements
// attributed to one local calendar day.
type MilestoneBatch struct {
	DayNumber     int   `json:"day_number"`
	UnixDate      int64 `json:"unix_date"`
	LocalDate     int64 `json:"local_date"`
	OffsetMinutes int   `json:"offset_minutes"`
	Milestones    []int `json:"milestones"`
}

// Summary is the wire representation of the aggregate summary.
type Summary struct {
	Days          int      `json:"days"`
	Minutes       float64  `json:"minutes"`
	Keystrokes    int      `json:"keystrokes"`
	LinesAdded    int      `json:"lines_added"`
	LongestStreak int      `json:"longest_streak"`
	Milestones    int      `json:"milestones"`
	Shares        int      `json:"shares"`
	Languages     []string `json:"languages"`
}

// Store is the remote challenge service as the core sees it. Get calls
// return (nil, nil) when the server has no record yet; any failure is
// ErrUnavailable (possibly wrapped).
type Store interface {
	GetLogs(ctx context.Context) ([]Log, error)
	CreateLogs(ctx context.Context, logs []Log) error
	UpdateLogs(ctx context.Context, logs []Log) error

	GetMilestones(ctx context.Context) ([]MilestoneBatch, error)
	CreateMilestones(ctx context.Context, batches []MilestoneBatch) error
	UpdateMilestones(ctx context.Context, batches []MilestoneBatch) error

	GetSummary(ctx context.Context) (*Summary, error)
	CreateSummary(ctx context.Context, sum Summary) error
	UpdateSummary(ctx context.Context, sum Summary) error
}
