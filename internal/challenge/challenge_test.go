package challenge_test

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlendvay/hundred-days/internal/challenge"
	"github.com/mlendvay/hundred-days/internal/metrics"
	"github.com/mlendvay/hundred-days/internal/notify"
	"github.com/mlendvay/hundred-days/internal/storage"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advanceDays(n int) { c.t = c.t.AddDate(0, 0, n) }

func newChallenge(t *testing.T, provider metrics.Static) (*challenge.Challenge, *notify.Recorder, *clock) {
	t.Helper()
	clk := &clock{t: time.Date(2026, 5, 1, 18, 0, 0, 0, time.Local)}
	rec := &notify.Recorder{}
	quiet := logrus.New()
	quiet.SetLevel(logrus.PanicLevel)

	c, err := challenge.Open(challenge.Options{
		Store:     storage.NewFileStore(t.TempDir()),
		Metrics:   provider,
		Languages: provider,
		Sink:      rec,
		Log:       quiet,
		Now:       clk.now,
	})
	require.NoError(t, err)
	return c, rec, clk
}

func achievedIDs(c *challenge.Challenge) []int {
	var ids []int
	for _, m := range c.Milestones() {
		if m.Achieved {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

func TestFreshUserFirstLog(t *testing.T) {
	c, rec, _ := newChallenge(t, metrics.Static{})

	err := c.LogProgress("Day 1", "got started", 1.5, 50, 20, nil)
	require.NoError(t, err)

	logs := c.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, 1, logs[0].DayNumber)
	assert.Equal(t, "Day 1", logs[0].Title)

	// 1.5h crosses the first aggregate and daily hours tiers, 20 lines
	// crosses the first two lines tiers, and one logged day with enough
	// effort earns the first-day milestone.
	assert.ElementsMatch(t, []int{1, 7, 19, 25, 26}, achievedIDs(c))
	assert.ElementsMatch(t, []int{1, 7, 19, 25, 26}, logs[0].Milestones)

	sum := c.Summary()
	assert.Equal(t, 0, sum.Days, "today is still in progress")
	assert.Equal(t, 1.5, sum.CurrentHours)
	assert.Equal(t, 5, sum.Milestones)

	require.NotEmpty(t, rec.Notifications)
	assert.Equal(t, notify.KindMilestone, rec.Notifications[0].Kind)
}

func TestSecondLogSameDayMerges(t *testing.T) {
	c, _, _ := newChallenge(t, metrics.Static{})

	require.NoError(t, c.LogProgress("Morning", "", 1.0, 100, 10, nil))
	require.NoError(t, c.LogProgress("Evening", "", 2.5, 80, 30, nil))

	logs := c.Logs()
	require.Len(t, logs, 1, "same calendar day merges into one entry")
	assert.Equal(t, "Morning OR Evening", logs[0].Title)
	assert.Equal(t, 2.5, logs[0].Metrics.Hours)
	assert.Equal(t, 2.5, c.Summary().CurrentHours)
}

func TestEvaluationIsIdempotent(t *testing.T) {
	c, rec, _ := newChallenge(t, metrics.Static{})
	require.NoError(t, c.LogProgress("Day 1", "", 1.5, 50, 20, nil))

	before := len(rec.Notifications)
	require.NoError(t, c.RunMilestoneEvaluation())
	require.NoError(t, c.RunMilestoneEvaluation())

	assert.Equal(t, before, len(rec.Notifications), "nothing new to announce")
	assert.Equal(t, 5, c.Summary().Milestones)
}

func TestConcurrentTriggersKeepStateConsistent(t *testing.T) {
	c, _, _ := newChallenge(t, metrics.Static{})
	require.NoError(t, c.LogProgress("Day 1", "", 1.5, 50, 20, nil))

	// Watch mode fires evaluations from the watcher, the scheduler and
	// the day-boundary tick at once; readers poll alongside them.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				assert.NoError(t, c.RunMilestoneEvaluation())
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				_ = c.Summary()
				_ = c.Logs()
			}
		}()
	}
	wg.Wait()

	assert.ElementsMatch(t, []int{1, 7, 19, 25, 26}, achievedIDs(c))
	sum := c.Summary()
	assert.Equal(t, 5, sum.Milestones)
	assert.Equal(t, 1.5, sum.CurrentHours)
	require.Len(t, c.Logs(), 1)
	assert.ElementsMatch(t, []int{1, 7, 19, 25, 26}, c.Logs()[0].Milestones)
}

func TestRolloverOnNextDayLog(t *testing.T) {
	c, _, clk := newChallenge(t, metrics.Static{})
	require.NoError(t, c.LogProgress("Day 1", "", 1.5, 0, 0, nil))

	clk.advanceDays(1)
	require.NoError(t, c.LogProgress("Day 2", "", 1.0, 0, 0, nil))

	logs := c.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, 2, logs[1].DayNumber)

	sum := c.Summary()
	assert.Equal(t, 1, sum.Days, "day one folded into the totals")
	assert.Equal(t, 1.5, sum.Hours)
	assert.Equal(t, 1.0, sum.CurrentHours)
	assert.Equal(t, 2, sum.CurrentStreak)

	assert.Contains(t, achievedIDs(c), 13, "two-day streak milestone")
	assert.Contains(t, logs[1].Milestones, 13)
	assert.Contains(t, logs[1].Milestones, 19, "daily hours re-achieved on day two")
}

func TestPlaceholderDayDoesNotRollOver(t *testing.T) {
	c, _, clk := newChallenge(t, metrics.Static{})
	require.NoError(t, c.LogProgress("Day 1", "", 1.5, 0, 0, nil))

	clk.advanceDays(1)
	require.NoError(t, c.LogProgress("", "", 0, 0, 0, nil)) // empty day 2

	clk.advanceDays(1)
	require.NoError(t, c.RunMilestoneEvaluation())

	sum := c.Summary()
	assert.Equal(t, 1, sum.Days, "an empty trailing day never completes")
	assert.Equal(t, 1.5, sum.Hours)
	assert.Equal(t, 0.0, sum.CurrentHours)
}

func TestShareLogFiresShareMilestone(t *testing.T) {
	c, _, _ := newChallenge(t, metrics.Static{})
	require.NoError(t, c.LogProgress("Day 1", "", 1.5, 0, 0, nil))

	require.NoError(t, c.ShareLog(1))
	assert.Equal(t, 1, c.Summary().Shares)
	assert.Contains(t, achievedIDs(c), 31)

	// Sharing the same day again is a no-op.
	require.NoError(t, c.ShareLog(1))
	assert.Equal(t, 1, c.Summary().Shares)
}

func TestLanguageMilestones(t *testing.T) {
	c, _, _ := newChallenge(t, metrics.Static{Langs: []string{"python", "typescript"}})
	require.NoError(t, c.LogProgress("Day 1", "", 1.5, 0, 0, nil))

	ids := achievedIDs(c)
	assert.Contains(t, ids, 50, "python milestone")
	assert.Contains(t, ids, 56, "typescript milestone")
	assert.Contains(t, ids, 43, "first language")
	assert.Contains(t, ids, 44, "second language")
	assert.ElementsMatch(t, []string{"python", "typescript"}, c.Summary().Languages)
}

func TestSnapshotAloneDrivesEvaluation(t *testing.T) {
	c, _, _ := newChallenge(t, metrics.Static{Snap: metrics.Snapshot{Minutes: 120, Keystrokes: 200, LinesAdded: 0}})

	require.NoError(t, c.RunMilestoneEvaluation())

	sum := c.Summary()
	assert.Equal(t, 2.0, sum.CurrentHours, "tracker snapshot feeds the shadow fields")
	ids := achievedIDs(c)
	assert.Contains(t, ids, 1)
	assert.Contains(t, ids, 19)
	assert.Contains(t, ids, 20)
	assert.Contains(t, ids, 37, "keystrokes tier")
	assert.NotContains(t, ids, 7, "no log entry means no day counted")
}

func TestEditLogUpdatesTotals(t *testing.T) {
	c, _, clk := newChallenge(t, metrics.Static{})
	require.NoError(t, c.LogProgress("Day 1", "", 1.0, 0, 0, nil))

	clk.advanceDays(1)
	require.NoError(t, c.LogProgress("Day 2", "", 1.0, 0, 0, nil))

	require.NoError(t, c.EditLog(1, "Day 1 revised", "fixed the notes", nil, 3.0))

	logs := c.Logs()
	assert.Equal(t, "Day 1 revised", logs[0].Title)
	assert.Equal(t, 3.0, logs[0].Metrics.Hours)
	assert.Equal(t, 3.0, c.Summary().Hours, "edited day is already folded")
}

func TestEditLogSaturatesHours(t *testing.T) {
	c, _, _ := newChallenge(t, metrics.Static{})
	require.NoError(t, c.LogProgress("Day 1", "", 1.0, 0, 0, nil))

	require.NoError(t, c.EditLog(1, "", "", nil, 99))
	assert.Equal(t, 12.0, c.Logs()[0].Metrics.Hours)
}

func TestStatePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	clk := &clock{t: time.Date(2026, 5, 1, 18, 0, 0, 0, time.Local)}
	open := func() *challenge.Challenge {
		c, err := challenge.Open(challenge.Options{
			Store:   storage.NewFileStore(dir),
			Metrics: metrics.Static{},
			Sink:    &notify.Recorder{},
			Now:     clk.now,
		})
		require.NoError(t, err)
		return c
	}

	c := open()
	require.NoError(t, c.LogProgress("Day 1", "", 1.5, 50, 20, nil))

	reopened := open()
	require.Len(t, reopened.Logs(), 1)
	assert.Equal(t, 5, reopened.Summary().Milestones)
	assert.ElementsMatch(t, []int{1, 7, 19, 25, 26}, achievedIDs(reopened))
}
