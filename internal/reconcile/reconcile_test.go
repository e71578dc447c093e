package reconcile_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlendvay/hundred-days/internal/journal"
	"github.com/mlendvay/hundred-days/internal/milestone"
	"github.com/mlendvay/hundred-days/internal/model"
	"github.com/mlendvay/hundred-days/internal/reconcile"
	"github.com/mlendvay/hundred-days/internal/remote"
	"github.com/mlendvay/hundred-days/internal/storage"
	"github.com/mlendvay/hundred-days/internal/timecalc"
)

// fakeStore is an in-memory remote.Store. Setting down simulates the
// service being unreachable.
type fakeStore struct {
	down bool

	logs       []remote.Log
	milestones []remote.MilestoneBatch
	summary    *remote.Summary

	createdLogs [][]remote.Log
	updatedLogs [][]remote.Log
	calls       []string
}

func (f *fakeStore) GetLogs(ctx context.Context) ([]remote.Log, error) {
	if f.down {
		return nil, remote.ErrUnavailable
	}
	return f.logs, nil
}

func (f *fakeStore) CreateLogs(ctx context.Context, logs []remote.Log) error {
	if f.down {
		return remote.ErrUnavailable
	}
	f.calls = append(f.calls, "createLogs")
	f.createdLogs = append(f.createdLogs, logs)
	return nil
}

func (f *fakeStore) UpdateLogs(ctx context.Context, logs []remote.Log) error {
	if f.down {
		return remote.ErrUnavailable
	}
	f.calls = append(f.calls, "updateLogs")
	f.updatedLogs = append(f.updatedLogs, logs)
	return nil
}

func (f *fakeStore) GetMilestones(ctx context.Context) ([]remote.MilestoneBatch, error) {
	if f.down {
		return nil, remote.ErrUnavailable
	}
	return f.milestones, nil
}

func (f *fakeStore) CreateMilestones(ctx context.Context, b []remote.MilestoneBatch) error {
	if f.down {
		return remote.ErrUnavailable
	}
	f.calls = append(f.calls, "createMilestones")
	return nil
}

func (f *fakeStore) UpdateMilestones(ctx context.Context, b []remote.MilestoneBatch) error {
	if f.down {
		return remote.ErrUnavailable
	}
	f.calls = append(f.calls, "updateMilestones")
	return nil
}

func (f *fakeStore) GetSummary(ctx context.Context) (*remote.Summary, error) {
	if f.down {
		return nil, remote.ErrUnavailable
	}
	return f.summary, nil
}

func (f *fakeStore) CreateSummary(ctx context.Context, s remote.Summary) error {
	if f.down {
		return remote.ErrUnavailable
	}
	f.calls = append(f.calls, "createSummary")
	f.summary = &s
	return nil
}

func (f *fakeStore) UpdateSummary(ctx context.Context, s remote.Summary) error {
	if f.down {
		return remote.ErrUnavailable
	}
	f.calls = append(f.calls, "updateSummary")
	f.summary = &s
	return nil
}

func day(n int) time.Time {
	return time.Date(2026, 3, n, 12, 0, 0, 0, time.Local)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

type fixture struct {
	store  *fakeStore
	rec    *reconcile.Reconciler
	book   *journal.Book
	engine *milestone.Engine
	sum    model.Summary
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	files := storage.NewFileStore(t.TempDir())
	book, err := journal.Open(files.Logs())
	require.NoError(t, err)
	engine, err := milestone.NewEngine(files.Milestones(), nil)
	require.NoError(t, err)
	store := &fakeStore{}
	return &fixture{
		store:  store,
		rec:    reconcile.New(store, quietLogger()),
		book:   book,
		engine: engine,
		sum:    model.NewSummary(),
	}
}

func localEntry(n int, title string, hours float64) model.LogEntry {
	e := model.NewLogEntry(day(n))
	e.DayNumber = n
	e.Title = title
	e.Metrics.Hours = hours
	return e
}

func serverLog(n int, title string, minutes float64) remote.Log {
	return remote.Log{
		DayNumber: n,
		Title:     title,
		Minutes:   minutes,
		UnixDate:  day(n).Unix(),
	}
}

func TestSyncOfflineKeepsLocal(t *testing.T) {
	f := newFixture(t)
	f.book.Append(localEntry(1, "Day 1", 2))
	f.store.down = true

	_, err := f.rec.Sync(context.Background(), f.book, f.engine, &f.sum, day(2))
	require.NoError(t, err, "unavailability is never fatal")
	assert.Equal(t, 1, f.book.Len())
	assert.Equal(t, "Day 1", f.book.MostRecent().Title)
}

func TestMergeConflictLocalExtraDays(t *testing.T) {
	// Local has 3 days; server reports 2 where day 2 conflicts with
	// higher local hours.
	f := newFixture(t)
	f.book.Append(localEntry(1, "Day 1", 1))
	f.book.Append(localEntry(2, "Day 2", 3))
	f.book.Append(localEntry(3, "Day 3", 2))

	f.store.logs = []remote.Log{
		serverLog(1, "Day 1", 60),
		serverLog(2, "Day 2", 120), // 2h, lower than local 3h
	}

	_, err := f.rec.Sync(context.Background(), f.book, f.engine, &f.sum, day(4))
	require.NoError(t, err)

	entries := f.book.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, 3.0, entries[1].Metrics.Hours, "local maximum wins")
	assert.Equal(t, "Day 3", entries[2].Title, "local-only day preserved")
	for i, e := range entries {
		assert.Equal(t, i+1, e.DayNumber, "day numbers stay dense")
	}
}

func TestMergeServerHasMoreDays(t *testing.T) {
	f := newFixture(t)
	local := localEntry(1, "Local title", 3)
	local.Description = "local description"
	f.book.Append(local)

	s1 := serverLog(1, "Server title", 60) // server text wins, metrics max
	s1.Description = "server description"
	s2 := serverLog(2, "Day 2", 90)
	f.store.logs = []remote.Log{s1, s2}

	_, err := f.rec.Sync(context.Background(), f.book, f.engine, &f.sum, day(3))
	require.NoError(t, err)

	entries := f.book.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Server title", entries[0].Title)
	assert.Equal(t, "server description", entries[0].Description)
	assert.Equal(t, 3.0, entries[0].Metrics.Hours, "metrics never regress below local")
	assert.Equal(t, 1.5, entries[1].Metrics.Hours)
	assert.Equal(t, 2, entries[1].DayNumber)
}

func TestEmptyServerPushesAllLocal(t *testing.T) {
	f := newFixture(t)
	f.book.Append(localEntry(1, "Day 1", 2))
	f.book.Append(localEntry(2, "Day 2", 1))

	res, err := f.rec.Sync(context.Background(), f.book, f.engine, &f.sum, day(3))
	require.NoError(t, err)
	assert.Equal(t, 2, res.PushedCreates)
	require.Len(t, f.store.createdLogs, 1)
	assert.Len(t, f.store.createdLogs[0], 2)
}

func TestPlaceholderDaysNotPushed(t *testing.T) {
	f := newFixture(t)
	f.book.Append(localEntry(1, "Day 1", 2))
	f.book.Append(model.NewLogEntry(day(2))) // empty trailing day

	res, err := f.rec.Sync(context.Background(), f.book, f.engine, &f.sum, day(3))
	require.NoError(t, err)
	assert.Equal(t, 1, res.PushedCreates, "only the populated day is created server-side")
	require.Len(t, f.store.createdLogs, 1)
	require.Len(t, f.store.createdLogs[0], 1)
	assert.Equal(t, "Day 1", f.store.createdLogs[0][0].Title)
}

func TestQueuedCreatesFlushBeforeUpdates(t *testing.T) {
	f := newFixture(t)
	f.rec.EnqueueUpdate(localEntry(1, "Old day", 1))
	f.rec.EnqueueCreate(localEntry(2, "New day", 2))
	require.True(t, f.rec.Pending())

	_, err := f.rec.Sync(context.Background(), f.book, f.engine, &f.sum, day(3))
	require.NoError(t, err)
	require.False(t, f.rec.Pending())

	require.GreaterOrEqual(t, len(f.store.calls), 2)
	assert.Equal(t, "createLogs", f.store.calls[0], "creates must flush before updates")
	assert.Equal(t, "updateLogs", f.store.calls[1])
}

func TestQueuesKeptWhileOffline(t *testing.T) {
	f := newFixture(t)
	f.rec.EnqueueCreate(localEntry(1, "Day 1", 1))
	f.store.down = true

	_, err := f.rec.Sync(context.Background(), f.book, f.engine, &f.sum, day(2))
	require.NoError(t, err)
	assert.True(t, f.rec.Pending(), "failed pushes stay buffered for the next run")

	f.store.down = false
	res, err := f.rec.Sync(context.Background(), f.book, f.engine, &f.sum, day(2))
	require.NoError(t, err)
	assert.False(t, f.rec.Pending())
	assert.GreaterOrEqual(t, res.PushedCreates, 1)
}

func TestSummaryCreateVsUpdate(t *testing.T) {
	f := newFixture(t)
	f.sum.Days = 2
	f.sum.Hours = 5

	_, err := f.rec.Sync(context.Background(), f.book, f.engine, &f.sum, day(3))
	require.NoError(t, err)
	assert.Contains(t, f.store.calls, "createSummary", "missing server summary gets a create")

	f.store.calls = nil
	_, err = f.rec.Sync(context.Background(), f.book, f.engine, &f.sum, day(3))
	require.NoError(t, err)
	assert.Contains(t, f.store.calls, "updateSummary", "existing server summary gets an update")
	assert.NotContains(t, f.store.calls, "createSummary")
}

func TestSummaryMergeNeverRegresses(t *testing.T) {
	f := newFixture(t)
	f.sum.Shares = 1
	f.sum.Languages = []string{"go"}
	f.store.summary = &remote.Summary{
		Shares:        4,
		LongestStreak: 9,
		Languages:     []string{"python"},
	}

	_, err := f.rec.Sync(context.Background(), f.book, f.engine, &f.sum, day(3))
	require.NoError(t, err)
	assert.Equal(t, 4, f.sum.Shares)
	assert.Equal(t, 9, f.sum.LongestStreak)
	assert.Equal(t, []string{"go", "python"}, f.sum.Languages)
}

func TestMilestoneMergeRefreshesAttribution(t *testing.T) {
	f := newFixture(t)
	e := localEntry(1, "Day 1", 2)
	f.book.Append(e)

	f.store.milestones = []remote.MilestoneBatch{
		{DayNumber: 1, UnixDate: day(1).Unix(), Milestones: []int{1, 19}},
	}

	res, err := f.rec.Sync(context.Background(), f.book, f.engine, &f.sum, day(1))
	require.NoError(t, err)
	assert.Equal(t, 2, res.MergedMilestones)

	m, err := f.engine.Get(1)
	require.NoError(t, err)
	assert.True(t, m.Achieved, "server achievement stamps locally unachieved milestone")
	assert.True(t, timecalc.SameDay(m.DateAchieved, day(1)))

	entry := f.book.ByDayNumber(1)
	assert.ElementsMatch(t, []int{1, 19}, entry.Milestones, "attribution lands on the matching day")
}

func TestSingleFlightGuardDropsReentrantSync(t *testing.T) {
	// The guard is observable through the Result: a second sync started
	// while one is in flight returns an empty result. With the fake
	// store everything completes inline, so exercise the guard directly
	// by checking that two sequential syncs both run (the flag resets).
	f := newFixture(t)
	f.book.Append(localEntry(1, "Day 1", 2))

	res1, err := f.rec.Sync(context.Background(), f.book, f.engine, &f.sum, day(2))
	require.NoError(t, err)
	assert.True(t, res1.SummaryPushed)

	res2, err := f.rec.Sync(context.Background(), f.book, f.engine, &f.sum, day(2))
	require.NoError(t, err)
	assert.True(t, res2.SummaryPushed, "guard must reset after a completed sync")
}

func TestConcurrentSyncsNeverOverlap(t *testing.T) {
	f := newFixture(t)
	f.book.Append(localEntry(1, "Day 1", 2))

	// Overlapping calls are dropped by the in-flight guard; calls that
	// do run are strictly ordered by it.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.rec.Sync(context.Background(), f.book, f.engine, &f.sum, day(2))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, 1, f.book.Len())
	assert.Equal(t, "Day 1", f.book.MostRecent().Title)
	assert.Equal(t, 1, f.book.MostRecent().DayNumber)
}
