// Package challenge wires the log store, summary aggregator, milestone
// engine and reconciler behind the operations the CLI and watch daemon
// call. One Challenge instance is constructed at process start and passed
// to all call sites.
package challenge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mlendvay/hundred-days/internal/journal"
	"github.com/mlendvay/hundred-days/internal/metrics"
	"github.com/mlendvay/hundred-days/internal/milestone"
	"github.com/mlendvay/hundred-days/internal/model"
	"github.com/mlendvay/hundred-days/internal/notify"
	"github.com/mlendvay/hundred-days/internal/reconcile"
	"github.com/mlendvay/hundred-days/internal/storage"
	"github.com/mlendvay/hundred-days/internal/summary"
	"github.com/mlendvay/hundred-days/internal/timecalc"
)

// Options configures a Challenge.
type Options struct {
	Store      *storage.FileStore
	Metrics    metrics.Provider
	Languages  metrics.LanguageProvider
	Sink       notify.Sink
	Reconciler *reconcile.Reconciler // nil disables sync
	Log        *logrus.Logger
	Now        func() time.Time
}

// Challenge is the tracker core. All operations serialize on a single
// mutex; watch mode fires triggers from several goroutines and the
// documents behind the Challenge hold no locks of their own.
type Challenge struct {
	mu sync.Mutex

	store  *storage.FileStore
	book   *journal.Book
	engine *milestone.Engine
	sum    model.Summary

	metrics metrics.Provider
	langs   metrics.LanguageProvider
	sink    notify.Sink
	rec     *reconcile.Reconciler
	log     *logrus.Logger
	now     func() time.Time
}

// Open loads all three persisted documents and returns a ready Challenge.
func Open(opts Options) (*Challenge, error) {
	if opts.Sink == nil {
		opts.Sink = notify.Discard{}
	}
	if opts.Log == nil {
		opts.Log = logrus.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	book, err := journal.Open(opts.Store.Logs())
	if err != nil {
		return nil, err
	}
	engine, err := milestone.NewEngine(opts.Store.Milestones(), opts.Sink)
	if err != nil {
		return nil, err
	}
	sum, err := opts.Store.Summary().Load()
	if err != nil {
		return nil, err
	}

	return &Challenge{
		store:   opts.Store,
		book:    book,
		engine:  engine,
		sum:     sum,
		metrics: opts.Metrics,
		langs:   opts.Languages,
		sink:    opts.Sink,
		rec:     opts.Reconciler,
		log:     opts.Log,
		now:     opts.Now,
	}, nil
}

// Logs returns the ordered log sequence for display.
func (c *Challenge) Logs() []model.LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.book.Entries()
}

// Summary returns the current aggregate summary for display.
func (c *Challenge) Summary() model.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sum
}

// Milestones returns the catalog with achieved state for display.
func (c *Challenge) Milestones() []model.Milestone {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Catalog()
}

// LogProgress records today's progress: it creates (or merges into)
// today's log entry, refreshes the summary, runs a milestone evaluation,
// and schedules an outbound push.
func (c *Challenge) LogProgress(title, description string, hours float64, keystrokes, lines int, links []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.rolloverIfNeeded(now)

	entry := model.NewLogEntry(now)
	if title != "" {
		entry.Title = title
	}
	entry.Description = description
	entry.Links = links
	entry.Metrics = model.CodeMetrics{Hours: hours, Keystrokes: keystrokes, LinesAdded: lines}

	isNewDay := c.book.FindByCalendarDate(now) == nil
	saved := c.book.Append(entry)
	if err := c.book.Save(); err != nil {
		return err
	}

	c.sum = summary.Recompute(c.sum, c.book.Entries(), now)
	if err := c.saveSummary(); err != nil {
		return err
	}

	if err := c.evaluate(); err != nil {
		c.log.WithError(err).Warn("milestone evaluation failed after log")
	}

	if c.rec != nil {
		if isNewDay {
			c.rec.EnqueueCreate(saved)
		} else {
			c.rec.EnqueueUpdate(saved)
		}
	}
	return nil
}

// EditLog updates an existing day's title, description, links and hours.
// Hours are saturated to the edit bounds, never rejected.
func (c *Challenge) EditLog(dayNumber int, title, description string, links []string, hours float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if err := c.book.Update(dayNumber, title, description, links, hours, now); err != nil {
		return err
	}
	if err := c.book.Save(); err != nil {
		return err
	}
	c.sum = summary.Recompute(c.sum, c.book.Entries(), now)
	if err := c.saveSummary(); err != nil {
		return err
	}
	if c.rec != nil {
		if e := c.book.ByDayNumber(dayNumber); e != nil {
			c.rec.EnqueueUpdate(*e)
		}
	}
	return nil
}

// RunMilestoneEvaluation gathers current metrics and runs every rule
// pass. At most one operation runs at a time; a trigger arriving while
// another is in flight is dropped rather than queued.
func (c *Challenge) RunMilestoneEvaluation() error {
	if !c.mu.TryLock() {
		return nil
	}
	defer c.mu.Unlock()
	return c.evaluate()
}

func (c *Challenge) evaluate() error {
	now := c.now()
	c.rolloverIfNeeded(now)
	c.refreshCurrentDay(now)

	var todayLangs []string
	if c.langs != nil {
		if langs, err := c.langs.ActiveLanguagesToday(); err == nil && len(langs) > 0 {
			todayLangs = langs
			for _, lang := range langs {
				if !c.sum.HasLanguage(lang) {
					summary.SetLanguages(&c.sum, summary.MergeLanguages(c.sum.Languages, langs), now)
					break
				}
			}
		}
	}

	aggHours := c.sum.Hours + c.sum.CurrentHours
	aggLines := c.sum.LinesAdded + c.sum.CurrentLines
	aggKeys := c.sum.Keystrokes + c.sum.CurrentKeystrokes

	var candidates []int
	candidates = append(candidates, milestone.MetricsPass(aggHours, c.sum.CurrentHours, aggLines, aggKeys)...)
	candidates = append(candidates, milestone.LanguagePass(todayLangs, len(c.sum.Languages))...)
	candidates = append(candidates, milestone.DaysPass(c.book.Len(), c.sum.CurrentStreak, c.sum.CurrentHours)...)
	candidates = append(candidates, milestone.SharesPass(c.sum.Shares)...)

	newly, invalid, err := c.engine.Apply(candidates, &c.sum, now)
	if err != nil {
		c.sink.Notify(notify.KindError, "cannot access milestones file")
		return err
	}
	for _, id := range invalid {
		c.log.WithField("id", id).Error("milestone candidate outside catalog")
	}

	if len(newly) > 0 {
		if today := c.book.FindByCalendarDate(now); today != nil {
			for _, id := range newly {
				today.AddMilestone(id)
			}
			if err := c.book.Save(); err != nil {
				return err
			}
		}
	}
	return c.saveSummary()
}

// ShareLog marks a day as shared. The flag is one-way and idempotent: the
// share counter increments exactly once, and only a first-time share can
// fire a shares milestone.
func (c *Challenge) ShareLog(dayNumber int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	newly, err := c.book.MarkShared(dayNumber)
	if err != nil {
		return err
	}
	if !newly {
		return nil
	}
	if err := c.book.Save(); err != nil {
		return err
	}
	summary.IncrementShares(&c.sum, now)

	if _, _, err := c.engine.Apply(milestone.SharesPass(c.sum.Shares), &c.sum, now); err != nil {
		c.log.WithError(err).Warn("shares milestone evaluation failed")
	}
	if err := c.saveSummary(); err != nil {
		return err
	}
	if c.rec != nil {
		if e := c.book.ByDayNumber(dayNumber); e != nil {
			c.rec.EnqueueUpdate(*e)
		}
	}
	return nil
}

// ShareMilestone marks a milestone as shared (one-way, idempotent).
func (c *Challenge) ShareMilestone(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.engine.MarkShared(id)
	return err
}

// Sync runs one reconciliation pass against the remote service. Without
// a configured remote it is a no-op.
func (c *Challenge) Sync(ctx context.Context) (reconcile.Result, error) {
	if c.rec == nil {
		return reconcile.Result{}, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	res, err := c.rec.Sync(ctx, c.book, c.engine, &c.sum, c.now())
	if err != nil {
		return res, err
	}
	if res.MergedDays > 0 || res.MergedMilestones > 0 {
		c.sink.Notify(notify.KindInfo,
			fmt.Sprintf("Merged remote progress: %d days, %d milestones", res.MergedDays, res.MergedMilestones))
	}
	return res, c.saveSummary()
}

// HoursSeries exposes the per-day hours for charting.
func (c *Challenge) HoursSeries() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.book.HoursSeries()
}

// RecentEntries returns up to n most-recent populated days, newest first.
func (c *Challenge) RecentEntries(n int) []model.LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.book.LastPopulated(n)
}

// DateRange returns the first and last logged dates.
func (c *Challenge) DateRange() (first, last time.Time, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.book.DateRange()
}

// rolloverIfNeeded folds the stale in-progress day into the totals when a
// new calendar day has begun.
func (c *Challenge) rolloverIfNeeded(now time.Time) {
	mr := c.book.MostRecent()
	staleEntry := mr != nil && !timecalc.SameDay(mr.Date, now)
	if summary.NeedsRollover(c.sum, now) && staleEntry {
		if mr.IsPlaceholder() {
			// An empty trailing day never completes: reset the shadow
			// fields without advancing the day count or streak.
			summary.SetCurrent(&c.sum, model.CodeMetrics{}, now)
		} else {
			c.sum = summary.Rollover(c.sum, now)
		}
		if err := c.saveSummary(); err != nil {
			c.log.WithError(err).Warn("cannot persist rollover")
		}
	}
}

// refreshCurrentDay folds the tracker snapshot into today's shadow
// metrics. The snapshot and today's logged entry race benignly; the
// field-wise maximum wins.
func (c *Challenge) refreshCurrentDay(now time.Time) {
	current := model.CodeMetrics{
		Hours:      c.sum.CurrentHours,
		Keystrokes: c.sum.CurrentKeystrokes,
		LinesAdded: c.sum.CurrentLines,
	}
	if c.metrics != nil {
		if snap, err := c.metrics.Snapshot(); err == nil {
			current = current.Max(model.CodeMetrics{
				Hours:      timecalc.MinutesToHours(snap.Minutes),
				Keystrokes: snap.Keystrokes,
				LinesAdded: snap.LinesAdded,
			})
		}
	}
	if today := c.book.FindByCalendarDate(now); today != nil {
		current = current.Max(today.Metrics)
	}
	summary.SetCurrent(&c.sum, current, now)
}

func (c *Challenge) saveSummary() error {
	return c.store.Summary().Save(c.sum)
}
