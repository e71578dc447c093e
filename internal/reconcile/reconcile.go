// Package reconcile merges local challenge state with the remote service.
// Local-first data must survive merging with authoritative but sometimes
// stale server data, so the merge never drops anything: metrics take the
// field-wise maximum, sets take the union, and conflicting free text is
// concatenated with a marker. Downstream aggregates are re-derived after
// every structural merge.
package reconcile

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mlendvay/hundred-days/internal/journal"
	"github.com/mlendvay/hundred-days/internal/milestone"
	"github.com/mlendvay/hundred-days/internal/model"
	"github.com/mlendvay/hundred-days/internal/remote"
	"github.com/mlendvay/hundred-days/internal/summary"
	"github.com/mlendvay/hundred-days/internal/timecalc"
)

// Result holds counters for one sync run.
type Result struct {
	MergedDays       int
	PushedCreates    int
	PushedUpdates    int
	MergedMilestones int
	SummaryPushed    bool
}

// Reconciler merges logs, milestones and the summary with the remote
// store. A single instance is constructed at process start; its in-flight
// guard ensures at most one sync runs at a time (a trigger arriving
// mid-sync is dropped, not queued).
type Reconciler struct {
	store remote.Store
	log   *logrus.Logger

	syncing atomic.Bool

	// Outbound queues for edits that failed to push. Creates are always
	// flushed before updates so an update never races its create.
	qmu      sync.Mutex
	toCreate []remote.Log
	toUpdate []remote.Log
}

// New returns a reconciler bound to the remote store.
func New(store remote.Store, log *logrus.Logger) *Reconciler {
	if log == nil {
		log = logrus.New()
	}
	return &Reconciler{store: store, log: log}
}

// EnqueueCreate buffers entries to be created server-side.
func (r *Reconciler) EnqueueCreate(entries ...model.LogEntry) {
	r.qmu.Lock()
	defer r.qmu.Unlock()
	for _, e := range entries {
		r.toCreate = append(r.toCreate, remote.FromEntry(e))
	}
}

// EnqueueUpdate buffers entries to be updated server-side.
func (r *Reconciler) EnqueueUpdate(entries ...model.LogEntry) {
	r.qmu.Lock()
	defer r.qmu.Unlock()
	for _, e := range entries {
		r.toUpdate = append(r.toUpdate, remote.FromEntry(e))
	}
}

// Pending reports whether outbound pushes are waiting.
func (r *Reconciler) Pending() bool {
	r.qmu.Lock()
	defer r.qmu.Unlock()
	return len(r.toCreate) > 0 || len(r.toUpdate) > 0
}

// Sync runs one full reconciliation pass: flush queued pushes, pull and
// merge logs, pull and merge milestones, push the summary. Remote
// unavailability is non-fatal at every step; whatever merged locally is
// kept and the rest retries on the next trigger.
func (r *Reconciler) Sync(ctx context.Context, book *journal.Book, engine *milestone.Engine, sum *model.Summary, now time.Time) (Result, error) {
	var res Result
	if !r.syncing.CompareAndSwap(false, true) {
		return res, nil
	}
	defer r.syncing.Store(false)

	r.flushQueues(ctx, &res)

	if err := r.pullAndMergeLogs(ctx, book, engine, sum, now, &res); err != nil {
		r.log.WithError(err).Warn("log sync unavailable, keeping local state")
	}
	if err := r.pullAndMergeMilestones(ctx, book, engine, sum, now, &res); err != nil {
		r.log.WithError(err).Warn("milestone sync unavailable, keeping local state")
	}
	if err := r.pushSummary(ctx, sum, now); err != nil {
		r.log.WithError(err).Warn("summary push unavailable")
	} else {
		res.SummaryPushed = true
	}

	r.log.WithFields(logrus.Fields{
		"merged_days":       res.MergedDays,
		"pushed_creates":    res.PushedCreates,
		"pushed_updates":    res.PushedUpdates,
		"merged_milestones": res.MergedMilestones,
	}).Info("sync complete")
	return res, nil
}

// flushQueues opportunistically drains the outbound buffers, creates
// strictly before updates.
func (r *Reconciler) flushQueues(ctx context.Context, res *Result) {
	r.qmu.Lock()
	defer r.qmu.Unlock()
	if len(r.toCreate) > 0 {
		if err := r.store.CreateLogs(ctx, r.toCreate); err != nil {
			r.log.WithError(err).Debug("queued creates not flushed")
			return
		}
		res.PushedCreates += len(r.toCreate)
		r.toCreate = nil
	}
	if len(r.toUpdate) > 0 {
		if err := r.store.UpdateLogs(ctx, r.toUpdate); err != nil {
			r.log.WithError(err).Debug("queued updates not flushed")
			return
		}
		res.PushedUpdates += len(r.toUpdate)
		r.toUpdate = nil
	}
}

// pullAndMergeLogs reconciles the local log sequence with the server's.
func (r *Reconciler) pullAndMergeLogs(ctx context.Context, book *journal.Book, engine *milestone.Engine, sum *model.Summary, now time.Time, res *Result) error {
	serverLogs, err := r.store.GetLogs(ctx)
	if err != nil {
		return err
	}

	serverEntries := make([]model.LogEntry, 0, len(serverLogs))
	for _, l := range serverLogs {
		serverEntries = append(serverEntries, remote.ToEntry(l))
	}

	local := book.Entries()
	var merged []model.LogEntry
	if len(local) > len(serverEntries) {
		// Local has unsynced extra days: merge the union by calendar date.
		merged = mergeByDate(local, serverEntries)
	} else {
		merged = mergeByIndex(local, serverEntries, engine)
	}

	changed := !sequencesEqual(local, merged)
	if changed {
		book.Replace(merged)
		if err := book.Save(); err != nil {
			return err
		}
		*sum = summary.Recompute(*sum, book.Entries(), now)
		res.MergedDays = len(merged)
	}

	// Push back whatever the merge produced that the server does not
	// have, or has in an older form.
	creates, updates := diffAgainstServer(book.Entries(), serverEntries)
	if len(creates) > 0 {
		if err := r.store.CreateLogs(ctx, toWire(creates)); err != nil {
			r.EnqueueCreate(creates...)
			return err
		}
		res.PushedCreates += len(creates)
	}
	if len(updates) > 0 {
		if err := r.store.UpdateLogs(ctx, toWire(updates)); err != nil {
			r.EnqueueUpdate(updates...)
			return err
		}
		res.PushedUpdates += len(updates)
	}
	return nil
}

// mergeByDate concatenates both sequences, sorts by date, merges adjacent
// entries sharing a calendar day, and renumbers densely. Nothing is
// dropped.
func mergeByDate(local, server []model.LogEntry) []model.LogEntry {
	all := make([]model.LogEntry, 0, len(local)+len(server))
	all = append(all, local...)
	all = append(all, server...)
	all = journal.Renumber(all)

	var out []model.LogEntry
	for _, e := range all {
		if len(out) > 0 && timecalc.SameDay(out[len(out)-1].Date, e.Date) {
			out[len(out)-1] = journal.Merge(out[len(out)-1], e)
			continue
		}
		out = append(out, e)
	}
	return journal.Renumber(out)
}

// mergeByIndex applies the server-has-same-or-more policy: per index the
// server's text fields win when they differ, metrics never regress below
// the local value, and extra server-only trailing entries are appended
// with their milestone attribution looked up by date.
func mergeByIndex(local, server []model.LogEntry, engine *milestone.Engine) []model.LogEntry {
	out := make([]model.LogEntry, 0, len(server))
	for i := range local {
		e := local[i]
		s := server[i]
		if s.Title != model.NoTitle && s.Title != "" {
			e.Title = s.Title
		}
		if s.Description != model.NoDescription {
			e.Description = s.Description
		}
		if len(s.Links) > 0 {
			e.Links = append([]string{}, s.Links...)
		}
		e.Metrics = e.Metrics.Max(s.Metrics)
		out = append(out, e)
	}
	for i := len(local); i < len(server); i++ {
		e := server[i]
		if engine != nil {
			for _, id := range engine.AchievedOn(e.Date) {
				e.AddMilestone(id)
			}
		}
		out = append(out, e)
	}
	return journal.Renumber(out)
}

// diffAgainstServer splits merged entries into those the server has never
// seen (by calendar date) and those whose content differs from the
// server's version. Placeholder days the server has never seen stay
// local; there is nothing worth creating for them.
func diffAgainstServer(merged, server []model.LogEntry) (creates, updates []model.LogEntry) {
	for _, e := range merged {
		var match *model.LogEntry
		for i := range server {
			if timecalc.SameDay(server[i].Date, e.Date) {
				match = &server[i]
				break
			}
		}
		if match == nil {
			if !e.IsPlaceholder() {
				creates = append(creates, e)
			}
			continue
		}
		if !entriesEqual(e, *match) {
			updates = append(updates, e)
		}
	}
	return creates, updates
}

// pullAndMergeMilestones reconciles server-reported achievements with the
// local catalog and refreshes per-day attribution for any id whose date
// moved.
func (r *Reconciler) pullAndMergeMilestones(ctx context.Context, book *journal.Book, engine *milestone.Engine, sum *model.Summary, now time.Time, res *Result) error {
	batches, err := r.store.GetMilestones(ctx)
	if err != nil {
		return err
	}

	var changedIDs []int
	for _, batch := range batches {
		date := remote.BatchDate(batch)
		for _, id := range batch.Milestones {
			changed, err := engine.MergeServerAchievement(id, date)
			if err != nil {
				r.log.WithField("id", id).Warn("server reported unknown milestone id")
				continue
			}
			if changed {
				changedIDs = append(changedIDs, id)
			}
		}
	}

	if len(changedIDs) > 0 {
		if err := engine.Save(); err != nil {
			return err
		}
		reattributeMilestones(book, engine, changedIDs)
		if err := book.Save(); err != nil {
			return err
		}
		sum.Milestones = engine.AchievedCount()
		sum.LastUpdated = now
		res.MergedMilestones = len(changedIDs)
	}

	return r.pushMilestones(ctx, book, batches)
}

// reattributeMilestones moves each changed id to the log entry matching
// its (possibly new) achievement date.
func reattributeMilestones(book *journal.Book, engine *milestone.Engine, ids []int) {
	for _, id := range ids {
		m, err := engine.Get(id)
		if err != nil {
			continue
		}
		entries := book.Entries()
		for i := range entries {
			if !timecalc.SameDay(entries[i].Date, m.DateAchieved) {
				entries[i].RemoveMilestone(id)
			}
		}
		if target := book.FindByCalendarDate(m.DateAchieved); target != nil {
			target.AddMilestone(id)
		}
	}
}

// pushMilestones sends local per-day attribution the server lacks.
// Create vs update is decided by whether the server already reported a
// batch for that calendar day.
func (r *Reconciler) pushMilestones(ctx context.Context, book *journal.Book, serverBatches []remote.MilestoneBatch) error {
	var creates, updates []remote.MilestoneBatch
	for _, e := range book.Entries() {
		if len(e.Milestones) == 0 {
			continue
		}
		_, offset := e.Date.Zone()
		local := remote.MilestoneBatch{
			DayNumber:     e.DayNumber,
			UnixDate:      e.Date.Unix(),
			LocalDate:     e.Date.Unix() + int64(offset),
			OffsetMinutes: offset / 60,
			Milestones:    append([]int{}, e.Milestones...),
		}

		var match *remote.MilestoneBatch
		for i := range serverBatches {
			if timecalc.SameDay(remote.BatchDate(serverBatches[i]), e.Date) {
				match = &serverBatches[i]
				break
			}
		}
		switch {
		case match == nil:
			creates = append(creates, local)
		case !sameIDSet(match.Milestones, local.Milestones):
			updates = append(updates, local)
		}
	}

	if len(creates) > 0 {
		if err := r.store.CreateMilestones(ctx, creates); err != nil {
			return err
		}
	}
	if len(updates) > 0 {
		if err := r.store.UpdateMilestones(ctx, updates); err != nil {
			return err
		}
	}
	return nil
}

// pushSummary is fetch-then-decide: an existing server summary gets an
// update, a missing one gets a create. Server-known languages and shares
// are folded in first so another device's progress is never regressed.
func (r *Reconciler) pushSummary(ctx context.Context, sum *model.Summary, now time.Time) error {
	serverSum, err := r.store.GetSummary(ctx)
	if err != nil {
		return err
	}
	if serverSum == nil {
		return r.store.CreateSummary(ctx, remote.FromSummary(*sum))
	}

	summary.SetLanguages(sum, summary.MergeLanguages(sum.Languages, serverSum.Languages), now)
	if serverSum.Shares > sum.Shares {
		sum.Shares = serverSum.Shares
	}
	if serverSum.LongestStreak > sum.LongestStreak {
		sum.LongestStreak = serverSum.LongestStreak
	}
	return r.store.UpdateSummary(ctx, remote.FromSummary(*sum))
}

func toWire(entries []model.LogEntry) []remote.Log {
	out := make([]remote.Log, 0, len(entries))
	for _, e := range entries {
		out = append(out, remote.FromEntry(e))
	}
	return out
}

func entriesEqual(a, b model.LogEntry) bool {
	if a.Title != b.Title || a.Description != b.Description {
		return false
	}
	if a.Metrics != b.Metrics {
		return false
	}
	if len(a.Links) != len(b.Links) {
		return false
	}
	for i := range a.Links {
		if a.Links[i] != b.Links[i] {
			return false
		}
	}
	return true
}

func sequencesEqual(a, b []model.LogEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].DayNumber != b[i].DayNumber || !entriesEqual(a[i], b[i]) {
			return false
		}
		if !timecalc.SameDay(a[i].Date, b[i].Date) {
			return false
		}
	}
	return true
}

func sameIDSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	set := map[int]bool{}
	for _, v := range a {
		set[v] = true
	}
	for _, v := range b {
		if !set[v] {
			return false
		}
	}
	return true
}
