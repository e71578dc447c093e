// Package milestone implements the achievement rule engine: tiered
// threshold ladders over coding metrics, language milestones, and the
// daily/permanent stamping semantics.
package milestone

import (
	"fmt"
	"strings"
	"time"

	"github.com/mlendvay/hundred-days/internal/model"
	"github.com/mlendvay/hundred-days/internal/notify"
	"github.com/mlendvay/hundred-days/internal/storage"
	"github.com/mlendvay/hundred-days/internal/timecalc"
)

// Engine owns the milestone catalog and applies achievement candidates
// to it. Catalog data is immutable; only the achieved state mutates, and
// only through the engine.
type Engine struct {
	repo    storage.MilestoneRepo
	catalog []model.Milestone
	sink    notify.Sink
}

// NewEngine loads the catalog (seeding it from the template when the
// document is missing) and binds the notification sink.
func NewEngine(repo storage.MilestoneRepo, sink notify.Sink) (*Engine, error) {
	catalog, err := repo.Load()
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = notify.Discard{}
	}
	return &Engine{repo: repo, catalog: catalog, sink: sink}, nil
}

// Catalog returns the catalog with its achieved state. Callers must not
// mutate it.
func (e *Engine) Catalog() []model.Milestone {
	return e.catalog
}

// Get returns a copy of the milestone with the given id.
func (e *Engine) Get(id int) (model.Milestone, error) {
	m, err := model.CatalogByID(e.catalog, id)
	if err != nil {
		return model.Milestone{}, err
	}
	return *m, nil
}

// AchievedCount returns the number of achieved milestones.
func (e *Engine) AchievedCount() int {
	n := 0
	for _, m := range e.catalog {
		if m.Achieved {
			n++
		}
	}
	return n
}

// AchievedOn returns the ids whose achievement date falls on the same
// calendar day as t.
func (e *Engine) AchievedOn(t time.Time) []int {
	var ids []int
	for _, m := range e.catalog {
		if m.Achieved && timecalc.SameDay(m.DateAchieved, t) {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// Apply stamps each candidate id that newly qualifies. Daily milestones
// re-stamp on every new calendar day but at most once per day; permanent
// milestones stamp only on their first crossing and their achievement
// date is thereafter immutable. Invalid ids are reported, not fatal.
//
// When anything was stamped the catalog is persisted, the summary's
// milestone count and recent-milestones buffer are updated, and one
// combined notification is emitted for the whole batch. Completing the
// 100-day milestone additionally unlocks the certificate.
func (e *Engine) Apply(candidates []int, sum *model.Summary, now time.Time) (newly []int, invalid []int, err error) {
	for _, id := range candidates {
		m, cerr := model.CatalogByID(e.catalog, id)
		if cerr != nil {
			invalid = append(invalid, id)
			continue
		}
		if e.stamp(m, now) {
			newly = append(newly, id)
		}
	}
	if len(newly) == 0 {
		return newly, invalid, nil
	}

	if err := e.repo.Save(e.catalog); err != nil {
		return newly, invalid, fmt.Errorf("saving milestones: %w", err)
	}
	if sum != nil {
		sum.Milestones = e.AchievedCount()
		sum.PushRecentMilestones(newly)
		sum.LastUpdated = now
	}

	e.sink.Notify(notify.KindMilestone, batchMessage(e.catalog, newly), "View milestones")
	for _, id := range newly {
		if id == model.CertificateMilestoneID {
			e.sink.Notify(notify.KindCertificate,
				"You completed the 100 Days of Code challenge! Your certificate is unlocked.",
				"View certificate")
		}
	}
	return newly, invalid, nil
}

// stamp applies the daily/permanent state machine to one milestone and
// reports whether it was newly stamped.
func (e *Engine) stamp(m *model.Milestone, now time.Time) bool {
	if model.IsDailyMilestone(m.ID) {
		// Re-stamp each new calendar day, at most once per day.
		if m.Achieved && timecalc.SameDay(m.DateAchieved, now) {
			return false
		}
		m.Achieved = true
		m.DateAchieved = now
		return true
	}
	// Permanent: first crossing wins, forever.
	if m.Achieved || !m.DateAchieved.IsZero() {
		return false
	}
	m.Achieved = true
	m.DateAchieved = now
	return true
}

// MergeServerAchievement reconciles one server-reported achievement with
// local state. A locally unachieved milestone is stamped with the server
// date. When both sides have dates, daily milestones take the later date
// and permanent milestones keep the earlier one. It reports whether the
// local date changed.
func (e *Engine) MergeServerAchievement(id int, date time.Time) (bool, error) {
	m, err := model.CatalogByID(e.catalog, id)
	if err != nil {
		return false, err
	}
	if !m.Achieved || m.DateAchieved.IsZero() {
		m.Achieved = true
		m.DateAchieved = date
		return true, nil
	}
	if timecalc.SameDay(m.DateAchieved, date) {
		return false, nil
	}
	if model.IsDailyMilestone(id) {
		if date.After(m.DateAchieved) {
			m.DateAchieved = date
			return true, nil
		}
		return false, nil
	}
	if date.Before(m.DateAchieved) {
		m.DateAchieved = date
		return true, nil
	}
	return false, nil
}

// MarkShared flips the one-way shared flag on a milestone and persists
// the catalog. It reports whether the flag was newly set.
func (e *Engine) MarkShared(id int) (bool, error) {
	m, err := model.CatalogByID(e.catalog, id)
	if err != nil {
		return false, err
	}
	if m.Shared {
		return false, nil
	}
	m.Shared = true
	return true, e.repo.Save(e.catalog)
}

// Save persists the catalog. Used after reconciliation mutates it.
func (e *Engine) Save() error {
	return e.repo.Save(e.catalog)
}

func batchMessage(catalog []model.Milestone, ids []int) string {
	titles := make([]string, 0, len(ids))
	for _, id := range ids {
		if m, err := model.CatalogByID(catalog, id); err == nil {
			titles = append(titles, m.Title)
		}
	}
	if len(titles) == 1 {
		return fmt.Sprintf("Milestone achieved: %s", titles[0])
	}
	return fmt.Sprintf("%d milestones achieved: %s", len(titles), strings.Join(titles, ", "))
}
