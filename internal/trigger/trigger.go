// Package trigger turns external signals (workspace file changes, timer
// ticks) into coalesced evaluation triggers. Rapid-fire signals are
// debounced so evaluation runs once after a quiet period, not once per
// event.
package trigger

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Event names the signal that caused a trigger.
type Event string

const (
	DocumentChanged Event = "document-changed"
	TimerTick       Event = "timer-tick"
	LogSubmitted    Event = "log-submitted"
)

// Debouncer coalesces bursts of triggers: each Trigger resets the delay
// timer, and fn runs once after the burst goes quiet. Stop cancels any
// pending run.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer returns a debouncer invoking fn after delay of quiet.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger schedules fn, resetting the quiet-period timer.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Watcher emits debounced document-changed triggers for a set of
// workspace paths.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce *Debouncer
	log      *logrus.Logger
	done     chan struct{}
}

// NewWatcher watches the given paths and calls fn (debounced by delay)
// whenever files under them change.
func NewWatcher(paths []string, delay time.Duration, fn func(Event), log *logrus.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: NewDebouncer(delay, func() { fn(DocumentChanged) }),
		log:      log,
		done:     make(chan struct{}),
	}
	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			log.WithError(err).WithField("path", p).Warn("cannot watch path")
		}
	}

	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.debounce.Trigger()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Debug("watcher error")
		case <-w.done:
			return
		}
	}
}

// Close tears the watcher down and cancels any pending trigger.
func (w *Watcher) Close() error {
	close(w.done)
	w.debounce.Stop()
	return w.fsw.Close()
}

// Schedule runs fn on a recurring cron schedule, emitting timer ticks.
// The returned stop function clears the schedule on teardown.
func Schedule(spec string, fn func(Event)) (stop func(), err error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { fn(TimerTick) }); err != nil {
		return nil, err
	}
	c.Start()
	return func() { c.Stop() }, nil
}
