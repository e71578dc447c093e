package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlendvay/hundred-days/internal/timecalc"
	"github.com/mlendvay/hundred-days/internal/trigger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the background evaluator: watch workspaces, evaluate milestones, sync",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	log := newLogger()

	ch, cfg, err := openChallenge(ctx, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// All trigger sources funnel into one channel drained by a single
	// goroutine, so evaluation and sync never run concurrently. The
	// channel holds one pending event; further triggers while one is
	// pending are dropped, not queued.
	triggers := make(chan trigger.Event, 1)
	emit := func(ev trigger.Event) {
		select {
		case triggers <- ev:
		default:
		}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case ev := <-triggers:
				log.WithField("event", string(ev)).Debug("evaluation trigger")
				if err := ch.RunMilestoneEvaluation(); err != nil {
					log.WithError(err).Warn("milestone evaluation failed")
				}
				if ev == trigger.TimerTick {
					if _, err := ch.Sync(ctx); err != nil {
						log.WithError(err).Warn("sync failed")
					}
				}
			case <-done:
				return
			}
		}
	}()

	var watcher *trigger.Watcher
	if len(cfg.Watch.Paths) > 0 {
		watcher, err = trigger.NewWatcher(cfg.Watch.Paths,
			time.Duration(cfg.Watch.DebounceMillis)*time.Millisecond, emit, log)
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer watcher.Close()
		log.WithField("paths", cfg.Watch.Paths).Info("watching workspaces")
	}

	stop, err := trigger.Schedule(cfg.Watch.Schedule, emit)
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", cfg.Watch.Schedule, err)
	}
	defer stop()

	// Tick right after each day boundary so the rollover does not wait
	// for the next scheduled run.
	go func() {
		for {
			select {
			case <-time.After(time.Until(timecalc.Midnight(time.Now()).Add(time.Minute))):
				emit(trigger.TimerTick)
			case <-done:
				return
			}
		}
	}()

	// Evaluate once on startup so a fresh day rolls over promptly.
	emit(trigger.TimerTick)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")
	return nil
}
