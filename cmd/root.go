package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mlendvay/hundred-days/internal/challenge"
	"github.com/mlendvay/hundred-days/internal/config"
	"github.com/mlendvay/hundred-days/internal/metrics"
	"github.com/mlendvay/hundred-days/internal/notify"
	"github.com/mlendvay/hundred-days/internal/reconcile"
	"github.com/mlendvay/hundred-days/internal/remote"
	"github.com/mlendvay/hundred-days/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "hdays",
	Short: "hdays – a 100 days of code challenge tracker",
	Long: `hdays tracks your daily coding activity over a 100-day challenge.
All data is stored as human-readable JSON files in ~/.hdays/ and can be
reconciled with a remote challenge service.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(milestonesCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(watchCmd)
}

// newLogger returns the logger used by the background paths.
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}

// openChallenge wires the tracker core from config and the data dir.
func openChallenge(ctx context.Context, log *logrus.Logger) (*challenge.Challenge, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}
	base, err := storage.BaseDir()
	if err != nil {
		return nil, cfg, err
	}

	var rec *reconcile.Reconciler
	if cfg.Remote.BaseURL != "" {
		client := remote.NewClient(ctx, cfg.Remote.BaseURL, cfg.Remote.Token)
		rec = reconcile.New(client, log)
	}

	provider := metrics.NewFileProvider(base)
	ch, err := challenge.Open(challenge.Options{
		Store:      storage.NewFileStore(base),
		Metrics:    provider,
		Languages:  provider,
		Sink:       notify.Terminal{},
		Reconciler: rec,
		Log:        log,
	})
	return ch, cfg, err
}
