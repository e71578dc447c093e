package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile local state with the challenge service",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	log := newLogger()

	ch, cfg, err := openChallenge(ctx, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.Remote.BaseURL == "" {
		return fmt.Errorf("no remote configured; set remote.base_url in ~/.hdays/config.json or HDAYS_REMOTE_URL")
	}

	res, err := ch.Sync(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Sync complete: %d days merged, %d created, %d updated, %d milestones merged\n",
		res.MergedDays, res.PushedCreates, res.PushedUpdates, res.MergedMilestones)
	return nil
}
