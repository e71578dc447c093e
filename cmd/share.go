package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var shareMilestoneID int

var shareCmd = &cobra.Command{
	Use:   "share <day>",
	Short: "Mark a day (or a milestone) as shared",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShare,
}

func init() {
	shareCmd.Flags().IntVar(&shareMilestoneID, "milestone", 0, "Share a milestone by id instead of a day")
}

func runShare(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	ch, _, err := openChallenge(ctx, newLogger())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if shareMilestoneID > 0 {
		if err := ch.ShareMilestone(shareMilestoneID); err != nil {
			return err
		}
		fmt.Printf("Shared milestone %d\n", shareMilestoneID)
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("a day number or --milestone is required")
	}
	day, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid day number %q", args[0])
	}
	if err := ch.ShareLog(day); err != nil {
		return err
	}
	fmt.Printf("Shared day %d\n", day)
	return nil
}
