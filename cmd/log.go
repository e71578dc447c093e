package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	logDescription string
	logHours       float64
	logKeystrokes  int
	logLines       int
	logLinks       string
)

var logCmd = &cobra.Command{
	Use:   "log <title>",
	Short: "Record today's progress",
	Args:  cobra.ExactArgs(1),
	RunE:  runLog,
}

func init() {
	logCmd.Flags().StringVar(&logDescription, "description", "", "What you worked on")
	logCmd.Flags().Float64Var(&logHours, "hours", 0, "Hours coded today")
	logCmd.Flags().IntVar(&logKeystrokes, "keystrokes", 0, "Keystrokes typed today")
	logCmd.Flags().IntVar(&logLines, "lines", 0, "Lines of code added today")
	logCmd.Flags().StringVar(&logLinks, "links", "", "Comma-separated reference links")
}

func runLog(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	log := newLogger()

	ch, _, err := openChallenge(ctx, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	links := []string{}
	if logLinks != "" {
		for _, l := range strings.Split(logLinks, ",") {
			links = append(links, strings.TrimSpace(l))
		}
	}

	if err := ch.LogProgress(args[0], logDescription, logHours, logKeystrokes, logLines, links); err != nil {
		return err
	}

	entry := ch.Logs()[len(ch.Logs())-1]
	fmt.Printf("Logged day %d: %s\n", entry.DayNumber, entry.Title)
	return nil
}
