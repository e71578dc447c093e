package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlendvay/hundred-days/internal/model"
	"github.com/mlendvay/hundred-days/internal/timecalc"
)

var logsFormat string

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the log history",
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().StringVar(&logsFormat, "format", "md", "Output format: md, csv, json")
}

func runLogs(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	ch, _, err := openChallenge(ctx, newLogger())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	return renderLogs(os.Stdout, ch.Logs(), logsFormat)
}

func renderLogs(w io.Writer, entries []model.LogEntry, format string) error {
	switch format {
	case "csv":
		fmt.Fprintln(w, "day,date,title,hours,keystrokes,lines_added,shared")
		for _, e := range entries {
			fmt.Fprintf(w, "%d,%s,%q,%.2f,%d,%d,%t\n",
				e.DayNumber, e.Date.Format("2006-01-02"), e.Title,
				e.Metrics.Hours, e.Metrics.Keystrokes, e.Metrics.LinesAdded, e.Shared)
		}
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	default: // md
		for _, e := range entries {
			shared := ""
			if e.Shared {
				shared = " (shared)"
			}
			fmt.Fprintf(w, "Day %3d  %s  %-30s %8s%s\n",
				e.DayNumber, e.Date.Format("2006-01-02"), e.Title,
				timecalc.FormatHours(e.Metrics.Hours), shared)
			if len(e.Links) > 0 {
				fmt.Fprintf(w, "         links: %s\n", strings.Join(e.Links, ", "))
			}
		}
		if len(entries) == 0 {
			fmt.Fprintln(w, "No days logged yet. Start with: hdays log \"Day 1\"")
		}
	}
	return nil
}
