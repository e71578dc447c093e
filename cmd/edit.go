package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	editTitle       string
	editDescription string
	editHours       float64
	editLinks       string
)

var editCmd = &cobra.Command{
	Use:   "edit <day>",
	Short: "Edit an existing day's log entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editDescription, "description", "", "New description")
	editCmd.Flags().Float64Var(&editHours, "hours", 0, "Hours (clamped to 0-12)")
	editCmd.Flags().StringVar(&editLinks, "links", "", "Comma-separated reference links")
}

func runEdit(cmd *cobra.Command, args []string) error {
	day, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid day number %q", args[0])
	}

	ctx := context.Background()
	log := newLogger()
	ch, _, err := openChallenge(ctx, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	existing := ch.Logs()
	if day < 1 || day > len(existing) {
		return fmt.Errorf("no log entry for day %d", day)
	}
	cur := existing[day-1]

	title := cur.Title
	if cmd.Flags().Changed("title") {
		title = editTitle
	}
	description := cur.Description
	if cmd.Flags().Changed("description") {
		description = editDescription
	}
	hours := cur.Metrics.Hours
	if cmd.Flags().Changed("hours") {
		hours = editHours
	}
	links := cur.Links
	if cmd.Flags().Changed("links") {
		links = []string{}
		for _, l := range strings.Split(editLinks, ",") {
			links = append(links, strings.TrimSpace(l))
		}
	}

	if err := ch.EditLog(day, title, description, links, hours); err != nil {
		return err
	}
	fmt.Printf("Updated day %d\n", day)
	return nil
}
