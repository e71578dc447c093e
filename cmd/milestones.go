package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	milestonesCategory string

	achievedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("85"))
	unachievedStyle = lipgloss.NewStyle().Faint(true)
)

var milestonesCmd = &cobra.Command{
	Use:   "milestones",
	Short: "Show the milestone catalog with achieved state",
	Args:  cobra.NoArgs,
	RunE:  runMilestones,
}

func init() {
	milestonesCmd.Flags().StringVar(&milestonesCategory, "category", "", "Only show one category (hours, days, streaks, lines, shares, keystrokes, languages)")
}

func runMilestones(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	ch, _, err := openChallenge(ctx, newLogger())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Refresh achieved state before displaying, like opening the
	// milestones view does.
	if err := ch.RunMilestoneEvaluation(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	achieved := 0
	for _, m := range ch.Milestones() {
		if milestonesCategory != "" && m.Category != milestonesCategory {
			continue
		}
		if m.Achieved {
			achieved++
			fmt.Printf("%s  %s\n",
				achievedStyle.Render(fmt.Sprintf("✔ %2d %-26s", m.ID, m.Title)),
				m.DateAchieved.Format("2006-01-02"))
		} else {
			fmt.Println(unachievedStyle.Render(fmt.Sprintf("· %2d %-26s %s", m.ID, m.Title, m.Description)))
		}
	}
	fmt.Printf("\n%d achieved\n", achieved)
	return nil
}
