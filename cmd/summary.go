package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mlendvay/hundred-days/internal/timecalc"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	summaryLabelStyle = lipgloss.NewStyle().Faint(true).Width(18)
	summaryBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the challenge dashboard",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	ch, _, err := openChallenge(ctx, newLogger())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	s := ch.Summary()
	row := func(label, value string) string {
		return summaryLabelStyle.Render(label) + value
	}

	lines := []string{
		summaryTitleStyle.Render("100 Days of Code"),
		"",
		row("Days", fmt.Sprintf("%d", s.Days)),
		row("Hours", fmt.Sprintf("%.2f", s.Hours)),
		row("Keystrokes", fmt.Sprintf("%d", s.Keystrokes)),
		row("Lines added", fmt.Sprintf("%d", s.LinesAdded)),
		row("Current streak", fmt.Sprintf("%d", s.CurrentStreak)),
		row("Longest streak", fmt.Sprintf("%d", s.LongestStreak)),
		row("Milestones", fmt.Sprintf("%d", s.Milestones)),
		row("Shares", fmt.Sprintf("%d", s.Shares)),
		row("Avg hours/day", fmt.Sprintf("%.2f", s.AverageHours())),
		"",
		row("Today", timecalc.FormatHours(s.CurrentHours)+
			fmt.Sprintf("  (%d keystrokes, %d lines, %.0f%% of average)",
				s.CurrentKeystrokes, s.CurrentLines, s.PercentOfAverage())),
	}
	if len(s.Languages) > 0 {
		lines = append(lines, row("Languages", strings.Join(s.Languages, ", ")))
	}
	if first, last, ok := ch.DateRange(); ok {
		lines = append(lines, row("Logged",
			first.Format("2006-01-02")+" to "+last.Format("2006-01-02")))
		lines = append(lines, row("Hours/day", sparkline(ch.HoursSeries(), 14)))
	}
	if recent := ch.RecentEntries(3); len(recent) > 0 {
		lines = append(lines, "")
		for _, e := range recent {
			lines = append(lines, row(fmt.Sprintf("Day %d", e.DayNumber), e.Title))
		}
	}

	fmt.Println(summaryBoxStyle.Render(strings.Join(lines, "\n")))
	return nil
}

var sparkChars = []rune("▁▂▃▄▅▆▇█")

// sparkline renders the last n values as a unicode bar chart scaled to
// the series maximum.
func sparkline(series []float64, n int) string {
	if len(series) > n {
		series = series[len(series)-n:]
	}
	max := 0.0
	for _, v := range series {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return strings.Repeat(string(sparkChars[0]), len(series))
	}
	out := make([]rune, 0, len(series))
	for _, v := range series {
		i := int(v / max * float64(len(sparkChars)-1))
		out = append(out, sparkChars[i])
	}
	return string(out)
}
