// Package notify defines the notification boundary. The core emits
// milestone and certificate notifications through a Sink; rendering is
// the sink's business.
package notify

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Kind classifies a notification.
type Kind string

const (
	KindMilestone   Kind = "milestone"
	KindCertificate Kind = "certificate"
	KindInfo        Kind = "info"
	KindError       Kind = "error"
)

// Sink receives user-facing notifications. Notify returns the action the
// user selected, or "" when none was offered or chosen.
type Sink interface {
	Notify(kind Kind, message string, actions ...string) string
}

var (
	milestoneStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))
	certificateStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("85")).
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1)
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))
)

// Terminal prints notifications to stdout.
type Terminal struct{}

// Notify renders the notification. No interactive action selection is
// offered on a plain terminal, so the selected action is always "".
func (Terminal) Notify(kind Kind, message string, actions ...string) string {
	switch kind {
	case KindMilestone:
		fmt.Println(milestoneStyle.Render("🏆 " + message))
	case KindCertificate:
		fmt.Println(certificateStyle.Render("🎓 " + message))
	case KindError:
		fmt.Println(errorStyle.Render(message))
	default:
		fmt.Println(message)
	}
	return ""
}

// Discard swallows all notifications. Used in tests and quiet mode.
type Discard struct{}

func (Discard) Notify(Kind, string, ...string) string { return "" }

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	Notifications []Notification
}

// Notification is one captured notify call.
type Notification struct {
	Kind    Kind
	Message string
	Actions []string
}

func (r *Recorder) Notify(kind Kind, message string, actions ...string) string {
	r.Notifications = append(r.Notifications, Notification{Kind: kind, Message: message, Actions: actions})
	return ""
}
