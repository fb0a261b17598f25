package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/crux-dashboard-tui/internal/ui/styles"
)

// Activity is a spinner that only runs between Start and Stop and shows how
// long the current operation has been running.
type Activity struct {
	spinner spinner.Model
	label   string
	started time.Time
	active  bool
}

// NewActivity returns an idle activity indicator.
func NewActivity() Activity {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)
	return Activity{spinner: s}
}

// Start marks the activity as running and returns the first tick.
func (a *Activity) Start(label string) tea.Cmd {
	a.label = label
	a.started = time.Now()
	a.active = true
	return a.spinner.Tick
}

// Stop halts the animation. Pending ticks are dropped by Update.
func (a *Activity) Stop() {
	a.active = false
}

// Active reports whether Start was called without a matching Stop.
func (a *Activity) Active() bool {
	return a.active
}

// Update advances the animation while active.
func (a *Activity) Update(msg tea.Msg) tea.Cmd {
	if !a.active {
		return nil
	}
	var cmd tea.Cmd
	a.spinner, cmd = a.spinner.Update(msg)
	return cmd
}

// View renders the spinner, label and elapsed time, or nothing when idle.
func (a *Activity) View() string {
	if !a.active {
		return ""
	}
	elapsed := time.Since(a.started).Truncate(time.Second)
	return fmt.Sprintf("%s %s %s",
		a.spinner.View(),
		styles.HelpStyle.Render(a.label),
		styles.MutedStyle.Render(elapsed.String()))
}
