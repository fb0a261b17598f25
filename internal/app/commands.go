package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/crux-dashboard-tui/internal/config"
	"github.com/j-veylop/crux-dashboard-tui/internal/export"
	"github.com/j-veylop/crux-dashboard-tui/internal/models"
	"github.com/j-veylop/crux-dashboard-tui/internal/services"
	"github.com/j-veylop/crux-dashboard-tui/internal/services/aggregation"
)

// Timings for the housekeeping tick and toast lifetimes.
const (
	DefaultTickInterval         = time.Second
	QuickNotificationDuration   = 3 * time.Second
	DefaultNotificationDuration = 5 * time.Second
	LongNotificationDuration    = 10 * time.Second
)

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// loadURLsCmd returns a command that reads the manager's URL list.
func loadURLsCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return URLsLoadedMsg{URLs: mgr.URLs()}
	}
}

// searchCmd runs a search generation. A newer search cancels this one
// through the manager, so the context here is never cancelled directly.
func searchCmd(mgr *services.Manager, urls []string) tea.Cmd {
	return func() tea.Msg {
		return SearchResultMsg{Result: mgr.Search(context.Background(), urls)}
	}
}

// exportCmd renders the current view to the export directory.
func exportCmd(dir string, format ExportFormat, view *aggregation.View, vs models.ViewState) tea.Cmd {
	return func() tea.Msg {
		doc := export.NewDocument(view, vs)

		var (
			path string
			err  error
		)
		switch format {
		case ExportPDF:
			path, err = export.Save(dir, config.PDFFileName, doc, export.WritePDF)
		case ExportMarkdown:
			path, err = export.Save(dir, config.MarkdownFileName, doc, export.WriteMarkdown)
		default:
			err = fmt.Errorf("unknown export format %q", format)
		}
		return ExportResultMsg{Format: format, Path: path, Error: err}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd removes notification id once delay has passed.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(t NotificationType, message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: duration}
	}
}

// Commands gives tabs access to the app's commands without reaching into
// the model.
type Commands struct{}

// NewCommands creates a new Commands instance.
func NewCommands() *Commands {
	return &Commands{}
}

// Search returns a command that asks the root model to start a search.
func (c *Commands) Search(urls []string) tea.Cmd {
	return func() tea.Msg {
		return SearchMsg{URLs: urls}
	}
}

// UpdateURLs returns a command that publishes an edited URL list.
func (c *Commands) UpdateURLs(urls []string) tea.Cmd {
	return func() tea.Msg {
		return UpdateURLsMsg{URLs: urls}
	}
}

// Export returns a command that asks the root model to export the report.
func (c *Commands) Export(format ExportFormat) tea.Cmd {
	return func() tea.Msg {
		return ExportMsg{Format: format}
	}
}

// ReportUpdated returns a command that tells tabs to re-read the report.
func (c *Commands) ReportUpdated() tea.Cmd {
	return func() tea.Msg {
		return ReportUpdatedMsg{}
	}
}

// InputFocus returns a command that reports text input focus.
func (c *Commands) InputFocus(focused bool) tea.Cmd {
	return func() tea.Msg {
		return InputFocusMsg{Focused: focused}
	}
}

// Notify returns a command that shows a toast. Errors stay up longer.
func (c *Commands) Notify(t NotificationType, message string) tea.Cmd {
	d := DefaultNotificationDuration
	switch t {
	case NotificationError:
		d = LongNotificationDuration
	case NotificationInfo:
		d = QuickNotificationDuration
	}
	return notifyCmd(t, message, d)
}
