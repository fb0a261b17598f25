package app

import (
	"time"

	"github.com/j-veylop/crux-dashboard-tui/internal/services"
)

// TickMsg drives housekeeping: expiring toasts and the navbar's report age.
type TickMsg struct {
	Time time.Time
}

// URLsLoadedMsg carries the manager's URL list.
type URLsLoadedMsg struct {
	URLs []string
}

// UpdateURLsMsg is sent by the search form when the user edits the list.
type UpdateURLsMsg struct {
	URLs []string
}

// SearchMsg requests a search over URLs.
type SearchMsg struct {
	URLs []string
}

// SearchResultMsg carries a settled search.
type SearchResultMsg struct {
	Result services.SearchResult
}

// ReportUpdatedMsg tells tabs that the report or its view state changed.
type ReportUpdatedMsg struct{}

// ExportFormat selects the exporter.
type ExportFormat string

// Export formats.
const (
	ExportPDF      ExportFormat = "pdf"
	ExportMarkdown ExportFormat = "markdown"
)

// ExportMsg requests exporting the report as currently viewed.
type ExportMsg struct {
	Format ExportFormat
}

// ExportResultMsg contains the result of an export operation.
type ExportResultMsg struct {
	Error  error
	Path   string
	Format ExportFormat
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Message  string
	Type     NotificationType
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// InputFocusMsg is sent by tabs when a text input gains or loses focus so
// that global single-key bindings stay out of the way while typing.
type InputFocusMsg struct {
	Focused bool
}
