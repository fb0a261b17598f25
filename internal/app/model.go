// Package app implements the root Bubble Tea model: tab routing, the search
// and export flows, and notifications.
package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/crux-dashboard-tui/internal/config"
	"github.com/j-veylop/crux-dashboard-tui/internal/logger"
	"github.com/j-veylop/crux-dashboard-tui/internal/services"
	"github.com/j-veylop/crux-dashboard-tui/internal/ui/styles"
)

// Model is the root model. It owns the shared State and hands it to tabs.
type Model struct {
	state    *State
	services *services.Manager
	commands *Commands
	events   chan services.ServiceEvent

	exportDir string
	tabs      []Tab
	keymap    KeyMap
	spinner   spinner.Model
	activeTab TabID

	width, height int

	showHelp     bool
	ready        bool
	inputFocused bool
}

// NewModel builds the root model. mgr and cfg may be nil; without a manager
// searches are ignored and exports go to the working directory.
func NewModel(mgr *services.Manager, cfg *config.Config) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	exportDir := "."
	if cfg != nil && cfg.ExportDir != "" {
		exportDir = cfg.ExportDir
	}

	return &Model{
		state:     NewState(),
		services:  mgr,
		commands:  NewCommands(),
		exportDir: exportDir,
		tabs:      make([]Tab, len(tabNames)),
		keymap:    DefaultKeyMap(),
		spinner:   s,
		activeTab: TabSearch,
	}
}

// SetTabs installs the tabs, in TabID order.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.ready {
		m.resizeTabs()
	}
}

// GetState returns the state shared with the tabs.
func (m *Model) GetState() *State {
	return m.state
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// Init starts the housekeeping tick and, with a manager, loads the URL list
// and subscribes to service events.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, tickCmd(DefaultTickInterval)}

	if m.services != nil {
		m.state.SetLoadingNotification("Loading...")
		cmds = append(cmds, subscribeToServicesCmd(m.services), loadURLsCmd(m.services))
	} else {
		m.state.SetLoading("initial", false)
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}
	return tea.Batch(cmds...)
}

// Update routes key presses to the global bindings first and then the active
// tab. Every other message is handled here and then broadcast to all tabs.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if cmd, handled := m.handleKeyMsg(msg); handled {
			return m, cmd
		}
		return m, m.updateActiveTab(msg)
	}

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.resizeTabs()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case TickMsg:
		m.state.ClearExpiredNotifications()
		cmds = append(cmds, tickCmd(DefaultTickInterval))

	case SubscriptionEventMsg:
		m.events = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.events))

	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEvent(msg.Event))
		if m.events != nil {
			cmds = append(cmds, waitForServiceEventCmd(m.events))
		}

	case URLsLoadedMsg:
		m.state.SetURLs(msg.URLs)
		m.stopLoading("initial")

	case UpdateURLsMsg:
		m.state.SetURLs(msg.URLs)
		if m.services != nil {
			m.services.SetURLs(msg.URLs)
		}

	case SearchMsg:
		cmds = append(cmds, m.handleSearch(msg))

	case SearchResultMsg:
		cmds = append(cmds, m.handleSearchResult(msg)...)

	case ExportMsg:
		cmds = append(cmds, m.handleExport(msg))

	case ExportResultMsg:
		cmds = append(cmds, m.handleExportResult(msg))

	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
		}

	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)

	case InputFocusMsg:
		m.inputFocused = msg.Focused
	}

	cmds = append(cmds, m.broadcast(msg)...)
	return m, tea.Batch(cmds...)
}

func (m *Model) stopLoading(resource string) {
	m.state.SetLoading(resource, false)
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}
}

func (m *Model) handleSearch(msg SearchMsg) tea.Cmd {
	if m.services == nil {
		return nil
	}
	if len(msg.URLs) == 0 {
		return m.commands.Notify(NotificationWarning, "Add at least one URL before searching")
	}

	m.state.SetLoading("search", true)
	m.state.SetLoadingNotification(fmt.Sprintf("Fetching %d site(s)...", len(msg.URLs)))
	m.setBanner("")
	return searchCmd(m.services, msg.URLs)
}

func (m *Model) handleSearchResult(msg SearchResultMsg) []tea.Cmd {
	res := msg.Result
	if m.services != nil && !m.services.IsCurrent(res.Generation) {
		logger.Debug("discarding stale search result", "generation", res.Generation)
		return nil
	}

	m.stopLoading("search")
	cmds := []tea.Cmd{m.commands.ReportUpdated()}

	if res.Unexpected() {
		m.state.ClearReport()
		m.setBanner(res.Message())
		return append(cmds, m.commands.Notify(NotificationError, res.Message()))
	}

	m.state.SetReport(res.Result.Report)
	if res.Result.HasFailures() {
		m.setBanner(res.Message())
		if m.services != nil {
			m.state.SetURLs(m.services.URLs())
		}
		cmds = append(cmds, m.commands.Notify(NotificationError, res.Message()))
	} else {
		took := res.Result.Duration.Round(time.Millisecond)
		msg := fmt.Sprintf("Fetched %d site(s) in %s", len(res.Result.Succeeded), took)
		cmds = append(cmds, m.commands.Notify(NotificationSuccess, msg))
	}

	if m.state.HasReport() {
		m.switchTab(TabReport)
	}
	return cmds
}

func (m *Model) handleExport(msg ExportMsg) tea.Cmd {
	view := m.state.GetView()
	if view == nil || view.Empty() {
		return m.commands.Notify(NotificationWarning, "Nothing to export yet")
	}

	m.state.SetLoading("export", true)
	m.state.SetLoadingNotification("Exporting report...")
	return exportCmd(m.exportDir, msg.Format, view, m.state.GetViewState())
}

func (m *Model) handleExportResult(msg ExportResultMsg) tea.Cmd {
	m.stopLoading("export")
	if msg.Error != nil {
		logger.Error("export failed", "format", msg.Format, "error", msg.Error)
		return m.commands.Notify(NotificationError, fmt.Sprintf("Export failed: %v", msg.Error))
	}
	return m.commands.Notify(NotificationSuccess, "Exported "+msg.Path)
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.URLsChangedEvent:
		m.state.SetURLs(e.URLs)
		if e.Source == services.SourceSeedFile {
			return m.commands.Notify(NotificationInfo, fmt.Sprintf("Reloaded %d URL(s) from seed file", len(e.URLs)))
		}
	case services.ErrorEvent:
		return m.commands.Notify(NotificationError, fmt.Sprintf("[%s] %v", e.Service, e.Error))
	}
	// Search events are reflected through SearchResultMsg.
	return nil
}

// setBanner changes the banner and resizes the tabs, since the banner takes
// a line from the content area.
func (m *Model) setBanner(text string) {
	m.state.SetBanner(text)
	m.resizeTabs()
}

func (m *Model) broadcast(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	for i, tab := range m.tabs {
		if tab == nil {
			continue
		}
		var cmd tea.Cmd
		if m.tabs[i], cmd = tab.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	tab := m.currentTab()
	if tab == nil {
		return nil
	}
	var cmd tea.Cmd
	m.tabs[m.activeTab], cmd = tab.Update(msg)
	return cmd
}

func (m *Model) currentTab() Tab {
	if int(m.activeTab) < len(m.tabs) {
		return m.tabs[m.activeTab]
	}
	return nil
}

func (m *Model) switchTab(tab TabID) {
	if tab < 0 || int(tab) >= len(m.tabs) {
		return
	}
	m.activeTab = tab
	m.resizeTabs()
}

// resizeTabs gives every tab the area left after the navbar, the status line
// and the banner when one is showing.
func (m *Model) resizeTabs() {
	height := m.height - 5
	if m.state.Banner() != "" {
		height--
	}
	height = max(0, height)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, height)
		}
	}
}

// handleKeyMsg applies the global bindings and reports whether the key was
// consumed. While a tab's text input has focus only ctrl+c is global.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		return tea.Quit, true
	}
	if m.inputFocused {
		return nil, false
	}

	if m.showHelp {
		if key.Matches(msg, m.keymap.Help, m.keymap.Escape) {
			m.showHelp = false
		}
		if key.Matches(msg, m.keymap.Quit) {
			return tea.Quit, true
		}
		return nil, true
	}

	if id, ok := m.keymap.tabFor(msg); ok {
		m.switchTab(id)
		return nil, true
	}

	n := len(m.tabs)
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit, true
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
	case key.Matches(msg, m.keymap.NextTab):
		m.switchTab(TabID((int(m.activeTab) + 1) % n))
	case key.Matches(msg, m.keymap.PrevTab):
		m.switchTab(TabID((int(m.activeTab) - 1 + n) % n))
	case key.Matches(msg, m.keymap.Refresh):
		if m.state.IsSearching() {
			return nil, true
		}
		return m.commands.Search(m.state.GetURLs()), true
	default:
		return nil, false
	}
	return nil, true
}
