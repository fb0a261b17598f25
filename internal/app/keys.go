package app

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// TabID identifies one of the dashboard tabs.
type TabID int

// Tabs in navbar order.
const (
	TabSearch TabID = iota
	TabReport
	TabInsights
	TabInfo
)

var tabNames = []string{"Search", "Report", "Insights", "Info"}

func (t TabID) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "Unknown"
	}
	return tabNames[t]
}

// Tab is implemented by every dashboard tab.
type Tab interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Tab, tea.Cmd)
	View() string
	SetSize(width, height int)
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}

// KeyMap holds the global bindings. Tab-local bindings live with each tab.
type KeyMap struct {
	// Tabs jumps straight to a tab; Tabs[i] selects TabID(i).
	Tabs      []key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	Escape    key.Binding
}

// DefaultKeyMap returns the global bindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{
		NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Refresh:   key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "search again")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close help")),
	}
	for i, name := range tabNames {
		n := strconv.Itoa(i + 1)
		km.Tabs = append(km.Tabs, key.NewBinding(key.WithKeys(n), key.WithHelp(n, name)))
	}
	return km
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Refresh, k.Quit}
}

// FullHelp groups the bindings for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.Tabs,
		{k.NextTab, k.PrevTab},
		{k.Refresh, k.Help, k.Escape, k.Quit},
	}
}

// tabFor returns the tab bound to msg, if any.
func (k KeyMap) tabFor(msg tea.KeyMsg) (TabID, bool) {
	for i, b := range k.Tabs {
		if key.Matches(msg, b) {
			return TabID(i), true
		}
	}
	return 0, false
}
