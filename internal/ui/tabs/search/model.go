// Package search provides the URL entry tab: single and bulk input, the URL
// list and the search trigger.
package search

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/crux-dashboard-tui/internal/app"
	"github.com/j-veylop/crux-dashboard-tui/internal/services/urls"
	"github.com/j-veylop/crux-dashboard-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the search tab.
type keyMap struct {
	Edit       key.Binding
	ToggleMode key.Binding
	Up         key.Binding
	Down       key.Binding
	Delete     key.Binding
	Search     key.Binding
	Submit     key.Binding
	SubmitAll  key.Binding
	EditToggle key.Binding
	Escape     key.Binding
}

// defaultKeyMap returns the default key bindings for the search tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Edit: key.NewBinding(
			key.WithKeys("a", "i"),
			key.WithHelp("a", "add url"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "single/bulk"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete", "x"),
			key.WithHelp("d", "remove"),
		),
		Search: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("enter", "search"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add"),
		),
		SubmitAll: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "add"),
		),
		EditToggle: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "single/bulk"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "done"),
		),
	}
}

// Model represents the search tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	keys     keyMap

	entry    urls.Entry
	single   textinput.Model
	bulk     textarea.Model
	editing  bool
	selected int

	activity components.Activity
	width    int
	height   int
}

// New creates a new search model.
func New(state *app.State) *Model {
	single := textinput.New()
	single.Placeholder = "https://example.com"
	single.CharLimit = 2048
	single.Width = 60

	bulk := textarea.New()
	bulk.Placeholder = "One URL per line, or comma separated"
	bulk.ShowLineNumbers = false
	bulk.CharLimit = 0
	bulk.SetWidth(60)
	bulk.SetHeight(6)

	return &Model{
		state:    state,
		commands: app.NewCommands(),
		keys:     defaultKeyMap(),
		single:   single,
		bulk:     bulk,
		activity: components.NewActivity(),
	}
}

// Init initializes the search tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Editing reports whether a text input has focus.
func (m *Model) Editing() bool {
	return m.editing
}

// Entry returns the pending input.
func (m *Model) Entry() urls.Entry {
	m.syncEntry()
	return m.entry
}

// Update handles messages for the search tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m, m.updateEditing(msg)
		}
		return m, m.updateList(msg)

	case app.SearchMsg:
		return m, m.activity.Start(fmt.Sprintf("Fetching %d report(s)...", len(msg.URLs)))

	case spinner.TickMsg:
		if !m.state.IsSearching() {
			m.activity.Stop()
		}
		return m, m.activity.Update(msg)

	case app.SearchResultMsg:
		if !m.state.IsSearching() {
			m.activity.Stop()
		}
		m.clampSelection()

	case app.URLsLoadedMsg, app.UpdateURLsMsg, app.ServiceEventMsg:
		m.clampSelection()
	}

	if m.editing {
		return m, m.updateInput(msg)
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) tea.Cmd {
	list := m.list()

	switch {
	case key.Matches(msg, m.keys.Edit):
		return m.focus()

	case key.Matches(msg, m.keys.ToggleMode):
		m.toggleMode()
		return m.publish(list)

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selected < list.Len()-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.Delete):
		if list.Len() == 0 {
			return nil
		}
		updated := list.Remove(m.selected)
		m.state.SetURLs(updated.URLs())
		m.clampSelection()
		return m.commands.UpdateURLs(updated.URLs())

	case key.Matches(msg, m.keys.Search):
		return m.commands.Search(list.URLs())
	}

	return nil
}

func (m *Model) updateEditing(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.blur()
		return m.commands.InputFocus(false)

	case key.Matches(msg, m.keys.EditToggle):
		before := m.list()
		m.toggleMode()
		return tea.Batch(m.publish(before), m.focusInput())

	case key.Matches(msg, m.keys.SubmitAll),
		m.entry.Mode == urls.ModeSingle && key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	return m.updateInput(msg)
}

func (m *Model) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.entry.Mode == urls.ModeBulk {
		m.bulk, cmd = m.bulk.Update(msg)
	} else {
		m.single, cmd = m.single.Update(msg)
	}
	return cmd
}

// submit adds the pending entry to the list.
func (m *Model) submit() tea.Cmd {
	m.syncEntry()
	entry, updated, added := m.entry.Submit(m.list())
	m.setEntry(entry)
	if !added {
		return nil
	}
	m.state.SetURLs(updated.URLs())
	return m.commands.UpdateURLs(updated.URLs())
}

// toggleMode flips between single and bulk input.
func (m *Model) toggleMode() {
	m.syncEntry()
	entry, updated := m.entry.Toggle(m.list())
	m.setEntry(entry)
	m.state.SetURLs(updated.URLs())
}

// publish sends the URL list when it differs from before.
func (m *Model) publish(before urls.List) tea.Cmd {
	after := m.list()
	if after.Len() == before.Len() {
		return nil
	}
	return m.commands.UpdateURLs(after.URLs())
}

func (m *Model) focus() tea.Cmd {
	m.editing = true
	return tea.Batch(m.commands.InputFocus(true), m.focusInput())
}

func (m *Model) focusInput() tea.Cmd {
	if m.entry.Mode == urls.ModeBulk {
		m.single.Blur()
		return m.bulk.Focus()
	}
	m.bulk.Blur()
	return m.single.Focus()
}

func (m *Model) blur() {
	m.syncEntry()
	m.editing = false
	m.single.Blur()
	m.bulk.Blur()
}

func (m *Model) syncEntry() {
	m.entry.Single = m.single.Value()
	m.entry.Bulk = m.bulk.Value()
}

func (m *Model) setEntry(e urls.Entry) {
	m.entry = e
	m.single.SetValue(e.Single)
	m.bulk.SetValue(e.Bulk)
}

func (m *Model) list() urls.List {
	return urls.NewList(m.state.GetURLs()...)
}

func (m *Model) clampSelection() {
	n := len(m.state.GetURLs())
	m.selected = max(min(m.selected, n-1), 0)
}

// SetSize sets the available size for the search tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	inputWidth := min(max(width-12, 20), 100)
	m.single.Width = inputWidth
	m.bulk.SetWidth(inputWidth)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.editing {
		if m.entry.Mode == urls.ModeBulk {
			return []key.Binding{m.keys.SubmitAll, m.keys.EditToggle, m.keys.Escape}
		}
		return []key.Binding{m.keys.Submit, m.keys.EditToggle, m.keys.Escape}
	}
	return []key.Binding{m.keys.Edit, m.keys.Delete, m.keys.Search, m.keys.ToggleMode}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Edit, m.keys.ToggleMode, m.keys.Search},
		{m.keys.Up, m.keys.Down, m.keys.Delete},
		{m.keys.Submit, m.keys.SubmitAll, m.keys.EditToggle, m.keys.Escape},
	}
}
