// Package report provides the pivot table tab: one row per metric, one
// column per site plus average and sum, with filtering, sorting, column
// visibility and export.
package report

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/crux-dashboard-tui/internal/app"
	"github.com/j-veylop/crux-dashboard-tui/internal/models"
	"github.com/j-veylop/crux-dashboard-tui/internal/services/aggregation"
)

// keyMap defines the key bindings specific to the report tab.
type keyMap struct {
	Filter      key.Binding
	ClearFilter key.Binding
	Apply       key.Binding
	Left        key.Binding
	Right       key.Binding
	Sort        key.Binding
	Toggle      key.Binding
	ExportPDF   key.Binding
	ExportMD    key.Binding
	Up          key.Binding
	Down        key.Binding
}

// defaultKeyMap returns the default key bindings for the report tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filter"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("enter", "done"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev column"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next column"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "show/hide"),
		),
		ExportPDF: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export pdf"),
		),
		ExportMD: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "export markdown"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the report tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	keys     keyMap

	filter    textinput.Model
	filtering bool
	cursor    int
	viewport  viewport.Model

	width  int
	height int
}

// New creates a new report model.
func New(state *app.State) *Model {
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter metrics"
	filter.CharLimit = 100
	filter.Width = 40

	return &Model{
		state:    state,
		commands: app.NewCommands(),
		keys:     defaultKeyMap(),
		filter:   filter,
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the report tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Cursor returns the index of the highlighted column.
func (m *Model) Cursor() int {
	return m.cursor
}

// Filtering reports whether the filter input has focus.
func (m *Model) Filtering() bool {
	return m.filtering
}

// Update handles messages for the report tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m, m.updateFilter(msg)
		}
		return m, m.handleKeyMsg(msg)

	case app.ReportUpdatedMsg:
		m.clampCursor()
		m.viewport.GotoTop()
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	view := m.state.GetView()

	switch {
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		return tea.Batch(m.commands.InputFocus(true), m.filter.Focus())

	case key.Matches(msg, m.keys.ClearFilter):
		m.filter.SetValue("")
		m.applyFilter()

	case key.Matches(msg, m.keys.ExportPDF):
		return m.commands.Export(app.ExportPDF)

	case key.Matches(msg, m.keys.ExportMD):
		return m.commands.Export(app.ExportMarkdown)
	}

	if view == nil {
		return nil
	}
	cols := view.Columns()

	switch {
	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Right):
		if m.cursor < len(cols)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Sort):
		m.clampCursor()
		vs := m.state.GetViewState()
		m.state.SetViewState(vs.WithSort(cols[m.cursor].Key))

	case key.Matches(msg, m.keys.Toggle):
		m.clampCursor()
		vs := m.state.GetViewState()
		m.state.SetViewState(vs.WithColumns(cols[m.cursor].Toggle(vs.Columns)))

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	return nil
}

func (m *Model) updateFilter(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Apply) {
		m.filtering = false
		m.filter.Blur()
		return m.commands.InputFocus(false)
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return cmd
}

func (m *Model) applyFilter() {
	vs := m.state.GetViewState()
	if vs.Filter == m.filter.Value() {
		return
	}
	m.state.SetViewState(vs.WithFilter(m.filter.Value()))
	m.viewport.GotoTop()
}

func (m *Model) clampCursor() {
	n := 0
	if view := m.state.GetView(); view != nil {
		n = len(view.Columns())
	}
	m.cursor = max(min(m.cursor, n-1), 0)
}

// table returns the visible table for the current state, or false when no
// report is loaded.
func (m *Model) table() (aggregation.Table, models.ViewState, bool) {
	view := m.state.GetView()
	if view == nil {
		return aggregation.Table{}, models.ViewState{}, false
	}
	vs := m.state.GetViewState()
	return view.Table(vs, aggregation.TableOptions{}), vs, true
}

// SetSize sets the available size for the report tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.filter.Width = min(max(width-20, 20), 60)
	m.viewport.Width = max(width-4, 0)
	m.viewport.Height = max(height-10, 3)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.filtering {
		return []key.Binding{m.keys.Apply}
	}
	return []key.Binding{m.keys.Filter, m.keys.Sort, m.keys.Toggle, m.keys.ExportPDF, m.keys.ExportMD}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Filter, m.keys.ClearFilter, m.keys.Apply},
		{m.keys.Left, m.keys.Right, m.keys.Sort, m.keys.Toggle},
		{m.keys.Up, m.keys.Down},
		{m.keys.ExportPDF, m.keys.ExportMD},
	}
}
