// Package insights provides the insights tab: per-metric spread across
// sites, improvement recommendations and a chart of the selected metric.
package insights

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/crux-dashboard-tui/internal/app"
	"github.com/j-veylop/crux-dashboard-tui/internal/models"
	"github.com/j-veylop/crux-dashboard-tui/internal/services/insights"
)

// chartKind selects how the selected metric is drawn.
type chartKind int

const (
	chartBars chartKind = iota
	chartLine
)

// keyMap defines the key bindings specific to the insights tab.
type keyMap struct {
	NextMetric  key.Binding
	PrevMetric  key.Binding
	ToggleChart key.Binding
	Up          key.Binding
	Down        key.Binding
}

// defaultKeyMap returns the default key bindings for the insights tab.
func defaultKeyMap() keyMap {
	return keyMap{
		NextMetric: key.NewBinding(
			key.WithKeys("n", "right", "l"),
			key.WithHelp("n", "next metric"),
		),
		PrevMetric: key.NewBinding(
			key.WithKeys("p", "left", "h"),
			key.WithHelp("p", "prev metric"),
		),
		ToggleChart: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "bars/line"),
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

// Model represents the insights tab state.
type Model struct {
	state    *app.State
	keys     keyMap
	viewport viewport.Model

	insights        []models.Insight
	recommendations []string
	metrics         []string
	metricIdx       int
	chart           chartKind

	width  int
	height int
}

// New creates a new insights model.
func New(state *app.State) *Model {
	m := &Model{
		state:    state,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
	m.refresh()
	return m
}

// Init initializes the insights tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// SelectedMetric returns the charted metric, or "" without a report.
func (m *Model) SelectedMetric() string {
	if len(m.metrics) == 0 {
		return ""
	}
	return m.metrics[m.metricIdx]
}

// Update handles messages for the insights tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.NextMetric):
			if len(m.metrics) > 0 {
				m.metricIdx = (m.metricIdx + 1) % len(m.metrics)
			}
		case key.Matches(msg, m.keys.PrevMetric):
			if len(m.metrics) > 0 {
				m.metricIdx = (m.metricIdx - 1 + len(m.metrics)) % len(m.metrics)
			}
		case key.Matches(msg, m.keys.ToggleChart):
			if m.chart == chartBars {
				m.chart = chartLine
			} else {
				m.chart = chartBars
			}
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case app.ReportUpdatedMsg:
		m.refresh()
	}

	return m, nil
}

// refresh recomputes insights and recommendations from the current report.
func (m *Model) refresh() {
	view := m.state.GetView()
	if view == nil {
		m.insights, m.recommendations, m.metrics = nil, nil, nil
		m.metricIdx = 0
		return
	}

	selected := m.SelectedMetric()

	m.insights = insights.GenerateInsights(view.Metrics, view.Sites)
	m.recommendations = insights.GenerateRecommendations(view.Metrics, view.Sites)
	m.metrics = make([]string, 0, len(m.insights))
	m.metricIdx = 0
	for i, in := range m.insights {
		m.metrics = append(m.metrics, in.Metric)
		if in.Metric == selected {
			m.metricIdx = i
		}
	}
	m.viewport.GotoTop()
}

// SetSize sets the available size for the insights tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-4, 0)
	m.viewport.Height = max(height-4, 3)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.NextMetric, m.keys.PrevMetric, m.keys.ToggleChart}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextMetric, m.keys.PrevMetric, m.keys.ToggleChart},
		{m.keys.Up, m.keys.Down},
	}
}
