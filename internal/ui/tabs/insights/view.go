package insights

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/crux-dashboard-tui/internal/models"
	"github.com/j-veylop/crux-dashboard-tui/internal/services/insights"
	"github.com/j-veylop/crux-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/crux-dashboard-tui/internal/ui/styles"
)

// View renders the insights tab.
func (m *Model) View() string {
	var sections []string

	if len(m.insights) == 0 {
		sections = append(sections,
			styles.TitleStyle.Render("Insights"),
			styles.CardStyle.Render(styles.HelpStyle.Render("Run a search to see insights.")),
		)
	} else {
		sections = append(sections,
			styles.TitleStyle.Render("Insights"),
			m.renderChart(),
			m.renderInsights(),
			m.renderRecommendations(),
		)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) cardWidth() int {
	return max(m.width-8, 40)
}

func (m *Model) renderChart() string {
	metric := m.SelectedMetric()
	view := m.state.GetView()
	if view == nil {
		return ""
	}

	title := styles.CardTitleStyle.Render(fmt.Sprintf("%s (%d/%d)",
		models.HumanizeMetric(metric), m.metricIdx+1, len(m.metrics)))

	var chart string
	if m.chart == chartLine {
		chart = components.RenderLineChart(m.siteValues(metric), m.cardWidth()-16, 8, "p75 by site, in search order")
	} else {
		bars := make([]components.Bar, 0, len(view.Sites))
		for _, site := range view.Sites {
			bars = append(bars, components.Bar{Label: site.URL, Value: site.ValueOf(metric)})
		}
		chart = components.RenderBarChart(bars, m.cardWidth()-6, func(f float64) string {
			return models.FormatFloat(f, metric)
		})
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, chart),
	)
}

// siteValues returns the numeric p75 values of metric in search order.
func (m *Model) siteValues(metric string) []float64 {
	view := m.state.GetView()
	if view == nil {
		return nil
	}
	var data []float64
	for _, site := range view.Sites {
		if f, ok := site.ValueOf(metric).Numeric(); ok {
			data = append(data, f)
		}
	}
	return data
}

func (m *Model) renderInsights() string {
	lines := []string{styles.CardTitleStyle.Render("Insights")}
	for i, in := range m.insights {
		line := insights.Describe(in) + "  " + styles.MutedStyle.Render(components.RenderSparkline(m.siteValues(in.Metric), 8))
		if i == m.metricIdx {
			line = styles.SelectedListItemStyle.Render(line)
		} else {
			line = styles.ListItemStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderRecommendations() string {
	lines := []string{styles.CardTitleStyle.Render("Recommendations")}
	if len(m.recommendations) == 0 {
		lines = append(lines, styles.SuccessTextStyle.Render("Every site is within 20% of the average."))
	}
	for _, rec := range m.recommendations {
		lines = append(lines, styles.WarningTextStyle.Render("• ")+rec)
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
