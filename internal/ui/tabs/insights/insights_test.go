package insights

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/crux-dashboard-tui/internal/app"
	"github.com/j-veylop/crux-dashboard-tui/internal/models"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func site(url string, lcp, fid float64) models.RawSite {
	m := models.NewSiteMetrics()
	m.Set("largest_contentful_paint", models.MetricData{
		Percentiles: &models.Percentiles{P75: models.NumericPercentile(lcp)},
	})
	m.Set("first_input_delay", models.MetricData{
		Percentiles: &models.Percentiles{P75: models.NumericPercentile(fid)},
	})
	return models.RawSite{URL: url, Metrics: m}
}

func testReport() models.RawReport {
	return models.NewRawReport(
		site("https://a.com", 3000, 10),
		site("https://b.com", 1000, 10),
	)
}

func newLoadedModel() *Model {
	state := app.NewState()
	state.SetReport(testReport())
	m := New(state)
	m.SetSize(140, 60)
	return m
}

func TestModel_Empty(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(120, 40)
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
	if m.SelectedMetric() != "" {
		t.Error("no metric without a report")
	}
	if !strings.Contains(m.View(), "Run a search") {
		t.Error("empty view should prompt for a search")
	}

	m.Update(runes("n"))
	m.Update(runes("p"))
	if m.metricIdx != 0 {
		t.Errorf("metricIdx = %d, want 0", m.metricIdx)
	}
}

func TestModel_ReportUpdated(t *testing.T) {
	state := app.NewState()
	m := New(state)
	m.SetSize(140, 60)

	state.SetReport(testReport())
	m.Update(app.ReportUpdatedMsg{})

	if m.SelectedMetric() != "largest_contentful_paint" {
		t.Errorf("SelectedMetric = %q", m.SelectedMetric())
	}
	if len(m.insights) != 2 {
		t.Errorf("insights = %d, want 2", len(m.insights))
	}
	if len(m.recommendations) != 1 {
		t.Errorf("recommendations = %v, want 1", m.recommendations)
	}

	state.ClearReport()
	m.Update(app.ReportUpdatedMsg{})
	if len(m.insights) != 0 || m.SelectedMetric() != "" {
		t.Error("clearing the report should clear insights")
	}
}

func TestModel_View(t *testing.T) {
	m := newLoadedModel()
	view := m.View()

	for _, want := range []string{
		"largest contentful paint: average 2000.00, best 1000.00 (https://b.com), worst 3000.00 (https://a.com)",
		"https://a.com should improve its largest contentful paint. Current value: 3000.00, Average: 2000.00",
		"Recommendations",
		"3000.00",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestModel_NoRecommendations(t *testing.T) {
	state := app.NewState()
	state.SetReport(models.NewRawReport(site("https://a.com", 1000, 10)))
	m := New(state)
	m.SetSize(140, 60)

	if !strings.Contains(m.View(), "within 20% of the average") {
		t.Error("expected the all-clear message")
	}
}

func TestModel_MetricNavigation(t *testing.T) {
	m := newLoadedModel()

	m.Update(runes("n"))
	if m.SelectedMetric() != "first_input_delay" {
		t.Errorf("SelectedMetric = %q", m.SelectedMetric())
	}
	m.Update(runes("n"))
	if m.SelectedMetric() != "largest_contentful_paint" {
		t.Error("next should wrap around")
	}
	m.Update(runes("p"))
	if m.SelectedMetric() != "first_input_delay" {
		t.Error("prev should wrap around")
	}
	if !strings.Contains(m.View(), "first input delay (2/2)") {
		t.Error("chart title should name the selected metric")
	}
}

func TestModel_SelectionSurvivesRefresh(t *testing.T) {
	m := newLoadedModel()
	m.Update(runes("n"))

	m.state.SetReport(testReport())
	m.Update(app.ReportUpdatedMsg{})
	if m.SelectedMetric() != "first_input_delay" {
		t.Errorf("SelectedMetric = %q, want it kept", m.SelectedMetric())
	}
}

func TestModel_ToggleChart(t *testing.T) {
	m := newLoadedModel()
	if m.chart != chartBars {
		t.Fatal("should start with bars")
	}

	m.Update(runes("t"))
	if m.chart != chartLine {
		t.Error("t should switch to the line chart")
	}
	if !strings.Contains(m.View(), "p75 by site") {
		t.Error("line chart caption missing")
	}

	m.Update(runes("t"))
	if m.chart != chartBars {
		t.Error("t should switch back to bars")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState())
	if len(m.ShortHelp()) != 3 {
		t.Errorf("ShortHelp len = %d", len(m.ShortHelp()))
	}
	if len(m.FullHelp()) != 2 {
		t.Errorf("FullHelp len = %d", len(m.FullHelp()))
	}
}
