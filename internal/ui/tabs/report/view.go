package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/crux-dashboard-tui/internal/models"
	"github.com/j-veylop/crux-dashboard-tui/internal/services/aggregation"
	"github.com/j-veylop/crux-dashboard-tui/internal/ui/styles"
)

// maxTitleWidth caps site URL headers.
const maxTitleWidth = 32

// View renders the report tab.
func (m *Model) View() string {
	sections := []string{m.renderTitle()}

	view := m.state.GetView()
	switch {
	case view == nil && m.state.IsSearching():
		sections = append(sections, styles.HelpStyle.Render("Fetching reports..."))
	case view == nil || view.Empty():
		sections = append(sections, styles.CardStyle.Render(
			styles.HelpStyle.Render("No report yet. Add URLs in the Search tab and press enter."),
		))
	default:
		sections = append(sections,
			m.renderFilter(),
			m.renderColumnBar(view),
			"",
			m.renderTable(),
		)
	}

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Report")

	subtitle := "Core Web Vitals by site"
	if view := m.state.GetView(); view != nil && !view.Empty() {
		subtitle = fmt.Sprintf("%d site(s), %d metric(s), updated %s",
			len(view.Sites), len(view.Metrics), m.state.GetLastUpdated().Format("15:04:05"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(subtitle))
}

func (m *Model) renderFilter() string {
	if m.filtering || m.filter.Value() != "" {
		return m.filter.View()
	}
	return styles.HelpStyle.Render("press / to filter metrics")
}

// renderColumnBar lists every column with its visibility and the cursor.
func (m *Model) renderColumnBar(view *aggregation.View) string {
	vs := m.state.GetViewState()

	parts := make([]string, 0, len(view.Columns()))
	for i, col := range view.Columns() {
		mark := "[ ]"
		if col.Visible(vs.Columns) {
			mark = "[x]"
		}
		label := mark + " " + ansi.Truncate(col.Title, maxTitleWidth/2, "…") + sortIndicator(vs.Sort, col.Key)

		style := styles.ColumnStyle
		if i == m.cursor {
			style = styles.ColumnCursorStyle
		}
		parts = append(parts, style.Render(label))
	}

	return lipgloss.NewStyle().Width(max(m.width-6, 20)).Render(strings.Join(parts, ""))
}

func sortIndicator(s models.SortState, key string) string {
	if s.OrderBy != key {
		return ""
	}
	if s.Direction == models.Descending {
		return " ▼"
	}
	return " ▲"
}

func (m *Model) renderTable() string {
	tbl, vs, ok := m.table()
	if !ok {
		return ""
	}
	if len(tbl.Columns) == 0 {
		return styles.HelpStyle.Render("All columns are hidden. Use space to show one.")
	}
	if len(tbl.Rows) == 0 {
		return styles.HelpStyle.Render(fmt.Sprintf("No metrics match %q", vs.Filter))
	}

	headers := make([]string, len(tbl.Columns))
	for i, col := range tbl.Columns {
		headers[i] = ansi.Truncate(col.Title, maxTitleWidth, "…") + sortIndicator(vs.Sort, col.Key)
	}

	view := m.state.GetView()
	extremes := rowExtremes(view, tbl)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Subtle)).
		Headers(headers...).
		Rows(tbl.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return base.Bold(true).Foreground(styles.Primary)
			}
			c := tbl.Columns[col]
			if c.Kind == aggregation.ColumnMetric {
				return base.Foreground(styles.TextPrimary)
			}
			base = base.Align(lipgloss.Right)
			if row < 0 || row >= len(tbl.Rows) {
				return base
			}
			cell := tbl.Rows[row][col]
			if cell == models.NotAvailable {
				return base.Inherit(styles.NotAvailableStyle)
			}
			if c.Kind != aggregation.ColumnSite {
				return base.Foreground(styles.TextSecondary)
			}
			ext := extremes[row]
			v := view.Sites[c.SiteIndex].ValueOf(tbl.Metrics[row])
			if f, ok := v.Numeric(); ok && ext.ok {
				return base.Inherit(styles.GetValueStyle(f, ext.best, ext.worst))
			}
			return base
		})

	m.viewport.SetContent(t.Render())
	return m.viewport.View()
}

type extreme struct {
	best, worst float64
	ok          bool
}

// rowExtremes finds the best and worst site value of each row among the
// visible site columns.
func rowExtremes(view *aggregation.View, tbl aggregation.Table) []extreme {
	out := make([]extreme, len(tbl.Metrics))
	for i, metric := range tbl.Metrics {
		for _, col := range tbl.Columns {
			if col.Kind != aggregation.ColumnSite {
				continue
			}
			f, ok := view.Sites[col.SiteIndex].ValueOf(metric).Numeric()
			if !ok {
				continue
			}
			e := &out[i]
			if !e.ok {
				*e = extreme{best: f, worst: f, ok: true}
				continue
			}
			e.best = min(e.best, f)
			e.worst = max(e.worst, f)
		}
	}
	return out
}
