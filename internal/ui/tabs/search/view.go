package search

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/crux-dashboard-tui/internal/services/urls"
	"github.com/j-veylop/crux-dashboard-tui/internal/ui/styles"
)

// View renders the search tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderInput(),
		m.renderList(),
	}

	if m.state.IsSearching() && m.activity.Active() {
		sections = append(sections, m.activity.View(), "")
	}

	sections = append(sections, m.renderFooter())

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Search")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d URL(s) queued", len(m.state.GetURLs())))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 40), 110)
}

func (m *Model) renderInput() string {
	modeLabel := styles.CardTitleStyle.Render(m.entry.Mode.String())

	var input string
	if m.entry.Mode == urls.ModeBulk {
		input = m.bulk.View()
	} else {
		input = m.single.View()
	}

	border := styles.BlurredBorderStyle
	if m.editing {
		border = styles.FocusedBorderStyle
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, modeLabel, border.Render(input)),
	)
}

func (m *Model) renderList() string {
	list := m.state.GetURLs()
	if len(list) == 0 {
		return styles.CardStyle.Width(m.cardWidth()).Render(
			styles.HelpStyle.Render("No URLs yet. Press a to add one."),
		)
	}

	maxWidth := max(m.cardWidth()-10, 10)
	lines := make([]string, 0, len(list)+1)
	lines = append(lines, styles.CardTitleStyle.Render("URLs"))
	for i, u := range list {
		u = ansi.Truncate(u, maxWidth, "…")
		if i == m.selected && !m.editing {
			lines = append(lines, styles.SelectedChipStyle.Render(u+" ×"))
		} else {
			lines = append(lines, styles.ChipStyle.Render(u))
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	var parts []string
	for _, b := range m.ShortHelp() {
		h := b.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, styles.HelpSeparatorStyle.Render(" • "))
}
