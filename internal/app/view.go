package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/crux-dashboard-tui/internal/ui/styles"
)

var (
	navbarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(styles.Subtle)
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(styles.Series).Padding(0, 2)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(styles.TextMuted).Padding(0, 2)
	bannerStyle      = styles.ErrorTextStyle.Padding(0, 2)
	contentStyle     = lipgloss.NewStyle().Padding(1, 2)
	sectionStyle     = lipgloss.NewStyle().Bold(true).Foreground(styles.Primary)
)

var toastGlyphs = map[NotificationType]string{
	NotificationSuccess: "✓",
	NotificationError:   "✗",
	NotificationWarning: "!",
	NotificationInfo:    "i",
}

// View renders the navbar, the banner, the active tab and any toasts.
func (m *Model) View() string {
	if !m.ready {
		return contentStyle.Render(m.spinner.View() + " Loading...")
	}

	parts := []string{m.renderNavbar()}
	if banner := m.state.Banner(); banner != "" {
		parts = append(parts, bannerStyle.Width(m.width).Render(ansi.Truncate(banner, max(m.width-4, 1), "…")))
	}

	switch tab := m.currentTab(); {
	case m.showHelp:
		parts = append(parts, lipgloss.Place(m.width, max(m.height-len(parts)-1, 0),
			lipgloss.Center, lipgloss.Center, m.renderHelp()))
	case tab != nil:
		parts = append(parts, tab.View())
	default:
		parts = append(parts, contentStyle.Render(
			styles.HelpStyle.Render(fmt.Sprintf("No %s tab configured.", m.activeTab))))
	}

	view := strings.Join(parts, "\n")
	if toasts := m.renderToasts(); toasts != "" {
		view = overlay(view, toasts, max(m.width-lipgloss.Width(toasts)-2, 0), 2)
	}
	return view
}

func (m *Model) renderNavbar() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if TabID(i) == m.activeTab {
			tabs[i] = activeTabStyle.Render("▸" + label)
		} else {
			tabs[i] = inactiveTabStyle.Render(" " + label)
		}
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	status := styles.HelpStyle.Render(m.reportStatus())
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(status)-2, 1)

	return navbarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + status)
}

// reportStatus summarizes the loaded report for the navbar.
func (m *Model) reportStatus() string {
	if !m.state.HasReport() {
		return fmt.Sprintf("%d URL(s), no report", len(m.state.GetURLs()))
	}
	age := m.state.TimeSinceUpdate().Truncate(time.Second)
	return fmt.Sprintf("%d site(s), updated %s ago", len(m.state.GetView().Sites), age)
}

func (m *Model) renderToasts() string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return ""
	}

	width := max(m.width/2, 20)
	toasts := make([]string, 0, len(notifications))
	for _, n := range notifications {
		glyph, ok := toastGlyphs[n.Type]
		if !ok {
			glyph = m.spinner.View()
		}
		line := styles.StatusStyle(n.Type.String()).Render(glyph + " " + ansi.Truncate(n.Message, width, "…"))
		toasts = append(toasts, styles.ToastStyle.Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Right, toasts...)
}

func (m *Model) renderHelp() string {
	lines := []string{styles.TitleStyle.Render("Keyboard Shortcuts")}

	section := func(title string, groups [][]key.Binding) {
		lines = append(lines, sectionStyle.Render(title))
		for _, group := range groups {
			for _, b := range group {
				h := b.Help()
				lines = append(lines, fmt.Sprintf("  %s %s",
					styles.HelpKeyStyle.Render(fmt.Sprintf("%-10s", h.Key)), styles.HelpDescStyle.Render(h.Desc)))
			}
		}
		lines = append(lines, "")
	}

	section("Global", m.keymap.FullHelp())
	if tab := m.currentTab(); tab != nil {
		section(m.activeTab.String(), tab.FullHelp())
	}

	lines = append(lines, styles.HelpStyle.Render("Press ? or esc to close"))
	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

// overlay draws top over base with its top-left corner at column x, row y.
// Lines of top that fall below base are dropped.
func overlay(base, top string, x, y int) string {
	baseLines := strings.Split(base, "\n")
	for i, line := range strings.Split(top, "\n") {
		row := y + i
		if row >= len(baseLines) {
			break
		}
		under := baseLines[row]
		left := ansi.Truncate(under, x, "")
		if w := lipgloss.Width(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		right := ansi.TruncateLeft(under, x+lipgloss.Width(line), "")
		baseLines[row] = left + line + right
	}
	return strings.Join(baseLines, "\n")
}
