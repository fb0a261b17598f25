package info

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/crux-dashboard-tui/internal/services/crux"
	"github.com/j-veylop/crux-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/crux-dashboard-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderSearchCard(),
		m.renderAboutCard(),
	)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 90)
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration"), ""}

	if m.config != nil {
		timeout := "none"
		if m.config.RequestTimeout > 0 {
			timeout = m.config.RequestTimeout.String()
		}
		rows = append(rows,
			renderRow("Backend", m.config.BackendURL+crux.ReportPath),
			renderRow("Seed File", orNone(m.config.URLsFile)),
			renderRow("Export Dir", m.config.ExportDir),
			renderRow("Log File", m.config.LogFile),
			renderRow(".env File", orNone(m.config.EnvFile)),
			renderRow("Timeout", timeout),
			renderRow("Notify", strconv.FormatBool(m.config.Notify)),
		)
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderSearchCard() string {
	rows := []string{styles.CardTitleStyle.Render("Last Search"), ""}

	switch {
	case m.last == nil:
		rows = append(rows, styles.HelpStyle.Render("No search has completed yet"))

	case m.last.result.Unexpected():
		rows = append(rows,
			renderRow("Finished", m.last.at.Format(time.TimeOnly)),
			renderRow("URLs", strconv.Itoa(len(m.last.result.URLs))),
			styles.ErrorTextStyle.Render(m.last.result.Message()),
		)

	default:
		res := m.last.result.Result
		rows = append(rows,
			renderRow("Finished", m.last.at.Format(time.TimeOnly)),
			renderRow("Took", res.Duration.Round(time.Millisecond).String()),
			renderRow("Succeeded", styles.SuccessTextStyle.Render(strconv.Itoa(len(res.Succeeded)))),
			renderRow("Failed", strconv.Itoa(len(res.Failed))),
		)
		for _, f := range res.Failed {
			line := fmt.Sprintf("  %s: %v", f.URL, f.Err)
			rows = append(rows, styles.ErrorTextStyle.Render(ansi.Truncate(line, m.cardWidth()-6, "…")))
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(14).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About " + version.Name),
		"",
		renderRow("Version", version.GetVersion()),
		renderRow("Build Date", version.GetDate()),
		renderRow("Git Commit", version.GetCommit()),
		renderRow("Go Version", runtime.Version()),
		renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
		"",
	}

	urls := len(m.state.GetURLs())
	sites := 0
	if view := m.state.GetView(); view != nil {
		sites = len(view.Sites)
	}
	rows = append(rows, fmt.Sprintf("URLs: %s  Sites in report: %s",
		styles.InfoTextStyle.Render(strconv.Itoa(urls)),
		styles.InfoTextStyle.Render(strconv.Itoa(sites)),
	))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
