// Package styles holds the lipgloss palette and shared styles of the dashboard.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Primary   = lipgloss.Color("205")
	Secondary = lipgloss.Color("63")
	Subtle    = lipgloss.Color("240")
	Series    = lipgloss.Color("#7D56F4")

	Good = lipgloss.Color("42")
	Poor = lipgloss.Color("196")
	Warn = lipgloss.Color("220")
	Note = lipgloss.Color("39")

	Surface = lipgloss.Color("237")
	Overlay = lipgloss.Color("235")

	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")

	onPrimary = lipgloss.Color("229")
)

// Layout.
var (
	DocStyle = lipgloss.NewStyle().Margin(1, 2).Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Subtle).
			Padding(1, 2).
			MarginBottom(1)
	CardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)

	// FocusedBorderStyle frames a text input that has focus.
	FocusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Primary).
				Padding(0, 1)
	BlurredBorderStyle = FocusedBorderStyle.BorderForeground(Subtle)

	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// Text.
var (
	HelpStyle  = lipgloss.NewStyle().Foreground(TextMuted)
	MutedStyle = lipgloss.NewStyle().Foreground(Subtle).Italic(true)

	HelpKeyStyle       = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	HelpDescStyle      = lipgloss.NewStyle().Foreground(TextSecondary)
	HelpSeparatorStyle = lipgloss.NewStyle().Foreground(Subtle)
	HelpPanelStyle     = lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(Primary).
				Padding(1, 3).
				Background(Overlay)

	SuccessTextStyle = lipgloss.NewStyle().Foreground(Good)
	ErrorTextStyle   = lipgloss.NewStyle().Foreground(Poor).Bold(true)
	WarningTextStyle = lipgloss.NewStyle().Foreground(Warn)
	InfoTextStyle    = lipgloss.NewStyle().Foreground(Note)
)

// Lists, chips and column toggles.
var (
	ListItemStyle         = lipgloss.NewStyle().PaddingLeft(2)
	SelectedListItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(Primary).
				Bold(true).
				SetString("> ")

	ChipStyle = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(Surface).
			Padding(0, 1)
	SelectedChipStyle = lipgloss.NewStyle().
				Foreground(onPrimary).
				Background(Primary).
				Bold(true).
				Padding(0, 1)

	ColumnStyle       = ChipStyle.MarginRight(1).Foreground(TextSecondary)
	ColumnCursorStyle = SelectedChipStyle.MarginRight(1)
)

// Metric cells.
var (
	PlainStyle        = lipgloss.NewStyle()
	BestValueStyle    = lipgloss.NewStyle().Foreground(Good).Bold(true)
	WorstValueStyle   = lipgloss.NewStyle().Foreground(Poor).Bold(true)
	NotAvailableStyle = MutedStyle
)

// GetValueStyle picks the style for a metric cell given the metric's best
// and worst values. Lower is better for every CrUX metric.
func GetValueStyle(v, best, worst float64) lipgloss.Style {
	switch {
	case best == worst:
		return PlainStyle
	case v == best:
		return BestValueStyle
	case v == worst:
		return WorstValueStyle
	default:
		return PlainStyle
	}
}

// StatusStyle returns the text style for a notification kind: "success",
// "error", "warning" or anything else for info.
func StatusStyle(kind string) lipgloss.Style {
	switch kind {
	case "success":
		return SuccessTextStyle
	case "error":
		return ErrorTextStyle
	case "warning":
		return WarningTextStyle
	default:
		return InfoTextStyle
	}
}
