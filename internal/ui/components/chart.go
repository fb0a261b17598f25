// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/crux-dashboard-tui/internal/models"
	"github.com/j-veylop/crux-dashboard-tui/internal/ui/styles"
)

// ChartPrimaryColor is the bar and line color.
var ChartPrimaryColor = styles.Series

// sparkChars are the sparkline levels, low to high.
var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	// asciigraph needs two points to draw a line.
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.Precision(2),
	)
}

// Bar is one labelled value in a bar chart. Missing values draw as N/A.
type Bar struct {
	Label string
	Value models.Value
}

// RenderBarChart creates a horizontal bar chart scaled to the largest value.
func RenderBarChart(bars []Bar, width int, format func(float64) string) string {
	if len(bars) == 0 {
		return ""
	}
	if format == nil {
		format = func(v float64) string { return fmt.Sprintf("%.2f", v) }
	}

	maxVal := 0.0
	maxLabelLen := 0
	for _, b := range bars {
		if f, ok := b.Value.Numeric(); ok && f > maxVal {
			maxVal = f
		}
		maxLabelLen = max(maxLabelLen, lipgloss.Width(b.Label))
	}
	if maxVal == 0 {
		maxVal = 1
	}
	maxLabelLen = min(maxLabelLen, max(width/3, 10))

	barWidth := max(width-maxLabelLen-14, 10)
	barStyle := lipgloss.NewStyle().Foreground(ChartPrimaryColor)

	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		label := ansi.Truncate(b.Label, maxLabelLen, "…")
		label = strings.Repeat(" ", maxLabelLen-lipgloss.Width(label)) + label

		f, ok := b.Value.Numeric()
		if !ok {
			lines = append(lines, label+" │ "+styles.NotAvailableStyle.Render(models.NotAvailable))
			continue
		}

		barLen := max(int(f/maxVal*float64(barWidth)), 0)
		lines = append(lines, label+" │"+barStyle.Render(strings.Repeat("█", barLen))+" "+format(f))
	}

	return strings.Join(lines, "\n")
}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Sample values to fit width
	var result strings.Builder
	step := float64(len(values)) / float64(width)
	if step < 1 {
		step = 1
	}

	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		level := int((val / maxVal) * float64(len(sparkChars)-1))
		level = min(max(level, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[level])
	}

	return result.String()
}
