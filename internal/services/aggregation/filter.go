package aggregation

import (
	"strings"

	"github.com/j-veylop/crux-dashboard-tui/internal/models"
)

// Filter keeps the metrics whose row contains filterText, ignoring case.
// A row matches on its metric name, any site URL, any site's formatted value
// or the formatted average or sum.
func Filter(metrics []string, filterText string, sites []models.SiteReport, summary models.Summary) []string {
	out := make([]string, 0, len(metrics))
	if filterText == "" {
		return append(out, metrics...)
	}

	needle := strings.ToLower(filterText)
	for _, metric := range metrics {
		if rowMatches(metric, needle, sites, summary) {
			out = append(out, metric)
		}
	}
	return out
}

func rowMatches(metric, needle string, sites []models.SiteReport, summary models.Summary) bool {
	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), needle)
	}

	if contains(metric) {
		return true
	}
	for _, site := range sites {
		if contains(site.URL) || contains(models.FormatValue(site.ValueOf(metric), metric)) {
			return true
		}
	}
	return contains(models.FormatValue(summary.Average(metric), metric)) ||
		contains(models.FormatValue(summary.Sum(metric), metric))
}
