package aggregation

import (
	"cmp"
	"slices"
	"strings"

	"github.com/j-veylop/crux-dashboard-tui/internal/models"
)

// Sort orders metrics by the column in state. The sort is stable, missing
// numeric values count as 0 and unknown keys leave the order unchanged.
func Sort(metrics []string, state models.SortState, sites []models.SiteReport, summary models.Summary) []string {
	out := slices.Clone(metrics)

	compare := comparator(state.OrderBy, sites, summary)
	if compare == nil {
		return out
	}

	slices.SortStableFunc(out, func(a, b string) int {
		if state.Direction == models.Descending {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out
}

func comparator(key string, sites []models.SiteReport, summary models.Summary) func(a, b string) int {
	switch key {
	case models.SortByMetric:
		return strings.Compare
	case models.SortByAverage:
		return byNumber(func(metric string) float64 {
			return summary.Average(metric).OrZero()
		})
	case models.SortBySum:
		return byNumber(func(metric string) float64 {
			return summary.Sum(metric).OrZero()
		})
	}

	i, ok := models.ParseWebsiteSortKey(key)
	if !ok {
		return nil
	}
	return byNumber(func(metric string) float64 {
		if i >= len(sites) {
			return 0
		}
		return sites[i].ValueOf(metric).OrZero()
	})
}

func byNumber(value func(metric string) float64) func(a, b string) int {
	return func(a, b string) int {
		return cmp.Compare(value(a), value(b))
	}
}
