// Package insights derives free-text recommendations and per-metric
// best/worst insights from site reports.
package insights

import (
	"fmt"

	"github.com/j-veylop/crux-dashboard-tui/internal/models"
)

// OutlierFactor is how far above the mean a site must be to be flagged.
const OutlierFactor = 1.2

type siteValue struct {
	url   string
	value float64
}

// numericValues returns the numeric values of metric, in site order.
func numericValues(metric string, sites []models.SiteReport) []siteValue {
	var values []siteValue
	for _, site := range sites {
		if v, ok := site.ValueOf(metric).Numeric(); ok {
			values = append(values, siteValue{url: site.URL, value: v})
		}
	}
	return values
}

func mean(values []siteValue) float64 {
	var sum float64
	for _, v := range values {
		sum += v.value
	}
	return sum / float64(len(values))
}

// GenerateRecommendations flags every site whose value for a metric exceeds
// OutlierFactor times that metric's mean. Output is grouped by metric, then
// by site order.
func GenerateRecommendations(metrics []string, sites []models.SiteReport) []string {
	var recommendations []string

	for _, metric := range metrics {
		values := numericValues(metric, sites)
		if len(values) == 0 {
			continue
		}

		avg := mean(values)
		for _, v := range values {
			if v.value > OutlierFactor*avg {
				recommendations = append(recommendations, Recommendation(v.url, metric, v.value, avg))
			}
		}
	}

	return recommendations
}

// Recommendation formats a single recommendation line.
func Recommendation(url, metric string, value, avg float64) string {
	return fmt.Sprintf("%s should improve its %s. Current value: %s, Average: %s",
		url,
		models.HumanizeMetric(metric),
		models.FormatFloat(value, metric),
		models.FormatFloat(avg, metric),
	)
}

// GenerateInsights returns the mean, best (lowest) and worst (highest) value
// of each metric. Ties go to the first site in input order.
func GenerateInsights(metrics []string, sites []models.SiteReport) []models.Insight {
	var out []models.Insight

	for _, metric := range metrics {
		values := numericValues(metric, sites)
		if len(values) == 0 {
			continue
		}

		insight := models.Insight{
			Metric:    metric,
			Average:   mean(values),
			Best:      values[0].value,
			Worst:     values[0].value,
			BestSite:  values[0].url,
			WorstSite: values[0].url,
		}
		for _, v := range values[1:] {
			if v.value < insight.Best {
				insight.Best, insight.BestSite = v.value, v.url
			}
			if v.value > insight.Worst {
				insight.Worst, insight.WorstSite = v.value, v.url
			}
		}
		out = append(out, insight)
	}

	return out
}

// Describe renders an insight as a sentence for display and export.
func Describe(in models.Insight) string {
	return fmt.Sprintf("%s: average %s, best %s (%s), worst %s (%s)",
		models.HumanizeMetric(in.Metric),
		models.FormatFloat(in.Average, in.Metric),
		models.FormatFloat(in.Best, in.Metric), in.BestSite,
		models.FormatFloat(in.Worst, in.Metric), in.WorstSite,
	)
}
