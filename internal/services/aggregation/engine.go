// Package aggregation pivots raw CrUX records into per-site samples, metric
// summaries and the filtered, sorted rows shown in the results table.
package aggregation

import "github.com/j-veylop/crux-dashboard-tui/internal/models"

// BuildSiteReports converts raw records into site reports, one per site in
// input order. Metrics without a p75 reading are skipped; malformed readings
// are kept so they render as N/A.
func BuildSiteReports(raw models.RawReport) []models.SiteReport {
	sites := raw.Sites()
	reports := make([]models.SiteReport, 0, len(sites))

	for _, site := range sites {
		report := models.SiteReport{URL: site.URL, Metrics: []models.MetricSample{}}
		site.Metrics.Each(func(name string, data models.MetricData) {
			p75 := data.P75()
			if p75.IsMissing() {
				return
			}
			report.Metrics = append(report.Metrics, models.MetricSample{
				Metric: name,
				Value:  p75.Value(),
			})
		})
		reports = append(reports, report)
	}

	return reports
}

// MetricUniverse returns every metric with at least one numeric sample, in
// first-seen order across sites.
func MetricUniverse(sites []models.SiteReport) []string {
	seen := make(map[string]bool)
	var metrics []string

	for _, site := range sites {
		for _, sample := range site.Metrics {
			if seen[sample.Metric] {
				continue
			}
			if _, ok := sample.Value.Numeric(); !ok {
				continue
			}
			seen[sample.Metric] = true
			metrics = append(metrics, sample.Metric)
		}
	}

	return metrics
}

// ComputeSummary sums and averages the numeric values of each metric.
// Metrics with no numeric value get no entry.
func ComputeSummary(metrics []string, sites []models.SiteReport) models.Summary {
	summary := make(models.Summary, len(metrics))

	for _, metric := range metrics {
		stat := models.SummaryStat{Metric: metric}
		for _, site := range sites {
			v, ok := site.ValueOf(metric).Numeric()
			if !ok {
				continue
			}
			stat.Sum += v
			stat.Count++
		}
		if stat.Count == 0 {
			continue
		}
		stat.Average = stat.Sum / float64(stat.Count)
		summary[metric] = stat
	}

	return summary
}
