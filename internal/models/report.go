package models

// MetricSample is one metric reading of a site.
type MetricSample struct {
	Metric string `json:"metric"`
	Value  Value  `json:"value"`
}

// SiteReport holds the samples of a single site in raw metric order.
type SiteReport struct {
	URL     string         `json:"url"`
	Metrics []MetricSample `json:"metrics"`
}

// Lookup returns the first sample for metric.
func (s SiteReport) Lookup(metric string) (Value, bool) {
	for _, sample := range s.Metrics {
		if sample.Metric == metric {
			return sample.Value, true
		}
	}
	return None, false
}

// ValueOf returns the value for metric, None when the site has no sample.
func (s SiteReport) ValueOf(metric string) Value {
	v, _ := s.Lookup(metric)
	return v
}

// SummaryStat aggregates the numeric values of one metric across sites.
type SummaryStat struct {
	Metric  string  `json:"metric"`
	Sum     float64 `json:"sum"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Summary maps metric names to their statistics. Metrics without a numeric
// value have no entry.
type Summary map[string]SummaryStat

// Average returns the metric average, None when there is no statistic.
func (s Summary) Average(metric string) Value {
	stat, ok := s[metric]
	if !ok {
		return None
	}
	return Some(stat.Average)
}

// Sum returns the metric sum, None when there is no statistic.
func (s Summary) Sum(metric string) Value {
	stat, ok := s[metric]
	if !ok {
		return None
	}
	return Some(stat.Sum)
}

// Insight describes the spread of one metric across sites.
type Insight struct {
	Metric    string  `json:"metric"`
	Average   float64 `json:"average"`
	Best      float64 `json:"best"`
	Worst     float64 `json:"worst"`
	BestSite  string  `json:"bestSite"`
	WorstSite string  `json:"worstSite"`
}
