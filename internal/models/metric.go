// Package models defines data structures and domain types.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// percentileState tags which variant a Percentile holds.
type percentileState int

const (
	percentileMissing percentileState = iota
	percentileNumeric
	percentileMalformed
)

// Percentile is a decoded percentile reading. It is Missing when the key is
// absent or null, Numeric when it holds a finite number (or a numeric string),
// and Malformed when a value is present but cannot be read as a number.
type Percentile struct {
	raw   json.RawMessage
	value float64
	state percentileState
}

// NumericPercentile returns a Numeric percentile holding v.
func NumericPercentile(v float64) Percentile {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Percentile{state: percentileMalformed, raw: json.RawMessage(strconv.Quote(fmt.Sprint(v)))}
	}
	return Percentile{state: percentileNumeric, value: v}
}

// MalformedPercentile returns a Malformed percentile for the given raw JSON.
func MalformedPercentile(raw string) Percentile {
	return Percentile{state: percentileMalformed, raw: json.RawMessage(raw)}
}

// IsMissing reports whether no reading was present.
func (p Percentile) IsMissing() bool { return p.state == percentileMissing }

// IsNumeric reports whether the reading is a usable number.
func (p Percentile) IsNumeric() bool { return p.state == percentileNumeric }

// IsMalformed reports whether a reading was present but not numeric.
func (p Percentile) IsMalformed() bool { return p.state == percentileMalformed }

// Value converts the percentile into an optional float.
func (p Percentile) Value() Value {
	if p.state != percentileNumeric {
		return None
	}
	return Some(p.value)
}

// UnmarshalJSON decodes numbers, numeric strings and null. Anything else is
// kept as a Malformed reading rather than failing the whole report.
func (p *Percentile) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = Percentile{}
		return nil
	}

	var decoded any
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return fmt.Errorf("failed to decode percentile: %w", err)
	}

	switch v := decoded.(type) {
	case float64:
		*p = NumericPercentile(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			*p = MalformedPercentile(string(trimmed))
			return nil
		}
		*p = NumericPercentile(f)
	default:
		*p = MalformedPercentile(string(trimmed))
	}
	return nil
}

// MarshalJSON writes the reading back in its original shape.
func (p Percentile) MarshalJSON() ([]byte, error) {
	switch p.state {
	case percentileNumeric:
		return []byte(strconv.FormatFloat(p.value, 'g', -1, 64)), nil
	case percentileMalformed:
		if len(p.raw) > 0 {
			return p.raw, nil
		}
	}
	return []byte("null"), nil
}

// Percentiles holds the percentile readings of a metric. Only p75 is used.
type Percentiles struct {
	P75 Percentile `json:"p75"`
}

// MetricData is one metric entry of a CrUX record.
type MetricData struct {
	Percentiles *Percentiles `json:"percentiles,omitempty"`
}

// P75 returns the p75 reading, Missing when the metric has no percentiles.
func (m MetricData) P75() Percentile {
	if m.Percentiles == nil {
		return Percentile{}
	}
	return m.Percentiles.P75
}

// UnmarshalJSON tolerates metric entries that are not objects, or whose
// percentiles are not an object, by decoding them as having no percentiles.
func (m *MetricData) UnmarshalJSON(data []byte) error {
	*m = MetricData{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil
	}

	rawPercentiles, ok := fields["percentiles"]
	if !ok {
		return nil
	}

	var percentiles map[string]json.RawMessage
	if err := json.Unmarshal(rawPercentiles, &percentiles); err != nil || percentiles == nil {
		return nil
	}

	m.Percentiles = &Percentiles{}
	if rawP75, ok := percentiles["p75"]; ok {
		if err := m.Percentiles.P75.UnmarshalJSON(rawP75); err != nil {
			return err
		}
	}
	return nil
}

// SiteMetrics maps metric names to their data, keeping the key order of the
// JSON object it was decoded from. The zero value is an empty set.
type SiteMetrics struct {
	om *orderedmap.OrderedMap[string, MetricData]
}

// NewSiteMetrics returns an empty, ordered metric set.
func NewSiteMetrics() SiteMetrics {
	return SiteMetrics{om: orderedmap.New[string, MetricData]()}
}

// Set stores a metric. Re-setting an existing name keeps its position.
func (s *SiteMetrics) Set(name string, data MetricData) {
	if s.om == nil {
		s.om = orderedmap.New[string, MetricData]()
	}
	s.om.Set(name, data)
}

// Get returns the metric with the given name.
func (s SiteMetrics) Get(name string) (MetricData, bool) {
	if s.om == nil {
		return MetricData{}, false
	}
	return s.om.Get(name)
}

// Len returns the number of metrics.
func (s SiteMetrics) Len() int {
	if s.om == nil {
		return 0
	}
	return s.om.Len()
}

// Each calls fn for every metric in order.
func (s SiteMetrics) Each(fn func(name string, data MetricData)) {
	if s.om == nil {
		return
	}
	for pair := s.om.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Names returns the metric names in order.
func (s SiteMetrics) Names() []string {
	names := make([]string, 0, s.Len())
	s.Each(func(name string, _ MetricData) {
		names = append(names, name)
	})
	return names
}

// UnmarshalJSON decodes a JSON object while preserving key order.
func (s *SiteMetrics) UnmarshalJSON(data []byte) error {
	om := orderedmap.New[string, MetricData]()
	if trimmed := bytes.TrimSpace(data); !bytes.Equal(trimmed, []byte("null")) {
		if err := om.UnmarshalJSON(trimmed); err != nil {
			return fmt.Errorf("failed to decode site metrics: %w", err)
		}
	}
	s.om = om
	return nil
}

// MarshalJSON encodes the metrics as a JSON object in order.
func (s SiteMetrics) MarshalJSON() ([]byte, error) {
	if s.om == nil {
		return []byte("{}"), nil
	}
	return s.om.MarshalJSON()
}

// RawSite is the raw CrUX record for one site.
type RawSite struct {
	URL     string
	Metrics SiteMetrics
}

// RawReport is the raw input to the aggregation engine: one record per site,
// in the order the sites were submitted.
type RawReport struct {
	sites []RawSite
}

// NewRawReport builds a report from the given sites. Later duplicates replace
// earlier ones in place.
func NewRawReport(sites ...RawSite) RawReport {
	var r RawReport
	for _, site := range sites {
		r.Add(site.URL, site.Metrics)
	}
	return r
}

// Add appends a site, or replaces the metrics of an already present URL.
func (r *RawReport) Add(url string, metrics SiteMetrics) {
	for i := range r.sites {
		if r.sites[i].URL == url {
			r.sites[i].Metrics = metrics
			return
		}
	}
	r.sites = append(r.sites, RawSite{URL: url, Metrics: metrics})
}

// Sites returns a copy of the site records in order.
func (r RawReport) Sites() []RawSite {
	sites := make([]RawSite, len(r.sites))
	copy(sites, r.sites)
	return sites
}

// URLs returns the site URLs in order.
func (r RawReport) URLs() []string {
	urls := make([]string, len(r.sites))
	for i, site := range r.sites {
		urls[i] = site.URL
	}
	return urls
}

// Len returns the number of sites.
func (r RawReport) Len() int {
	return len(r.sites)
}

// UnmarshalJSON decodes `{ "<url>": { "<metric>": {...} } }` keeping order.
func (r *RawReport) UnmarshalJSON(data []byte) error {
	om := orderedmap.New[string, SiteMetrics]()
	if err := om.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("failed to decode report: %w", err)
	}

	r.sites = make([]RawSite, 0, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		r.sites = append(r.sites, RawSite{URL: pair.Key, Metrics: pair.Value})
	}
	return nil
}

// MarshalJSON encodes the report as a JSON object keyed by URL.
func (r RawReport) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, SiteMetrics]()
	for _, site := range r.sites {
		om.Set(site.URL, site.Metrics)
	}
	return om.MarshalJSON()
}
