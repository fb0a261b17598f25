package models

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestPercentile_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		missing   bool
		numeric   bool
		malformed bool
		want      float64
	}{
		{name: "number", input: `2500`, numeric: true, want: 2500},
		{name: "fraction", input: `0.05`, numeric: true, want: 0.05},
		{name: "numeric string", input: `"0.12"`, numeric: true, want: 0.12},
		{name: "padded numeric string", input: `" 42 "`, numeric: true, want: 42},
		{name: "null", input: `null`, missing: true},
		{name: "word", input: `"fast"`, malformed: true},
		{name: "NaN string", input: `"NaN"`, malformed: true},
		{name: "object", input: `{"a":1}`, malformed: true},
		{name: "bool", input: `true`, malformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Percentile
			if err := json.Unmarshal([]byte(tt.input), &p); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if p.IsMissing() != tt.missing {
				t.Errorf("IsMissing() = %v, want %v", p.IsMissing(), tt.missing)
			}
			if p.IsNumeric() != tt.numeric {
				t.Errorf("IsNumeric() = %v, want %v", p.IsNumeric(), tt.numeric)
			}
			if p.IsMalformed() != tt.malformed {
				t.Errorf("IsMalformed() = %v, want %v", p.IsMalformed(), tt.malformed)
			}
			if tt.numeric {
				got, ok := p.Value().Numeric()
				if !ok || got != tt.want {
					t.Errorf("Value() = %v (ok=%v), want %v", got, ok, tt.want)
				}
			}
		})
	}
}

func TestNumericPercentile_NonFinite(t *testing.T) {
	if NumericPercentile(math.NaN()).IsNumeric() {
		t.Error("NaN should not be numeric")
	}
	if NumericPercentile(math.Inf(1)).IsNumeric() {
		t.Error("+Inf should not be numeric")
	}
}

func TestMetricData_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		wantPercentiles bool
		wantMissingP75  bool
	}{
		{name: "full", input: `{"percentiles":{"p75":1200}}`, wantPercentiles: true},
		{name: "no percentiles", input: `{"histogram":[]}`},
		{name: "percentiles not object", input: `{"percentiles":5}`},
		{name: "not an object", input: `"oops"`},
		{name: "null", input: `null`},
		{name: "no p75", input: `{"percentiles":{}}`, wantPercentiles: true, wantMissingP75: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m MetricData
			if err := json.Unmarshal([]byte(tt.input), &m); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if (m.Percentiles != nil) != tt.wantPercentiles {
				t.Errorf("Percentiles present = %v, want %v", m.Percentiles != nil, tt.wantPercentiles)
			}
			if !tt.wantPercentiles && !m.P75().IsMissing() {
				t.Error("P75() should be missing without percentiles")
			}
			if tt.wantMissingP75 && !m.P75().IsMissing() {
				t.Error("P75() should be missing")
			}
		})
	}
}

func TestSiteMetrics_PreservesKeyOrder(t *testing.T) {
	input := `{
		"largest_contentful_paint": {"percentiles": {"p75": 2500}},
		"cumulative_layout_shift": {"percentiles": {"p75": "0.05"}},
		"first_input_delay": {"percentiles": {"p75": 10}}
	}`

	var sm SiteMetrics
	if err := json.Unmarshal([]byte(input), &sm); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := []string{"largest_contentful_paint", "cumulative_layout_shift", "first_input_delay"}
	if got := sm.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	cls, ok := sm.Get("cumulative_layout_shift")
	if !ok {
		t.Fatal("Get(cumulative_layout_shift) not found")
	}
	if v, ok := cls.P75().Value().Numeric(); !ok || v != 0.05 {
		t.Errorf("cls p75 = %v (ok=%v), want 0.05", v, ok)
	}
}

func TestSiteMetrics_ZeroValue(t *testing.T) {
	var sm SiteMetrics
	if sm.Len() != 0 {
		t.Errorf("Len() = %d, want 0", sm.Len())
	}
	if _, ok := sm.Get("x"); ok {
		t.Error("Get() on zero value should miss")
	}

	sm.Set("x", MetricData{})
	if sm.Len() != 1 {
		t.Errorf("Len() after Set = %d, want 1", sm.Len())
	}
}

func TestRawReport_JSONRoundTripKeepsOrder(t *testing.T) {
	input := `{"https://b.com":{"ttfb":{"percentiles":{"p75":800}}},"https://a.com":{}}`

	var r RawReport
	if err := json.Unmarshal([]byte(input), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := []string{"https://b.com", "https://a.com"}
	if got := r.URLs(); !reflect.DeepEqual(got, want) {
		t.Errorf("URLs() = %v, want %v", got, want)
	}

	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != input {
		t.Errorf("Marshal() = %s, want %s", out, input)
	}
}

func TestRawReport_AddReplacesDuplicate(t *testing.T) {
	first := NewSiteMetrics()
	first.Set("a", MetricData{})
	second := NewSiteMetrics()

	r := NewRawReport(
		RawSite{URL: "x", Metrics: first},
		RawSite{URL: "y", Metrics: first},
		RawSite{URL: "x", Metrics: second},
	)

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	if got := r.Sites()[0].Metrics.Len(); got != 0 {
		t.Errorf("replaced site has %d metrics, want 0", got)
	}
}
