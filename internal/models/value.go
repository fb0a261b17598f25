package models

import (
	"math"
	"strconv"
	"strings"
)

// NotAvailable is rendered for values that cannot be shown as a number.
const NotAvailable = "N/A"

// CumulativeLayoutShift is the one metric displayed with four decimals.
const CumulativeLayoutShift = "cumulative_layout_shift"

// Value is an optional metric value.
type Value struct {
	Float float64
	OK    bool
}

// None is the absent value.
var None = Value{}

// Some wraps a present value.
func Some(f float64) Value {
	return Value{Float: f, OK: true}
}

// Numeric returns the value when it is present and finite.
func (v Value) Numeric() (float64, bool) {
	if !v.OK || math.IsNaN(v.Float) || math.IsInf(v.Float, 0) {
		return 0, false
	}
	return v.Float, true
}

// OrZero returns the numeric value, or 0 when there is none.
func (v Value) OrZero() float64 {
	f, _ := v.Numeric()
	return f
}

// FormatValue renders a metric value for display.
func FormatValue(v Value, metric string) string {
	f, ok := v.Numeric()
	if !ok {
		return NotAvailable
	}
	if metric == CumulativeLayoutShift {
		return strconv.FormatFloat(f, 'f', 4, 64)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// FormatFloat is FormatValue for a bare float.
func FormatFloat(f float64, metric string) string {
	return FormatValue(Some(f), metric)
}

// HumanizeMetric turns "largest_contentful_paint" into
// "largest contentful paint".
func HumanizeMetric(metric string) string {
	return strings.ReplaceAll(metric, "_", " ")
}
