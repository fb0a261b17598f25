package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Sort keys understood by the aggregation engine.
const (
	SortByMetric  = "metric"
	SortByAverage = "average"
	SortBySum     = "sum"

	websiteSortPrefix = "website_"
)

// WebsiteSortKey returns the sort key for the site at index i.
func WebsiteSortKey(i int) string {
	return fmt.Sprintf("%s%d", websiteSortPrefix, i)
}

// ParseWebsiteSortKey extracts the site index from a "website_<i>" key.
func ParseWebsiteSortKey(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, websiteSortPrefix)
	if !ok || rest == "" {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// SortDirection is ascending or descending.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortState is the active sort column and direction.
type SortState struct {
	OrderBy   string
	Direction SortDirection
}

// DefaultSort is the unsorted state: rows keep their metric universe order.
func DefaultSort() SortState {
	return SortState{Direction: Ascending}
}

// Toggle selects key. Repeating an ascending key flips it to descending;
// anything else sorts ascending.
func (s SortState) Toggle(key string) SortState {
	if s.OrderBy == key && s.Direction == Ascending {
		return SortState{OrderBy: key, Direction: Descending}
	}
	return SortState{OrderBy: key, Direction: Ascending}
}

// ColumnSelection tracks which table columns are visible.
type ColumnSelection struct {
	Sites   map[int]bool
	Metric  bool
	Average bool
	Sum     bool
}

// DefaultColumns shows every column for siteCount sites.
func DefaultColumns(siteCount int) ColumnSelection {
	sites := make(map[int]bool, siteCount)
	for i := range siteCount {
		sites[i] = true
	}
	return ColumnSelection{Sites: sites, Metric: true, Average: true, Sum: true}
}

// SiteVisible reports whether the site column at index i is shown.
func (c ColumnSelection) SiteVisible(i int) bool {
	return c.Sites[i]
}

// ToggleSite flips the visibility of site column i.
func (c ColumnSelection) ToggleSite(i int) ColumnSelection {
	sites := make(map[int]bool, len(c.Sites))
	for k, v := range c.Sites {
		sites[k] = v
	}
	sites[i] = !sites[i]
	c.Sites = sites
	return c
}

// ToggleMetric flips the visibility of the metric column.
func (c ColumnSelection) ToggleMetric() ColumnSelection {
	c.Metric = !c.Metric
	return c
}

// ToggleAverage flips the visibility of the average column.
func (c ColumnSelection) ToggleAverage() ColumnSelection {
	c.Average = !c.Average
	return c
}

// ToggleSum flips the visibility of the sum column.
func (c ColumnSelection) ToggleSum() ColumnSelection {
	c.Sum = !c.Sum
	return c
}

// ViewState is everything the user controls about the results table.
type ViewState struct {
	Filter  string
	Sort    SortState
	Columns ColumnSelection
}

// NewViewState returns the initial state for a report with siteCount sites.
func NewViewState(siteCount int) ViewState {
	return ViewState{Sort: DefaultSort(), Columns: DefaultColumns(siteCount)}
}

// WithFilter returns a copy with the filter text replaced.
func (v ViewState) WithFilter(filter string) ViewState {
	v.Filter = filter
	return v
}

// WithSort returns a copy with key toggled as the sort column.
func (v ViewState) WithSort(key string) ViewState {
	v.Sort = v.Sort.Toggle(key)
	return v
}

// WithColumns returns a copy with the column selection replaced.
func (v ViewState) WithColumns(columns ColumnSelection) ViewState {
	v.Columns = columns
	return v
}

// ResetSites makes all siteCount site columns visible again and keeps the
// other columns as they were.
func (v ViewState) ResetSites(siteCount int) ViewState {
	columns := DefaultColumns(siteCount)
	columns.Metric = v.Columns.Metric
	columns.Average = v.Columns.Average
	columns.Sum = v.Columns.Sum
	v.Columns = columns
	return v
}
