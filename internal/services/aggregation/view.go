package aggregation

import "github.com/j-veylop/crux-dashboard-tui/internal/models"

// ColumnKind identifies what a table column shows.
type ColumnKind int

const (
	ColumnMetric ColumnKind = iota
	ColumnSite
	ColumnAverage
	ColumnSum
)

// Column is one column of the pivot table.
type Column struct {
	Key       string
	Title     string
	Kind      ColumnKind
	SiteIndex int
}

// Visible reports whether the column is shown under sel.
func (c Column) Visible(sel models.ColumnSelection) bool {
	switch c.Kind {
	case ColumnMetric:
		return sel.Metric
	case ColumnSite:
		return sel.SiteVisible(c.SiteIndex)
	case ColumnAverage:
		return sel.Average
	case ColumnSum:
		return sel.Sum
	}
	return false
}

// Toggle flips the visibility of the column in sel.
func (c Column) Toggle(sel models.ColumnSelection) models.ColumnSelection {
	switch c.Kind {
	case ColumnMetric:
		return sel.ToggleMetric()
	case ColumnSite:
		return sel.ToggleSite(c.SiteIndex)
	case ColumnAverage:
		return sel.ToggleAverage()
	case ColumnSum:
		return sel.ToggleSum()
	}
	return sel
}

// TableOptions controls how Table lays out columns.
type TableOptions struct {
	// ForceMetric always includes the metric column, as exports do.
	ForceMetric bool
}

// Table is a rendered pivot table: header titles and formatted cells.
type Table struct {
	Columns []Column
	Metrics []string
	Rows    [][]string
}

// Header returns the column titles.
func (t Table) Header() []string {
	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Title
	}
	return header
}

// View holds everything derived from one raw report. It is rebuilt whenever
// new raw data arrives and is read-only afterwards.
type View struct {
	Sites   []models.SiteReport
	Metrics []string
	Summary models.Summary
}

// NewView derives site reports, the metric universe and the summary.
func NewView(raw models.RawReport) *View {
	sites := BuildSiteReports(raw)
	metrics := MetricUniverse(sites)
	return &View{
		Sites:   sites,
		Metrics: metrics,
		Summary: ComputeSummary(metrics, sites),
	}
}

// Empty reports whether there is nothing to show.
func (v *View) Empty() bool {
	return len(v.Sites) == 0
}

// Rows applies the filter and then the sort of state to the metric universe.
func (v *View) Rows(state models.ViewState) []string {
	filtered := Filter(v.Metrics, state.Filter, v.Sites, v.Summary)
	return Sort(filtered, state.Sort, v.Sites, v.Summary)
}

// Columns lists every column of the table, visible or not, in display order.
func (v *View) Columns() []Column {
	cols := make([]Column, 0, len(v.Sites)+3)
	cols = append(cols, Column{Key: models.SortByMetric, Title: "Metric", Kind: ColumnMetric})
	for i, site := range v.Sites {
		cols = append(cols, Column{
			Key:       models.WebsiteSortKey(i),
			Title:     site.URL,
			Kind:      ColumnSite,
			SiteIndex: i,
		})
	}
	cols = append(cols,
		Column{Key: models.SortByAverage, Title: "Average", Kind: ColumnAverage},
		Column{Key: models.SortBySum, Title: "Sum", Kind: ColumnSum},
	)
	return cols
}

// Table builds the visible columns and formatted cells for state.
func (v *View) Table(state models.ViewState, opts TableOptions) Table {
	var cols []Column
	for _, col := range v.Columns() {
		if col.Visible(state.Columns) || (opts.ForceMetric && col.Kind == ColumnMetric) {
			cols = append(cols, col)
		}
	}

	metrics := v.Rows(state)
	rows := make([][]string, 0, len(metrics))
	for _, metric := range metrics {
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = v.cell(col, metric)
		}
		rows = append(rows, row)
	}

	return Table{Columns: cols, Metrics: metrics, Rows: rows}
}

func (v *View) cell(col Column, metric string) string {
	switch col.Kind {
	case ColumnMetric:
		return metric
	case ColumnSite:
		return models.FormatValue(v.Sites[col.SiteIndex].ValueOf(metric), metric)
	case ColumnAverage:
		return models.FormatValue(v.Summary.Average(metric), metric)
	case ColumnSum:
		return models.FormatValue(v.Summary.Sum(metric), metric)
	}
	return ""
}
