package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/j-veylop/crux-dashboard-tui/internal/config"
	"github.com/j-veylop/crux-dashboard-tui/internal/export"
	"github.com/j-veylop/crux-dashboard-tui/internal/logger"
	"github.com/j-veylop/crux-dashboard-tui/internal/models"
	"github.com/j-veylop/crux-dashboard-tui/internal/services/aggregation"
	"github.com/j-veylop/crux-dashboard-tui/internal/services/crux"
	"github.com/j-veylop/crux-dashboard-tui/internal/services/insights"
	"github.com/j-veylop/crux-dashboard-tui/internal/services/urls"
)

// reportOptions holds the flags of the report command.
type reportOptions struct {
	input    string
	pdf      string
	markdown string
	filter   string
	sortBy   string
	desc     bool
	quiet    bool
}

// NewReportCmd creates the headless report command.
func NewReportCmd() *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report [urls...]",
		Short: "Fetch metrics and print the report table",
		Long: `Fetch CrUX metrics for the given URLs and print the comparison table,
insights and recommendations. Without URLs, the CRUX_URLS_FILE seed file is
used. With --input, a saved backend response of the form
{"<url>": {"<metric>": {"percentiles": {"p75": ...}}}} is read instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Setup(cmd.ErrOrStderr(), logLevel(cmd))

			if opts.input != "" && len(args) > 0 {
				return errors.New("--input cannot be combined with URL arguments")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			raw, err := loadReport(ctx, cmd.ErrOrStderr(), args, opts)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), raw, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Read a saved backend response instead of fetching")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "Also write the report as PDF to this path")
	cmd.Flags().StringVar(&opts.markdown, "markdown", "", "Also write the report as Markdown to this path")
	cmd.Flags().StringVarP(&opts.filter, "filter", "f", "", "Only show rows containing this text")
	cmd.Flags().StringVarP(&opts.sortBy, "sort", "s", "", "Sort by metric, average, sum or website_<n>")
	cmd.Flags().BoolVar(&opts.desc, "desc", false, "Sort descending")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Print only the table")

	return cmd
}

// loadReport reads the input file or fetches every URL. Partial failures
// are reported on errOut; the command fails only when nothing was fetched.
func loadReport(ctx context.Context, errOut io.Writer, args []string, opts *reportOptions) (models.RawReport, error) {
	if opts.input != "" {
		return readReportFile(opts.input)
	}

	cfg, err := config.Load()
	if err != nil {
		return models.RawReport{}, fmt.Errorf("failed to load configuration: %w", err)
	}

	list := urls.NewList(args...)
	if list.Len() == 0 && cfg.URLsFile != "" {
		seeded, err := urls.LoadFile(cfg.URLsFile)
		if err != nil {
			return models.RawReport{}, err
		}
		list = urls.NewList(seeded...)
	}
	if list.Len() == 0 {
		return models.RawReport{}, errors.New("no URLs given")
	}

	requester := crux.NewRequester(crux.NewClient(cfg.BackendURL, cfg.RequestTimeout))
	res, err := requester.FetchAll(ctx, list.URLs())
	if err != nil {
		logger.Error("search failed", "error", err)
		return models.RawReport{}, errors.New(crux.UnexpectedMessage)
	}

	if res.HasFailures() {
		fmt.Fprintln(errOut, res.FailureMessage())
		if len(res.Succeeded) == 0 {
			return models.RawReport{}, errors.New("no report could be fetched")
		}
	}
	return res.Report, nil
}

func readReportFile(path string) (models.RawReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.RawReport{}, fmt.Errorf("failed to read input: %w", err)
	}

	var raw models.RawReport
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.RawReport{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return raw, nil
}

// viewState builds the filter and sort of the command flags.
func (o *reportOptions) viewState(siteCount int) (models.ViewState, error) {
	vs := models.NewViewState(siteCount).WithFilter(o.filter)
	if o.sortBy == "" {
		return vs, nil
	}

	switch o.sortBy {
	case models.SortByMetric, models.SortByAverage, models.SortBySum:
	default:
		i, ok := models.ParseWebsiteSortKey(o.sortBy)
		if !ok || i >= siteCount {
			return vs, fmt.Errorf("unknown sort column %q", o.sortBy)
		}
	}

	vs = vs.WithSort(o.sortBy)
	if o.desc {
		vs = vs.WithSort(o.sortBy)
	}
	return vs, nil
}

// writeReport prints the table and, unless quiet, the insights and
// recommendations, then writes the requested exports.
func writeReport(out io.Writer, raw models.RawReport, opts *reportOptions) error {
	view := aggregation.NewView(raw)
	if view.Empty() {
		return errors.New("report is empty")
	}

	vs, err := opts.viewState(len(view.Sites))
	if err != nil {
		return err
	}

	tbl := view.Table(vs, aggregation.TableOptions{ForceMetric: true})
	if err := printTable(out, tbl); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	if !opts.quiet {
		printInsights(out, view)
	}

	doc := export.NewDocument(view, vs)
	for _, target := range []struct {
		path  string
		write export.Writer
	}{
		{opts.pdf, export.WritePDF},
		{opts.markdown, export.WriteMarkdown},
	} {
		if target.path == "" {
			continue
		}
		path, err := export.Save(filepath.Dir(target.path), filepath.Base(target.path), doc, target.write)
		if err != nil {
			return err
		}
		logger.Info("report exported", "path", path)
	}

	return nil
}

func printTable(out io.Writer, tbl aggregation.Table) error {
	table := tablewriter.NewWriter(out)
	table.Header(tbl.Header())

	align := make([]tw.Align, len(tbl.Columns))
	for i, col := range tbl.Columns {
		align[i] = tw.AlignRight
		if col.Kind == aggregation.ColumnMetric {
			align[i] = tw.AlignLeft
		}
	}
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Header.Formatting.AutoFormat = tw.Off
		cfg.Row.Alignment.PerColumn = align
	})

	if err := table.Bulk(tbl.Rows); err != nil {
		return err
	}
	return table.Render()
}

func printInsights(out io.Writer, view *aggregation.View) {
	found := insights.GenerateInsights(view.Metrics, view.Sites)
	if len(found) > 0 {
		fmt.Fprintln(out, "\nInsights")
		for _, in := range found {
			fmt.Fprintln(out, "  "+insights.Describe(in))
		}
	}

	recs := insights.GenerateRecommendations(view.Metrics, view.Sites)
	if len(recs) > 0 {
		fmt.Fprintln(out, "\nRecommendations")
		for _, rec := range recs {
			fmt.Fprintln(out, "  "+rec)
		}
	}
}
