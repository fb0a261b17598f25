package crux

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/crux-dashboard-tui/internal/logger"
	"github.com/j-veylop/crux-dashboard-tui/internal/models"
)

// UnexpectedMessage is shown when a search fails outside of any single URL.
const UnexpectedMessage = "Unexpected error. Please try again."

// ErrUnexpected marks failures of the fan-out itself rather than of a URL.
var ErrUnexpected = errors.New("unexpected error")

// Failure records why one URL could not be fetched.
type Failure struct {
	Err error
	URL string
}

// Result is the merged outcome of fetching many URLs.
type Result struct {
	Report    models.RawReport
	Succeeded []string
	Failed    []Failure
	Duration  time.Duration
}

// HasFailures reports whether any URL failed.
func (r Result) HasFailures() bool {
	return len(r.Failed) > 0
}

// FailedURLs returns the failed URLs in input order.
func (r Result) FailedURLs() []string {
	urls := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		urls[i] = f.URL
	}
	return urls
}

// FailureMessage names every failed URL, or returns "" when none failed.
func (r Result) FailureMessage() string {
	if !r.HasFailures() {
		return ""
	}
	return fmt.Sprintf("Error fetching data for the following URL(s): %s. Please try again.",
		strings.Join(r.FailedURLs(), ", "))
}

// Requester fetches reports for many URLs at once.
type Requester struct {
	fetcher Fetcher
}

// NewRequester creates a requester backed by fetcher.
func NewRequester(fetcher Fetcher) *Requester {
	return &Requester{fetcher: fetcher}
}

type outcome struct {
	err     error
	metrics models.SiteMetrics
}

// FetchAll requests every URL concurrently and waits for all of them. A
// failing URL never stops the others; its error is recorded in the result.
// The returned error wraps ErrUnexpected and is only set when the fan-out
// itself broke down.
func (r *Requester) FetchAll(ctx context.Context, urls []string) (res Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = Result{}
			err = fmt.Errorf("%w: %v", ErrUnexpected, p)
		}
	}()

	start := time.Now()
	logger.Info("fetching reports", "urls", len(urls))

	// Pre-allocate outcomes to keep input order
	outcomes := make([]outcome, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("%w: fetching %s: %v", ErrUnexpected, url, p)
				}
			}()

			metrics, fetchErr := r.fetcher.FetchReport(gctx, url)
			outcomes[i] = outcome{metrics: metrics, err: fetchErr}
			if fetchErr != nil {
				logger.Warn("report request failed", "url", url, "error", fetchErr)
			}
			// Per-URL failures are recorded, not returned, so siblings keep running
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	for i, url := range urls {
		o := outcomes[i]
		if o.err != nil {
			res.Failed = append(res.Failed, Failure{URL: url, Err: o.err})
			continue
		}
		res.Report.Add(url, o.metrics)
		res.Succeeded = append(res.Succeeded, url)
	}
	res.Duration = time.Since(start)

	logger.Info("reports fetched",
		"succeeded", len(res.Succeeded),
		"failed", len(res.Failed),
		"duration", res.Duration,
	)
	return res, nil
}
