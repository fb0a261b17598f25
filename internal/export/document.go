// Package export writes the current report view to PDF and Markdown files.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/j-veylop/crux-dashboard-tui/internal/logger"
	"github.com/j-veylop/crux-dashboard-tui/internal/models"
	"github.com/j-veylop/crux-dashboard-tui/internal/services/aggregation"
	"github.com/j-veylop/crux-dashboard-tui/internal/services/insights"
)

// Title is the heading of every exported report.
const Title = "Data Report"

// Document is a snapshot of the report as the user currently sees it.
type Document struct {
	GeneratedAt     time.Time
	Title           string
	Table           aggregation.Table
	Insights        []models.Insight
	Recommendations []string
}

// NewDocument captures view under state. The metric column is always
// included regardless of the column selection.
func NewDocument(view *aggregation.View, state models.ViewState) Document {
	return Document{
		Title:           Title,
		GeneratedAt:     time.Now(),
		Table:           view.Table(state, aggregation.TableOptions{ForceMetric: true}),
		Insights:        insights.GenerateInsights(view.Metrics, view.Sites),
		Recommendations: insights.GenerateRecommendations(view.Metrics, view.Sites),
	}
}

// Writer renders a document to w.
type Writer func(w io.Writer, doc Document) error

// Save renders doc into dir/name through a temp file so a failed export
// never leaves a truncated report behind.
func Save(dir, name string, doc Document, write Writer) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, name)
	tmp, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
	}

	if err := write(tmp, doc); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return "", fmt.Errorf("failed to rename temp file: %w", err)
	}

	logger.Info("report exported", "path", path, "rows", len(doc.Table.Rows))
	return path, nil
}
