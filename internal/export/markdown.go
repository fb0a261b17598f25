package export

import (
	"fmt"
	"io"

	"github.com/nao1215/markdown"

	"github.com/j-veylop/crux-dashboard-tui/internal/services/insights"
)

// WriteMarkdown renders the document as GitHub-flavored Markdown: the table
// followed by insights and recommendations.
func WriteMarkdown(w io.Writer, doc Document) error {
	md := markdown.NewMarkdown(w)

	md.H1(doc.Title)
	md.PlainText("")
	md.PlainText(fmt.Sprintf("Generated %s", doc.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	md.PlainText("")

	if len(doc.Table.Rows) == 0 {
		md.Note("No metrics match the current view.")
	} else {
		md.Table(markdown.TableSet{
			Header: doc.Table.Header(),
			Rows:   doc.Table.Rows,
		})
	}
	md.PlainText("")

	md.H2("Insights")
	md.PlainText("")
	if len(doc.Insights) == 0 {
		md.PlainText("No insights available.")
	} else {
		lines := make([]string, len(doc.Insights))
		for i, in := range doc.Insights {
			lines[i] = insights.Describe(in)
		}
		md.BulletList(lines...)
	}
	md.PlainText("")

	md.H2("Recommendations")
	md.PlainText("")
	if len(doc.Recommendations) == 0 {
		md.Tip("Every site is within 20% of the average for each metric.")
	} else {
		md.BulletList(doc.Recommendations...)
	}

	if err := md.Build(); err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	return nil
}
