package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/j-veylop/crux-dashboard-tui/internal/services/aggregation"
)

const (
	pdfMargin     = 10.0
	pdfRowHeight  = 7.0
	pdfFontFamily = "Helvetica"
)

// WritePDF renders the document title and table as a PDF. Wide tables switch
// the page to landscape.
func WritePDF(w io.Writer, doc Document) error {
	orientation := "P"
	if len(doc.Table.Columns) > 4 {
		orientation = "L"
	}

	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("crux-dashboard-tui", true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(pdfFontFamily, "B", 16)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	header := doc.Table.Header()
	if len(header) > 0 {
		pageWidth, _ := pdf.GetPageSize()
		colWidth := (pageWidth - 2*pdfMargin) / float64(len(header))

		pdf.SetFont(pdfFontFamily, "B", 9)
		pdf.SetFillColor(224, 224, 224)
		for _, title := range header {
			pdf.CellFormat(colWidth, pdfRowHeight, fit(pdf, tr(title), colWidth), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont(pdfFontFamily, "", 9)
		for _, row := range doc.Table.Rows {
			for i, cell := range row {
				align := "R"
				if doc.Table.Columns[i].Kind == aggregation.ColumnMetric {
					align = "L"
				}
				pdf.CellFormat(colWidth, pdfRowHeight, fit(pdf, tr(cell), colWidth), "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// fit shortens s with an ellipsis until it fits in a cell of width w.
func fit(pdf *fpdf.Fpdf, s string, w float64) string {
	const padding = 2.0
	if pdf.GetStringWidth(s) <= w-padding {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > w-padding {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
