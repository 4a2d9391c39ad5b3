package export

import (
	"bytes"
	"exam_system_backend/internal/repository"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// column widths in mm for landscape A4, same order as Header
var pdfWidths = []float64{24, 40, 34, 26, 18, 18, 18, 18, 34, 34}

// PDF renders the rows as a landscape table. title is printed above it.
func PDF(title string, rows []repository.ResultRow, loc *time.Location) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 10, tr(title), "", "L", false)
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(0, 6, fmt.Sprintf("%d result(s)", len(rows)), "", "L", false)
	pdf.Ln(2)

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range Header {
			pdf.CellFormat(pdfWidths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, r := range rows {
		if pdf.GetY()+6 > pageHeight-bottom-12 {
			pdf.AddPage()
			header()
		}
		for i, v := range Record(r, loc) {
			pdf.CellFormat(pdfWidths[i], 6, fit(pdf, tr(v), pdfWidths[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit shortens s until it fits a cell of width w.
func fit(pdf *gofpdf.Fpdf, s string, w float64) string {
	const pad = 2
	if pdf.GetStringWidth(s) <= w-pad {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w-pad {
		s = s[:len(s)-1]
	}
	return s + "..."
}
