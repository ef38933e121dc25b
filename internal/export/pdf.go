// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/pdiddy/assignment-digest/pkg/types"
)

// pdfWidths are column widths in millimetres on landscape A4.
var pdfWidths = []float64{45, 60, 95, 20, 40}

const pdfRowHeight = 7

func writePDF(w io.Writer, rows []types.SummaryRow) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Assignment summary", true)
	pdf.SetAutoPageBreak(true, 12)

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, c := range columns {
			pdf.CellFormat(pdfWidths[i], pdfRowHeight, c, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	pdf.SetHeaderFunc(header)
	pdf.AddPage()

	for _, r := range rows {
		for i, v := range cells(r) {
			pdf.CellFormat(pdfWidths[i], pdfRowHeight, fit(pdf, tr, v, pdfWidths[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

// fit translates s for the core fonts and shortens it with a trailing
// ellipsis until it fits in width.
func fit(pdf *gofpdf.Fpdf, tr func(string) string, s string, width float64) string {
	const pad = 2
	if out := tr(s); pdf.GetStringWidth(out) <= width-pad {
		return out
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(tr(string(r)+"...")) > width-pad {
		r = r[:len(r)-1]
	}
	return tr(string(r) + "...")
}
