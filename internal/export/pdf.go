package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/pkordes/fleet-mileage/internal/domain"
)

// pdfTitle is the heading printed above the report table.
const pdfTitle = "Mileage Report"

// pdfColumns holds the abbreviated header labels and column widths (mm) for
// the A4 portrait table. Narrower labels than the CSV/XLSX ones keep eight
// columns legible on one page width.
var pdfColumns = []struct {
	label string
	width float64
}{
	{"ID", 12},
	{"Driver", 36},
	{"Plate", 24},
	{"Departure", 32},
	{"Arrival", 32},
	{"Start", 18},
	{"End", 18},
	{"Dist.", 18},
}

// WritePDF renders the records as an A4 table report with a grey header row
// and full gridlines. Driver names are truncated to 15 characters to keep
// rows on a single line, matching the other report formats' source data
// otherwise unchanged.
func WritePDF(w io.Writer, recs []domain.Record) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, pdfTitle, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 8, col.label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(245, 245, 220)
	for _, rec := range recs {
		cells := []string{
			fmt.Sprint(rec.ID),
			truncate(rec.Driver, 15),
			rec.Plate,
			rec.Departure,
			rec.Arrival,
			formatReading(rec.OdometerStart),
			formatReading(rec.OdometerEnd),
			formatReading(rec.Distance),
		}
		for i, cell := range cells {
			pdf.CellFormat(pdfColumns[i].width, 7, cell, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export.WritePDF: %w", err)
	}
	return nil
}

// truncate limits s to max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
