package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pkordes/fleet-mileage/internal/domain"
)

// sheetName is the title of the single worksheet in the XLSX export.
const sheetName = "Mileage"

// WriteXLSX renders the records as a styled spreadsheet: bold white header
// row on a blue fill, one row per record, and column widths sized to the
// longest cell (capped at 50 characters).
func WriteXLSX(w io.Writer, recs []domain.Record) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck — in-memory workbook, nothing to release

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("export.WriteXLSX: header style: %w", err)
	}

	widths := make([]int, len(columnHeaders))
	for col, header := range columnHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("export.WriteXLSX: header cell: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("export.WriteXLSX: header cell style: %w", err)
		}
		widths[col] = len(header)
	}

	for row, rec := range recs {
		values := []any{
			rec.ID, rec.Driver, rec.Plate, rec.Departure, rec.Arrival,
			rec.OdometerStart, rec.OdometerEnd, rec.Distance, rec.Notes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("export.WriteXLSX: cell %s: %w", cell, err)
			}
			if n := len(fmt.Sprint(v)); n > widths[col] {
				widths[col] = n
			}
		}
	}

	for col, width := range widths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		w := float64(width + 2)
		if w > 50 {
			w = 50
		}
		if err := f.SetColWidth(sheetName, name, name, w); err != nil {
			return fmt.Errorf("export.WriteXLSX: column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export.WriteXLSX: write: %w", err)
	}
	return nil
}
