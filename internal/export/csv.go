// Package export renders the read-only record snapshot into the downloadable
// report formats (CSV, XLSX, PDF) and generates QR code images.
// Renderers consume records as-is; the distance column is whatever the store
// committed, never recomputed here.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pkordes/fleet-mileage/internal/domain"
)

// columnHeaders defines the column names shared by every report format,
// written in this exact order.
var columnHeaders = []string{
	"ID", "Driver", "Plate", "Departure", "Arrival",
	"Start Odometer", "End Odometer", "Distance", "Notes",
}

// utf8BOM makes spreadsheet applications detect the encoding of the CSV
// download instead of guessing a legacy codepage.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV renders the records as a CSV document prefixed with a UTF-8 BOM.
func WriteCSV(w io.Writer, recs []domain.Record) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("export.WriteCSV: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columnHeaders); err != nil {
		return fmt.Errorf("export.WriteCSV: header: %w", err)
	}
	for _, rec := range recs {
		if err := cw.Write(csvRecord(rec)); err != nil {
			return fmt.Errorf("export.WriteCSV: row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export.WriteCSV: flush: %w", err)
	}
	return nil
}

// csvRecord encodes one record as a flat string slice in column order.
func csvRecord(rec domain.Record) []string {
	return []string{
		strconv.FormatInt(rec.ID, 10),
		rec.Driver,
		rec.Plate,
		rec.Departure,
		rec.Arrival,
		formatReading(rec.OdometerStart),
		formatReading(rec.OdometerEnd),
		formatReading(rec.Distance),
		rec.Notes,
	}
}

// formatReading renders a float column in its shortest round-tripping form.
func formatReading(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
