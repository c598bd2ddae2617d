// Package handler — export.go implements the report download endpoints.
// Each endpoint renders the full unfiltered record snapshot; the renderers
// never touch the store directly and never recompute derived fields.
package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/pkordes/fleet-mileage/internal/domain"
	"github.com/pkordes/fleet-mileage/internal/export"
)

// ExportCSV handles GET /api/export/csv.
func (s *Server) ExportCSV(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, "mileage.csv", "text/csv; charset=utf-8", export.WriteCSV)
}

// ExportXLSX handles GET /api/export/xlsx.
func (s *Server) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, "mileage.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.WriteXLSX)
}

// ExportPDF handles GET /api/export/pdf.
func (s *Server) ExportPDF(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, "mileage.pdf", "application/pdf", export.WritePDF)
}

// serveExport fetches the snapshot, renders it into a buffer, and serves the
// result as an attachment. Rendering into memory first keeps a renderer
// failure from leaking a half-written download to the client.
func (s *Server) serveExport(w http.ResponseWriter, r *http.Request, filename, contentType string, render func(w io.Writer, recs []domain.Record) error) {
	recs, err := s.export.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, recs); err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = buf.WriteTo(w)
}

// GetQRCode handles GET /api/qrcode.
// Encodes the ?url= parameter (defaulting to this server's base URL) as a
// PNG QR code.
func (s *Server) GetQRCode(w http.ResponseWriter, r *http.Request) {
	content := r.URL.Query().Get("url")
	if content == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		content = scheme + "://" + r.Host + "/"
	}

	png, err := export.EncodeQR(content)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
