// Package handler implements the HTTP handlers for the fleet mileage API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (record.go, export.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/fleet-mileage/internal/domain"
)

// RecordServicer defines the business operations the record handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type RecordServicer interface {
	Create(ctx context.Context, draft domain.RecordDraft) (domain.Record, error)
	Get(ctx context.Context, id int64) (domain.Record, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Record, error)
	Update(ctx context.Context, id int64, patch domain.RecordPatch) (domain.Record, error)
	Delete(ctx context.Context, id int64) error
	History(ctx context.Context, id int64) ([]domain.AuditEntry, error)
}

// ExportServicer provides the read-only record snapshot the report downloads
// render from.
type ExportServicer interface {
	Snapshot(ctx context.Context) ([]domain.Record, error)
}

// Server holds the handler dependencies for all API endpoints.
// Wire it into a router via Routes.
type Server struct {
	records RecordServicer
	export  ExportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(records RecordServicer, export ExportServicer) *Server {
	return &Server{records: records, export: export}
}

// Routes registers every endpoint on a fresh chi router.
// Mount the result under "/" in main.go.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/records", func(r chi.Router) {
			r.Get("/", s.ListRecords)
			r.Post("/", s.CreateRecord)
			r.Route("/{id:[0-9]+}", func(r chi.Router) {
				r.Get("/", s.GetRecord)
				r.Put("/", s.UpdateRecord)
				r.Delete("/", s.DeleteRecord)
				r.Get("/history", s.GetRecordHistory)
			})
		})

		r.Route("/export", func(r chi.Router) {
			r.Get("/csv", s.ExportCSV)
			r.Get("/xlsx", s.ExportXLSX)
			r.Get("/pdf", s.ExportPDF)
		})

		r.Get("/qrcode", s.GetQRCode)
	})

	return r
}

// recordID extracts the {id} path parameter. The route pattern restricts it
// to digits, so parsing only fails on out-of-range values.
func recordID(r *http.Request) (int64, bool) {
	id, err := parseID(chi.URLParam(r, "id"))
	return id, err == nil
}
