package service

import (
	"context"
	"fmt"

	"github.com/pkordes/fleet-mileage/internal/domain"
	"github.com/pkordes/fleet-mileage/internal/repo"
)

// ExportService assembles the read-only record snapshot consumed by the
// CSV, XLSX, and PDF renderers: every record, unfiltered, most recent
// departure first. Renderers must not mutate the snapshot or re-derive the
// distance — they render what the store committed.
type ExportService struct {
	store repo.Store
}

// NewExportService constructs an ExportService backed by the provided Store.
func NewExportService(store repo.Store) *ExportService {
	return &ExportService{store: store}
}

// Snapshot returns all records in export order.
// Always returns a non-nil slice so renderers can safely range over it.
func (s *ExportService) Snapshot(ctx context.Context) ([]domain.Record, error) {
	recs, err := s.store.Records().List(ctx, domain.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Snapshot: %w", err)
	}
	if recs == nil {
		return []domain.Record{}, nil
	}
	return recs, nil
}
