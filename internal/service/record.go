// Package service contains the business logic for the fleet mileage API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkordes/fleet-mileage/internal/domain"
	"github.com/pkordes/fleet-mileage/internal/repo"
)

// RecordService implements business logic for trip record operations.
// It owns the record invariants: the end odometer may never be below the
// start odometer, and the stored distance always equals end minus start.
type RecordService struct {
	store repo.Store

	// now is swapped out in tests for deterministic timestamps.
	now func() time.Time
}

// NewRecordService constructs a RecordService backed by the provided Store.
func NewRecordService(store repo.Store) *RecordService {
	return &RecordService{store: store, now: time.Now}
}

// Create validates and persists a new record.
// The distance is computed here and the creation timestamp stamped; no audit
// entries are written — history begins at the first edit.
func (s *RecordService) Create(ctx context.Context, draft domain.RecordDraft) (domain.Record, error) {
	if err := validateDraft(draft); err != nil {
		return domain.Record{}, err
	}

	rec := domain.Record{
		Driver:        draft.Driver,
		Plate:         draft.Plate,
		Departure:     draft.Departure,
		Arrival:       draft.Arrival,
		OdometerStart: *draft.OdometerStart,
		OdometerEnd:   *draft.OdometerEnd,
		Distance:      *draft.OdometerEnd - *draft.OdometerStart,
		Notes:         draft.Notes,
		CreatedAt:     s.now().UTC(),
	}

	id, err := s.store.Records().Create(ctx, rec)
	if err != nil {
		return domain.Record{}, fmt.Errorf("service.RecordService.Create: %w", err)
	}
	rec.ID = id
	return rec, nil
}

// Get returns a single record by ID.
func (s *RecordService) Get(ctx context.Context, id int64) (domain.Record, error) {
	rec, err := s.store.Records().GetByID(ctx, id)
	if err != nil {
		return domain.Record{}, fmt.Errorf("service.RecordService.Get: %w", err)
	}
	return rec, nil
}

// List returns records matching the filter, most recent departure first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *RecordService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Record, error) {
	recs, err := s.store.Records().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service.RecordService.List: %w", err)
	}
	if recs == nil {
		return []domain.Record{}, nil
	}
	return recs, nil
}

// Update merges the patch over the current record, re-validates the odometer
// invariant on the merged values, recomputes the distance, and persists the
// replaced record together with one audit entry per changed field as a single
// transaction.
//
// Known race: two concurrent updates to the same ID can interleave their
// read-merge-write cycles; the last writer wins and the earlier update's
// changes are silently lost. Per-record locking or optimistic versioning is
// deliberately not implemented.
func (s *RecordService) Update(ctx context.Context, id int64, patch domain.RecordPatch) (domain.Record, error) {
	current, err := s.store.Records().GetByID(ctx, id)
	if err != nil {
		return domain.Record{}, fmt.Errorf("service.RecordService.Update: %w", err)
	}

	merged := applyPatch(current, patch)
	if merged.OdometerEnd < merged.OdometerStart {
		return domain.Record{}, fmt.Errorf("%w: final odometer reading must not be less than initial", domain.ErrValidation)
	}
	merged.Distance = merged.OdometerEnd - merged.OdometerStart

	now := s.now().UTC()
	merged.UpdatedAt = &now

	actor := domain.DefaultActor
	if patch.Actor != nil && *patch.Actor != "" {
		actor = *patch.Actor
	}
	entries := Diff(current, merged, actor, now)

	err = s.store.InTx(ctx, func(records repo.RecordRepo, audits repo.AuditRepo) error {
		if err := records.Replace(ctx, merged); err != nil {
			return err
		}
		for _, e := range entries {
			if _, err := audits.Insert(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Record{}, fmt.Errorf("service.RecordService.Update: %w", err)
	}

	return merged, nil
}

// Delete removes a record and all of its audit entries as one transaction.
// Deleting an ID that does not exist is not an error.
func (s *RecordService) Delete(ctx context.Context, id int64) error {
	err := s.store.InTx(ctx, func(records repo.RecordRepo, audits repo.AuditRepo) error {
		if err := audits.DeleteByRecordID(ctx, id); err != nil {
			return err
		}
		return records.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("service.RecordService.Delete: %w", err)
	}
	return nil
}

// History returns the record's audit entries, newest change first.
// An unknown ID yields an empty slice, mirroring what the trail of a deleted
// record looks like.
func (s *RecordService) History(ctx context.Context, id int64) ([]domain.AuditEntry, error) {
	entries, err := s.store.Audits().ListByRecordID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.RecordService.History: %w", err)
	}
	if entries == nil {
		return []domain.AuditEntry{}, nil
	}
	return entries, nil
}

// applyPatch overlays the supplied patch fields on top of the current record.
// Nil patch fields keep the current value.
func applyPatch(current domain.Record, patch domain.RecordPatch) domain.Record {
	merged := current
	if patch.Driver != nil {
		merged.Driver = *patch.Driver
	}
	if patch.Plate != nil {
		merged.Plate = *patch.Plate
	}
	if patch.Departure != nil {
		merged.Departure = *patch.Departure
	}
	if patch.Arrival != nil {
		merged.Arrival = *patch.Arrival
	}
	if patch.OdometerStart != nil {
		merged.OdometerStart = *patch.OdometerStart
	}
	if patch.OdometerEnd != nil {
		merged.OdometerEnd = *patch.OdometerEnd
	}
	if patch.Notes != nil {
		merged.Notes = *patch.Notes
	}
	return merged
}

// validateDraft enforces the create-time rules:
//   - driver, plate, departure, and arrival must be non-empty
//     (whitespace-only values are rejected);
//   - both odometer readings must be supplied;
//   - the end reading must not be below the start reading.
func validateDraft(draft domain.RecordDraft) error {
	required := []struct {
		name  string
		value string
	}{
		{"driver", draft.Driver},
		{"plate", draft.Plate},
		{"departure", draft.Departure},
		{"arrival", draft.Arrival},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrValidation, f.name)
		}
	}
	if draft.OdometerStart == nil {
		return fmt.Errorf("%w: odometer_start is required", domain.ErrValidation)
	}
	if draft.OdometerEnd == nil {
		return fmt.Errorf("%w: odometer_end is required", domain.ErrValidation)
	}
	if *draft.OdometerEnd < *draft.OdometerStart {
		return fmt.Errorf("%w: final odometer reading must not be less than initial", domain.ErrValidation)
	}
	return nil
}
