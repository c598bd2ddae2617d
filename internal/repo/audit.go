package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/fleet-mileage/internal/domain"
)

// AuditRepo defines the persistence operations for audit entries.
// Entries are append-only: there is no update, and deletion happens only as
// part of a record's cascading delete.
type AuditRepo interface {
	// Insert appends one audit entry and returns it with the store-assigned
	// identifier populated.
	Insert(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error)

	// ListByRecordID returns all entries for a record, newest change first.
	// An unknown record ID yields an empty result, not an error.
	ListByRecordID(ctx context.Context, recordID int64) ([]domain.AuditEntry, error)

	// DeleteByRecordID removes all entries owned by a record.
	DeleteByRecordID(ctx context.Context, recordID int64) error
}

// pgAuditRepo is the Postgres implementation of AuditRepo.
type pgAuditRepo struct {
	db db
}

// NewAuditRepo constructs an AuditRepo backed by the provided db connection.
func NewAuditRepo(db db) AuditRepo {
	return &pgAuditRepo{db: db}
}

// Insert appends one audit entry row.
func (r *pgAuditRepo) Insert(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error) {
	const q = `
		INSERT INTO audit_entries (record_id, field, old_value, new_value, actor, changed_at)
		VALUES (@record_id, @field, @old_value, @new_value, @actor, @changed_at)
		RETURNING id`

	args := pgx.NamedArgs{
		"record_id":  entry.RecordID,
		"field":      entry.Field,
		"old_value":  entry.OldValue,
		"new_value":  entry.NewValue,
		"actor":      entry.Actor,
		"changed_at": entry.ChangedAt,
	}

	if err := r.db.QueryRow(ctx, q, args).Scan(&entry.ID); err != nil {
		return domain.AuditEntry{}, fmt.Errorf("repo.AuditRepo.Insert: %w", err)
	}
	return entry, nil
}

// ListByRecordID returns the change history of one record, newest first.
// The identifier tiebreak keeps entries from a single update call in a stable
// order even though they share one change timestamp.
func (r *pgAuditRepo) ListByRecordID(ctx context.Context, recordID int64) ([]domain.AuditEntry, error) {
	const q = `
		SELECT id, record_id, field, old_value, new_value, actor, changed_at
		FROM audit_entries
		WHERE record_id = @record_id
		ORDER BY changed_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"record_id": recordID})
	if err != nil {
		return nil, fmt.Errorf("repo.AuditRepo.ListByRecordID: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		err := rows.Scan(&e.ID, &e.RecordID, &e.Field, &e.OldValue, &e.NewValue, &e.Actor, &e.ChangedAt)
		if err != nil {
			return nil, fmt.Errorf("repo.AuditRepo.ListByRecordID: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AuditRepo.ListByRecordID: rows: %w", err)
	}

	return entries, nil
}

// DeleteByRecordID removes every entry owned by the record.
func (r *pgAuditRepo) DeleteByRecordID(ctx context.Context, recordID int64) error {
	const q = `DELETE FROM audit_entries WHERE record_id = @record_id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"record_id": recordID}); err != nil {
		return fmt.Errorf("repo.AuditRepo.DeleteByRecordID: %w", err)
	}
	return nil
}
