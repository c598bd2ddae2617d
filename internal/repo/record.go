// Package repo contains all database access logic for the fleet mileage API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/fleet-mileage/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, and lets
// Store.InTx build repos over a live transaction for multi-table writes.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RecordRepo defines the persistence operations for trip records.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type RecordRepo interface {
	// Create inserts a new record and returns its store-assigned identifier.
	Create(ctx context.Context, rec domain.Record) (int64, error)

	// GetByID retrieves a single record by its integer primary key.
	// Returns domain.ErrNotFound if no record with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Record, error)

	// List returns records matching the filter, ordered by departure
	// descending with identifier descending as the tiebreak.
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Record, error)

	// Replace overwrites all mutable fields of an existing record.
	// Returns domain.ErrNotFound if no record with that ID exists.
	Replace(ctx context.Context, rec domain.Record) error

	// Delete removes a record by ID. Deleting a non-existent ID is not an
	// error; the operation is idempotent.
	Delete(ctx context.Context, id int64) error
}

// pgRecordRepo is the Postgres implementation of RecordRepo.
type pgRecordRepo struct {
	db db
}

// NewRecordRepo constructs a RecordRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewRecordRepo(db db) RecordRepo {
	return &pgRecordRepo{db: db}
}

const recordColumns = `id, driver, plate, departure, arrival, odometer_start, odometer_end, distance, notes, created_at, updated_at`

// Create inserts a new record row and returns the generated identifier.
func (r *pgRecordRepo) Create(ctx context.Context, rec domain.Record) (int64, error) {
	const q = `
		INSERT INTO records (driver, plate, departure, arrival, odometer_start, odometer_end, distance, notes, created_at)
		VALUES (@driver, @plate, @departure, @arrival, @odometer_start, @odometer_end, @distance, @notes, @created_at)
		RETURNING id`

	args := pgx.NamedArgs{
		"driver":         rec.Driver,
		"plate":          rec.Plate,
		"departure":      rec.Departure,
		"arrival":        rec.Arrival,
		"odometer_start": rec.OdometerStart,
		"odometer_end":   rec.OdometerEnd,
		"distance":       rec.Distance,
		"notes":          rec.Notes,
		"created_at":     rec.CreatedAt,
	}

	var id int64
	if err := r.db.QueryRow(ctx, q, args).Scan(&id); err != nil {
		return 0, fmt.Errorf("repo.RecordRepo.Create: %w", err)
	}
	return id, nil
}

// GetByID retrieves a record by primary key.
func (r *pgRecordRepo) GetByID(ctx context.Context, id int64) (domain.Record, error) {
	const q = `
		SELECT ` + recordColumns + `
		FROM records
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	rec, err := scanRecord(row)
	if err != nil {
		return domain.Record{}, fmt.Errorf("repo.RecordRepo.GetByID: %w", err)
	}
	return rec, nil
}

// List returns records matching the filter, most recent departure first.
// Filter criteria are ANDed; driver and plate match case-insensitively by
// substring, and the date bounds compare as text against the stored values.
func (r *pgRecordRepo) List(ctx context.Context, filter domain.ListFilter) ([]domain.Record, error) {
	var (
		where []string
		args  = pgx.NamedArgs{}
	)
	if filter.Driver != "" {
		where = append(where, `driver ILIKE '%' || @driver || '%'`)
		args["driver"] = filter.Driver
	}
	if filter.Plate != "" {
		where = append(where, `plate ILIKE '%' || @plate || '%'`)
		args["plate"] = filter.Plate
	}
	if filter.DepartureFrom != "" {
		where = append(where, `departure >= @departure_from`)
		args["departure_from"] = filter.DepartureFrom
	}
	if filter.ArrivalTo != "" {
		where = append(where, `arrival <= @arrival_to`)
		args["arrival_to"] = filter.ArrivalTo
	}

	q := `SELECT ` + recordColumns + ` FROM records`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY departure DESC, id DESC`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.RecordRepo.List: %w", err)
	}
	defer rows.Close()

	var recs []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.RecordRepo.List: scan: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RecordRepo.List: rows: %w", err)
	}

	return recs, nil
}

// Replace overwrites all mutable fields of a record.
func (r *pgRecordRepo) Replace(ctx context.Context, rec domain.Record) error {
	const q = `
		UPDATE records
		SET driver         = @driver,
		    plate          = @plate,
		    departure      = @departure,
		    arrival        = @arrival,
		    odometer_start = @odometer_start,
		    odometer_end   = @odometer_end,
		    distance       = @distance,
		    notes          = @notes,
		    updated_at     = @updated_at
		WHERE id = @id`

	args := pgx.NamedArgs{
		"id":             rec.ID,
		"driver":         rec.Driver,
		"plate":          rec.Plate,
		"departure":      rec.Departure,
		"arrival":        rec.Arrival,
		"odometer_start": rec.OdometerStart,
		"odometer_end":   rec.OdometerEnd,
		"distance":       rec.Distance,
		"notes":          rec.Notes,
		"updated_at":     rec.UpdatedAt,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return fmt.Errorf("repo.RecordRepo.Replace: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.RecordRepo.Replace: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes a record by primary key. Zero rows affected is success.
func (r *pgRecordRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM records WHERE id = @id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id}); err != nil {
		return fmt.Errorf("repo.RecordRepo.Delete: %w", err)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanRecord to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord maps a single database row into a domain.Record.
// It handles the nullable updated_at conversion.
func scanRecord(s scanner) (domain.Record, error) {
	var (
		rec       domain.Record
		updatedAt pgtype.Timestamptz
	)

	err := s.Scan(&rec.ID, &rec.Driver, &rec.Plate, &rec.Departure, &rec.Arrival,
		&rec.OdometerStart, &rec.OdometerEnd, &rec.Distance, &rec.Notes,
		&rec.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Record{}, domain.ErrNotFound
		}
		return domain.Record{}, err
	}

	if updatedAt.Valid {
		ua := updatedAt.Time
		rec.UpdatedAt = &ua
	}

	return rec, nil
}
