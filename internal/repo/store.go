package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store bundles the repos with a transaction runner.
// The service layer depends on this interface so that an update can commit the
// replaced record and its audit entries as one unit of work.
type Store interface {
	// Records returns a RecordRepo bound to the pool (auto-commit per call).
	Records() RecordRepo

	// Audits returns an AuditRepo bound to the pool (auto-commit per call).
	Audits() AuditRepo

	// InTx runs fn with repos bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise,
	// so a failed operation never leaves partial state behind.
	InTx(ctx context.Context, fn func(records RecordRepo, audits AuditRepo) error) error
}

// pgStore is the pgxpool-backed Store used in production.
type pgStore struct {
	pool    *pgxpool.Pool
	records RecordRepo
	audits  AuditRepo
}

// NewStore constructs a Store over the given connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{
		pool:    pool,
		records: NewRecordRepo(pool),
		audits:  NewAuditRepo(pool),
	}
}

func (s *pgStore) Records() RecordRepo { return s.records }

func (s *pgStore) Audits() AuditRepo { return s.audits }

// InTx begins a transaction, builds repos over it, and runs fn.
// Both repo constructors accept the db interface, so the same repo code serves
// pooled and transactional calls unchanged.
func (s *pgStore) InTx(ctx context.Context, fn func(records RecordRepo, audits AuditRepo) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.Store.InTx: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck — rollback after commit is a no-op

	if err := fn(NewRecordRepo(tx), NewAuditRepo(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.Store.InTx: commit: %w", err)
	}
	return nil
}
