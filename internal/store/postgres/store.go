package postgres

import (
	"context"
	"fmt"

	"budgetflow/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// querier is the subset of pgx operations shared by a pool and a
// transaction, so the same entity stores can run inside or outside a
// transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Config holds configuration for the PostgreSQL store.
type Config struct {
	Pool PoolConfig

	// AutoMigrate runs pending schema migrations at startup.
	AutoMigrate bool
}

// Store implements store.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
	q    querier
	tx   pgx.Tx // non-nil when this store is a transactional view
}

// NewStore connects to PostgreSQL and returns a store backed by a shared
// connection pool. When cfg.AutoMigrate is set, pending migrations run
// before the store is returned.
func NewStore(ctx context.Context, cfg *Config) (*Store, error) {
	pool, err := NewPool(ctx, &cfg.Pool)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int32("max_conns", cfg.Pool.MaxConns).
		Msg("Connected to PostgreSQL")

	if cfg.AutoMigrate {
		if err := RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info().Msg("Database migrations completed")
	}

	return &Store{pool: pool, q: pool}, nil
}

// NewStoreFromPool wraps an existing connection pool.
func NewStoreFromPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Organizations returns the organization store view.
func (s *Store) Organizations() store.OrganizationStore {
	return &OrganizationStore{q: s.q}
}

// Departments returns the department store view.
func (s *Store) Departments() store.DepartmentStore {
	return &DepartmentStore{q: s.q, inTx: s.tx != nil}
}

// Payments returns the payment store view.
func (s *Store) Payments() store.PaymentStore {
	return &PaymentStore{q: s.q, inTx: s.tx != nil}
}

// Notifications returns the notification store view.
func (s *Store) Notifications() store.NotificationStore {
	return &NotificationStore{q: s.q}
}

// ExecTx runs fn inside a database transaction. Row locks taken via
// GetForUpdate serialize concurrent transactions that touch the same
// department, which is what keeps budget checks consistent.
func (s *Store) ExecTx(ctx context.Context, fn func(store.Store) error) error {
	if s.tx != nil {
		// Already inside a transaction, run against the same view.
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	txStore := &Store{pool: s.pool, q: tx, tx: tx}
	if err := fn(txStore); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
