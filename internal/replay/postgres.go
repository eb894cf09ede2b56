package replay

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Radrdotfun/radr-http-434-private-payment-proof/internal/shadowpay"
)

var _ shadowpay.ReplayGuard = (*PostgresGuard)(nil)

const createNullifierTable = `CREATE TABLE IF NOT EXISTS consumed_nullifiers (
        nullifier_hash BYTEA PRIMARY KEY,
        consumed_at    TIMESTAMPTZ NOT NULL DEFAULT now()
    )`

// Execer is satisfied by *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresGuard persists consumed nullifiers so they survive restarts. The
// primary key makes the insert the atomic check.
type PostgresGuard struct {
	db Execer
}

// NewPostgresGuard builds a guard on top of a pgx pool.
func NewPostgresGuard(db Execer) (*PostgresGuard, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	return &PostgresGuard{db: db}, nil
}

// EnsureSchema creates the nullifier table when missing.
func (g *PostgresGuard) EnsureSchema(ctx context.Context) error {
	if _, err := g.db.Exec(ctx, createNullifierTable); err != nil {
		return fmt.Errorf("create consumed_nullifiers: %w", err)
	}
	return nil
}

// TryConsume inserts the nullifier digest, reporting false on conflict.
func (g *PostgresGuard) TryConsume(ctx context.Context, nullifier string) (bool, error) {
	sum := digest(nullifier)
	tag, err := g.db.Exec(ctx, `INSERT INTO consumed_nullifiers (nullifier_hash) VALUES ($1)
        ON CONFLICT (nullifier_hash) DO NOTHING`, sum[:])
	if err != nil {
		return false, fmt.Errorf("insert nullifier: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
