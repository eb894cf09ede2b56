// Package invoice answers whether an invoice may currently be paid for.
package invoice

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Radrdotfun/radr-http-434-private-payment-proof/internal/shadowpay"
)

// StatusActive is the only invoice status that accepts payment proofs.
const StatusActive = "active"

var (
	_ shadowpay.InvoiceRegistry = Static{}
	_ shadowpay.InvoiceRegistry = (*PostgresRegistry)(nil)
)

// Static is a fixed set of active invoice ids.
type Static map[string]struct{}

// NewStatic builds a Static registry from the given ids.
func NewStatic(ids ...string) Static {
	s := make(Static, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// IsActive reports whether id is in the set.
func (s Static) IsActive(_ context.Context, id string) (bool, error) {
	_, ok := s[id]
	return ok, nil
}

// Querier is satisfied by *pgxpool.Pool.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRegistry looks invoices up in the invoices table.
type PostgresRegistry struct {
	db Querier
}

// NewPostgresRegistry builds a registry backed by PostgreSQL.
func NewPostgresRegistry(db Querier) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

// IsActive reports true only for an existing invoice in the active status.
func (r *PostgresRegistry) IsActive(ctx context.Context, id string) (bool, error) {
	var status string
	err := r.db.QueryRow(ctx, `SELECT status FROM invoices WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query invoice %s: %w", id, err)
	}
	return status == StatusActive, nil
}
