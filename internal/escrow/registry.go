// Package escrow reports which escrow accounts are locked.
package escrow

import (
	"context"

	"github.com/Radrdotfun/radr-http-434-private-payment-proof/internal/shadowpay"
)

var _ shadowpay.EscrowRegistry = (*Locks)(nil)

// Locks is a fixed set of locked escrow accounts, built once at startup and
// read concurrently by every request.
type Locks struct {
	locked map[string]struct{}
}

// NewLocks builds a registry with the given accounts locked. Blank entries
// are skipped.
func NewLocks(accounts ...string) *Locks {
	l := &Locks{locked: make(map[string]struct{}, len(accounts))}
	for _, a := range accounts {
		if a == "" {
			continue
		}
		l.locked[a] = struct{}{}
	}
	return l
}

// IsLocked reports whether account is locked.
func (l *Locks) IsLocked(_ context.Context, account string) (bool, error) {
	_, ok := l.locked[account]
	return ok, nil
}
