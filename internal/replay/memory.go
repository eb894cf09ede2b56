// Package replay provides ReplayGuard implementations that remember consumed
// nullifiers.
package replay

import (
	"context"
	"strings"
	"sync"

	"github.com/Radrdotfun/radr-http-434-private-payment-proof/internal/shadowpay"
)

var _ shadowpay.ReplayGuard = (*Memory)(nil)

// Memory keeps consumed nullifiers in process memory. Entries are never
// evicted, so the set grows for the lifetime of the process.
type Memory struct {
	mu   sync.Mutex
	used map[string]struct{}
}

// NewMemory creates an empty in-memory guard.
func NewMemory() *Memory {
	return &Memory{used: make(map[string]struct{})}
}

// TryConsume records the nullifier unless it was already recorded. The check
// and the insert happen under one lock and never fail. The stored key is a
// copy, so callers may pass strings backed by reusable request buffers.
func (m *Memory) TryConsume(_ context.Context, nullifier string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.used[nullifier]; exists {
		return false, nil
	}
	m.used[strings.Clone(nullifier)] = struct{}{}
	return true, nil
}
