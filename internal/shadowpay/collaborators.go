package shadowpay

import (
	"context"
	"strings"
)

// ReplayGuard remembers consumed nullifiers. TryConsume atomically records
// the nullifier and reports true when it had not been seen before; it
// reports false and changes nothing otherwise.
type ReplayGuard interface {
	TryConsume(ctx context.Context, nullifier string) (bool, error)
}

// InvoiceRegistry reports whether an invoice may currently be paid.
type InvoiceRegistry interface {
	IsActive(ctx context.Context, invoiceID string) (bool, error)
}

// EscrowRegistry reports whether an escrow account is locked.
type EscrowRegistry interface {
	IsLocked(ctx context.Context, account string) (bool, error)
}

// ProofVerifier checks a decoded proof against a Merkle root.
type ProofVerifier interface {
	VerifyProof(ctx context.Context, proof []byte, merkleRoot [32]byte) (bool, error)
}

// StructuralOnly accepts every proof that passed the structural checks. It
// stands in for a zero-knowledge verifier and Merkle-inclusion check.
type StructuralOnly struct{}

// VerifyProof always succeeds.
func (StructuralOnly) VerifyProof(context.Context, []byte, [32]byte) (bool, error) {
	return true, nil
}

// RoutePredicate decides whether a request path is payment gated.
type RoutePredicate func(path string) bool

// PrefixPredicate gates every path starting with one of the prefixes.
func PrefixPredicate(prefixes ...string) RoutePredicate {
	cleaned := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return func(path string) bool {
		for _, p := range cleaned {
			if strings.HasPrefix(path, p) {
				return true
			}
		}
		return false
	}
}
