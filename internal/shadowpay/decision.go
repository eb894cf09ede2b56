package shadowpay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Outcome is the closed set of access decisions.
type Outcome int

const (
	Forward Outcome = iota
	ProofRequired
	MissingHeaders
	Invalid
	DoubleSpend
	EscrowLocked
	PreconditionMissing
)

func (o Outcome) String() string {
	switch o {
	case Forward:
		return "forward"
	case ProofRequired:
		return "proof_required"
	case MissingHeaders:
		return "missing_headers"
	case Invalid:
		return "invalid"
	case DoubleSpend:
		return "double_spend"
	case EscrowLocked:
		return "escrow_locked"
	case PreconditionMissing:
		return "precondition_missing"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Decision is the result of evaluating one request.
type Decision struct {
	Outcome Outcome
	Reason  string
	// Credential is set only when Outcome is Forward.
	Credential Credential
}

// Gate combines credential validation with nullifier consumption.
type Gate struct {
	validator *Validator
	guard     ReplayGuard
}

// NewGate wires a Gate. The guard is shared by every request the Gate serves.
func NewGate(validator *Validator, guard ReplayGuard) (*Gate, error) {
	if validator == nil {
		return nil, fmt.Errorf("validator is required")
	}
	if guard == nil {
		return nil, fmt.Errorf("replay guard is required")
	}
	return &Gate{validator: validator, guard: guard}, nil
}

// Decide evaluates the credential headers of a request. The nullifier is
// consumed only after every structural check passed. A non-nil error means a
// collaborator or the replay store failed and no decision could be made.
func (g *Gate) Decide(ctx context.Context, h http.Header) (Decision, error) {
	if !AnyCredentialHeader(h) {
		return Decision{Outcome: ProofRequired}, nil
	}

	cred, err := g.validator.Validate(ctx, ExtractCredential(h))
	if err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return Decision{}, err
		}
		return decisionFor(verr), nil
	}

	fresh, err := g.guard.TryConsume(ctx, cred.Nullifier)
	if err != nil {
		return Decision{}, fmt.Errorf("consume nullifier: %w", err)
	}
	if !fresh {
		return Decision{Outcome: DoubleSpend, Reason: ReasonNullifierDuplicate}, nil
	}
	return Decision{Outcome: Forward, Credential: cred}, nil
}

func decisionFor(verr *ValidationError) Decision {
	switch verr.Kind {
	case KindMissingHeaders:
		return Decision{Outcome: MissingHeaders}
	case KindEscrowLocked:
		return Decision{Outcome: EscrowLocked}
	case KindPreconditionMissing:
		return Decision{Outcome: PreconditionMissing, Reason: verr.Reason}
	default:
		return Decision{Outcome: Invalid, Reason: verr.Reason}
	}
}
