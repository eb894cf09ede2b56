package shadowpay

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

// MinNullifierLength is the shortest nullifier accepted, in bytes.
const MinNullifierLength = 16

const merkleRootHexLength = 64

// Reasons reported with validation failures.
const (
	ReasonUnknownInvoice     = "Unknown or inactive invoice id"
	ReasonProofNotBase64     = "Proof is not valid base64"
	ReasonMerkleRootFormat   = "Merkle root must be 32 byte hex"
	ReasonNullifierTooShort  = "Nullifier looks too short"
	ReasonProofNotVerified   = "Proof verification failed"
	ReasonNullifierDuplicate = "Nullifier already used"
)

// ValidationKind classifies a structural rejection.
type ValidationKind int

const (
	KindMissingHeaders ValidationKind = iota + 1
	KindInvalidProof
	KindEscrowLocked
	KindPreconditionMissing
)

func (k ValidationKind) String() string {
	switch k {
	case KindMissingHeaders:
		return "missing_headers"
	case KindInvalidProof:
		return "invalid_proof"
	case KindEscrowLocked:
		return "escrow_locked"
	case KindPreconditionMissing:
		return "precondition_missing"
	default:
		return "unknown"
	}
}

// ValidationError is returned when a credential is not well formed.
type ValidationError struct {
	Kind   ValidationKind
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// ErrCollaborator wraps failures of the invoice, escrow or proof services.
// These are faults of the deployment, not of the client.
var ErrCollaborator = errors.New("shadowpay collaborator failure")

// Validator performs the structural checks on a credential and consults the
// configured collaborators. It holds no mutable state.
type Validator struct {
	invoices InvoiceRegistry
	escrows  EscrowRegistry
	verifier ProofVerifier
}

// NewValidator builds a Validator. A nil escrow registry treats every account
// as unlocked and a nil verifier falls back to StructuralOnly.
func NewValidator(invoices InvoiceRegistry, escrows EscrowRegistry, verifier ProofVerifier) (*Validator, error) {
	if invoices == nil {
		return nil, fmt.Errorf("invoice registry is required")
	}
	if verifier == nil {
		verifier = StructuralOnly{}
	}
	return &Validator{invoices: invoices, escrows: escrows, verifier: verifier}, nil
}

// Validate checks the credential carried by the request. The first failing
// check wins. A *ValidationError describes a client problem; any other error
// wraps ErrCollaborator.
func (v *Validator) Validate(ctx context.Context, cred Credential) (Credential, error) {
	if !cred.complete() {
		return Credential{}, &ValidationError{Kind: KindMissingHeaders}
	}

	active, err := v.invoices.IsActive(ctx, cred.InvoiceID)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: invoice lookup: %v", ErrCollaborator, err)
	}
	if !active {
		return Credential{}, &ValidationError{Kind: KindPreconditionMissing, Reason: ReasonUnknownInvoice}
	}

	proof, err := base64.StdEncoding.DecodeString(cred.Proof)
	if err != nil {
		return Credential{}, &ValidationError{Kind: KindInvalidProof, Reason: ReasonProofNotBase64}
	}

	root, ok := parseMerkleRoot(cred.MerkleRoot)
	if !ok {
		return Credential{}, &ValidationError{Kind: KindInvalidProof, Reason: ReasonMerkleRootFormat}
	}

	verified, err := v.verifier.VerifyProof(ctx, proof, root)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: verify proof: %v", ErrCollaborator, err)
	}
	if !verified {
		return Credential{}, &ValidationError{Kind: KindInvalidProof, Reason: ReasonProofNotVerified}
	}

	if len(cred.Nullifier) < MinNullifierLength {
		return Credential{}, &ValidationError{Kind: KindInvalidProof, Reason: ReasonNullifierTooShort}
	}

	if cred.EscrowAccount != "" && v.escrows != nil {
		locked, err := v.escrows.IsLocked(ctx, cred.EscrowAccount)
		if err != nil {
			return Credential{}, fmt.Errorf("%w: escrow lookup: %v", ErrCollaborator, err)
		}
		if locked {
			return Credential{}, &ValidationError{Kind: KindEscrowLocked}
		}
	}

	return cred, nil
}

func parseMerkleRoot(s string) ([32]byte, bool) {
	var root [32]byte
	if len(s) != merkleRootHexLength {
		return root, false
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return root, false
		}
	}
	if _, err := hex.Decode(root[:], []byte(s)); err != nil {
		return root, false
	}
	return root, true
}

func isHexDigit(b byte) bool {
	return ('0' <= b && b <= '9') || ('a' <= b && b <= 'f') || ('A' <= b && b <= 'F')
}
