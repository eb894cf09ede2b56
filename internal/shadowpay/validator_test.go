package shadowpay

import (
	"context"
	"errors"
	"testing"
)

const (
	validProof      = "cHJvb2Ytb2YtcGF5bWVudA=="
	validMerkleRoot = "0123456789abcdef0123456789ABCDEF0123456789abcdef0123456789abcdef"
	validNullifier  = "nullifier_0000000001"
)

type setRegistry map[string]bool

func (s setRegistry) IsActive(_ context.Context, id string) (bool, error) { return s[id], nil }
func (s setRegistry) IsLocked(_ context.Context, id string) (bool, error) { return s[id], nil }

type failingRegistry struct{}

func (failingRegistry) IsActive(context.Context, string) (bool, error) {
	return false, errors.New("registry offline")
}

type rejectingVerifier struct{}

func (rejectingVerifier) VerifyProof(context.Context, []byte, [32]byte) (bool, error) {
	return false, nil
}

func validCredential() Credential {
	return Credential{
		Proof:      validProof,
		Nullifier:  validNullifier,
		MerkleRoot: validMerkleRoot,
		InvoiceID:  DemoInvoiceID,
		Scheme:     DefaultScheme,
	}
}

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(setRegistry{DemoInvoiceID: true}, setRegistry{DemoLockedEscrow: true}, nil)
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	return v
}

func TestValidateAcceptsWellFormedCredential(t *testing.T) {
	v := newTestValidator(t)

	cred, err := v.Validate(context.Background(), validCredential())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cred.Nullifier != validNullifier {
		t.Fatalf("unexpected credential: %+v", cred)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Credential)
		kind   ValidationKind
		reason string
	}{
		{"missing proof", func(c *Credential) { c.Proof = "" }, KindMissingHeaders, ""},
		{"missing nullifier", func(c *Credential) { c.Nullifier = "" }, KindMissingHeaders, ""},
		{"unknown invoice", func(c *Credential) { c.InvoiceID = "inv_unknown" }, KindPreconditionMissing, ReasonUnknownInvoice},
		{"proof not base64", func(c *Credential) { c.Proof = "not base64!!" }, KindInvalidProof, ReasonProofNotBase64},
		{"short merkle root", func(c *Credential) { c.MerkleRoot = "abc" }, KindInvalidProof, ReasonMerkleRootFormat},
		{"non hex merkle root", func(c *Credential) { c.MerkleRoot = "zz" + validMerkleRoot[2:] }, KindInvalidProof, ReasonMerkleRootFormat},
		{"short nullifier", func(c *Credential) { c.Nullifier = "short" }, KindInvalidProof, ReasonNullifierTooShort},
		{"locked escrow", func(c *Credential) { c.EscrowAccount = DemoLockedEscrow }, KindEscrowLocked, ""},
	}

	v := newTestValidator(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cred := validCredential()
			tc.mutate(&cred)

			_, err := v.Validate(context.Background(), cred)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Kind != tc.kind || verr.Reason != tc.reason {
				t.Fatalf("expected %s %q, got %s %q", tc.kind, tc.reason, verr.Kind, verr.Reason)
			}
		})
	}
}

func TestValidateFirstFailureWins(t *testing.T) {
	v := newTestValidator(t)
	cred := validCredential()
	cred.InvoiceID = "inv_unknown"
	cred.MerkleRoot = "abc"
	cred.Nullifier = "short"

	_, err := v.Validate(context.Background(), cred)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Kind != KindPreconditionMissing {
		t.Fatalf("expected invoice check to win, got %v", err)
	}
}

func TestValidateUnlockedEscrowPasses(t *testing.T) {
	v := newTestValidator(t)
	cred := validCredential()
	cred.EscrowAccount = "escrow_open_account"

	if _, err := v.Validate(context.Background(), cred); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateUsesProofVerifier(t *testing.T) {
	v, err := NewValidator(setRegistry{DemoInvoiceID: true}, nil, rejectingVerifier{})
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	_, err = v.Validate(context.Background(), validCredential())
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Reason != ReasonProofNotVerified {
		t.Fatalf("expected verification failure, got %v", err)
	}
}

func TestValidateCollaboratorFailure(t *testing.T) {
	v, err := NewValidator(failingRegistry{}, nil, nil)
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	_, err = v.Validate(context.Background(), validCredential())
	if !errors.Is(err, ErrCollaborator) {
		t.Fatalf("expected collaborator error, got %v", err)
	}
}

func TestNewValidatorRequiresInvoices(t *testing.T) {
	if _, err := NewValidator(nil, nil, nil); err == nil {
		t.Fatal("expected error without invoice registry")
	}
}
