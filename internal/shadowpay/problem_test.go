package shadowpay

import (
	"net/http"
	"testing"
)

func TestProblemForTable(t *testing.T) {
	cases := []struct {
		decision Decision
		status   int
		title    string
		detail   string
	}{
		{Decision{Outcome: ProofRequired}, 434, TitleProofRequired, detailProofRequired},
		{Decision{Outcome: MissingHeaders}, 434, TitleProofRequired, detailMissingHeaders},
		{Decision{Outcome: Invalid, Reason: ReasonMerkleRootFormat}, http.StatusUnprocessableEntity, TitleInvalidProof, ReasonMerkleRootFormat},
		{Decision{Outcome: DoubleSpend, Reason: ReasonNullifierDuplicate}, http.StatusConflict, TitleNullifierConflict, ReasonNullifierDuplicate},
		{Decision{Outcome: EscrowLocked}, http.StatusLocked, TitleEscrowLocked, detailEscrowLocked},
		{Decision{Outcome: PreconditionMissing, Reason: ReasonUnknownInvoice}, http.StatusPreconditionRequired, TitlePreconditionMissing, ReasonUnknownInvoice},
	}

	for _, tc := range cases {
		p, ok := ProblemFor(tc.decision)
		if !ok {
			t.Fatalf("%s: expected a problem body", tc.decision.Outcome)
		}
		if p.Status != tc.status || p.Title != tc.title || p.Detail != tc.detail {
			t.Fatalf("%s: got %+v", tc.decision.Outcome, p)
		}
	}
}

func TestProblemForForward(t *testing.T) {
	if _, ok := ProblemFor(Decision{Outcome: Forward}); ok {
		t.Fatal("forward must not produce a problem body")
	}
}
