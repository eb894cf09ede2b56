package shadowpay

import "net/http"

// StatusPaymentProofRequired is the non-standard status answered when a
// gated request carries no usable payment proof.
const StatusPaymentProofRequired = 434

// Problem is the JSON body returned on every rejection.
type Problem struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Problem titles. Clients may match on these.
const (
	TitleProofRequired       = "Private Payment Proof Required"
	TitleInvalidProof        = "Invalid ShadowPay Proof"
	TitleNullifierConflict   = "ShadowPay Nullifier Conflict"
	TitleEscrowLocked        = "ShadowPay Escrow Locked"
	TitlePreconditionMissing = "ShadowPay Precondition Required"
	TitleUnavailable         = "ShadowPay Verification Unavailable"
)

const (
	detailProofRequired  = "ShadowPay proof headers are required on this endpoint."
	detailMissingHeaders = "ShadowPay proof headers are incomplete."
	detailEscrowLocked   = "Escrow account is locked."
	detailUnavailable    = "Payment proof could not be verified right now, retry later."
)

// ProblemFor maps a decision onto its rejection body. It reports false for
// Forward, which produces no body.
func ProblemFor(d Decision) (Problem, bool) {
	switch d.Outcome {
	case ProofRequired:
		return Problem{Status: StatusPaymentProofRequired, Title: TitleProofRequired, Detail: detailProofRequired}, true
	case MissingHeaders:
		return Problem{Status: StatusPaymentProofRequired, Title: TitleProofRequired, Detail: detailMissingHeaders}, true
	case Invalid:
		return Problem{Status: http.StatusUnprocessableEntity, Title: TitleInvalidProof, Detail: d.Reason}, true
	case DoubleSpend:
		return Problem{Status: http.StatusConflict, Title: TitleNullifierConflict, Detail: d.Reason}, true
	case EscrowLocked:
		return Problem{Status: http.StatusLocked, Title: TitleEscrowLocked, Detail: detailEscrowLocked}, true
	case PreconditionMissing:
		return Problem{Status: http.StatusPreconditionRequired, Title: TitlePreconditionMissing, Detail: d.Reason}, true
	default:
		return Problem{}, false
	}
}

// UnavailableProblem is answered when a collaborator or the replay store
// failed. It never carries internal error text.
func UnavailableProblem() Problem {
	return Problem{Status: http.StatusServiceUnavailable, Title: TitleUnavailable, Detail: detailUnavailable}
}
