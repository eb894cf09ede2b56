// Package shadowpay gates HTTP requests behind a single-use private payment
// proof. It validates the proof headers a client presents, consumes the
// proof's nullifier exactly once and maps every outcome onto the HTTP 434
// error taxonomy.
package shadowpay

import (
	"net/http"
	"strings"
)

// Request headers carrying a payment credential.
const (
	HeaderProof         = "X-ShadowPay-Proof"
	HeaderNullifier     = "X-ShadowPay-Nullifier"
	HeaderMerkleRoot    = "X-ShadowPay-Merkle-Root"
	HeaderInvoiceID     = "X-ShadowPay-Invoice-Id"
	HeaderEscrowAccount = "X-ShadowPay-Escrow-Account"
	HeaderScheme        = "X-ShadowPay-Scheme"
)

const (
	// DefaultScheme is assumed when the client omits X-ShadowPay-Scheme.
	DefaultScheme = "shadowpay_v1"
	// DemoInvoiceID is the single invoice the demo registry treats as active.
	DemoInvoiceID = "inv_demo_1"
	// DemoLockedEscrow is the escrow account the demo registry reports as locked.
	DemoLockedEscrow = "LOCKED_ESCROW_FOR_DEMO"
)

var mandatoryHeaders = [...]string{HeaderProof, HeaderNullifier, HeaderMerkleRoot, HeaderInvoiceID}

// Credential is the payment proof presented on a single request. It is built
// per request and never stored.
type Credential struct {
	Proof         string
	Nullifier     string
	MerkleRoot    string
	InvoiceID     string
	EscrowAccount string
	Scheme        string
}

// AnyCredentialHeader reports whether at least one mandatory credential header
// is present, even if empty.
func AnyCredentialHeader(h http.Header) bool {
	for _, name := range mandatoryHeaders {
		if _, ok := h[http.CanonicalHeaderKey(name)]; ok {
			return true
		}
	}
	return false
}

// ExtractCredential reads the credential headers, trimming surrounding
// whitespace. Missing headers yield empty fields. Every field is copied, so
// the Credential stays valid after the request buffer is reused.
func ExtractCredential(h http.Header) Credential {
	scheme := headerValue(h, HeaderScheme)
	if scheme == "" {
		scheme = DefaultScheme
	}
	return Credential{
		Proof:         headerValue(h, HeaderProof),
		Nullifier:     headerValue(h, HeaderNullifier),
		MerkleRoot:    headerValue(h, HeaderMerkleRoot),
		InvoiceID:     headerValue(h, HeaderInvoiceID),
		EscrowAccount: headerValue(h, HeaderEscrowAccount),
		Scheme:        scheme,
	}
}

func headerValue(h http.Header, name string) string {
	return strings.Clone(strings.TrimSpace(h.Get(name)))
}

func (c Credential) complete() bool {
	return c.Proof != "" && c.Nullifier != "" && c.MerkleRoot != "" && c.InvoiceID != ""
}
