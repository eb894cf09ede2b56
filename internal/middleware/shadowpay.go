package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Radrdotfun/radr-http-434-private-payment-proof/internal/logging"
	"github.com/Radrdotfun/radr-http-434-private-payment-proof/internal/notification"
	"github.com/Radrdotfun/radr-http-434-private-payment-proof/internal/shadowpay"
)

// Locals keys set by ShadowPay.
const (
	CredentialLocalsKey = "shadowpay.credential"
	OutcomeLocalsKey    = "shadowpay.outcome"
)

// ShadowPay gates every path matched by isProtected behind a payment proof.
// Unprotected requests pass straight through. Accepted requests continue to
// the next handler with the credential stored in Locals; rejected ones are
// answered with a shadowpay.Problem body.
func ShadowPay(gate *shadowpay.Gate, isProtected shadowpay.RoutePredicate, notifier notification.Notifier, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !isProtected(c.Path()) {
			return c.Next()
		}

		headers := http.Header(c.GetReqHeaders())

		var decision shadowpay.Decision
		if !shadowpay.AnyCredentialHeader(headers) {
			decision = shadowpay.Decision{Outcome: shadowpay.ProofRequired}
		} else {
			d, err := gate.Decide(c.UserContext(), headers)
			if err != nil {
				logger.Error("shadowpay decision failed",
					slog.String("path", c.Path()),
					slog.Any("error", err),
				)
				problem := shadowpay.UnavailableProblem()
				return c.Status(problem.Status).JSON(problem)
			}
			decision = d
		}
		c.Locals(OutcomeLocalsKey, decision.Outcome.String())

		if decision.Outcome == shadowpay.Forward {
			cred := decision.Credential
			c.Locals(CredentialLocalsKey, cred)
			send(c, notifier, logger, notification.Message{
				Kind:        notification.KindPaymentAccepted,
				Destination: cred.InvoiceID,
				Body:        "payment proof accepted for " + c.Path(),
			})
			return c.Next()
		}

		problem, _ := shadowpay.ProblemFor(decision)
		if decision.Outcome == shadowpay.DoubleSpend {
			cred := shadowpay.ExtractCredential(headers)
			logger.Warn("shadowpay nullifier replay",
				slog.String("invoice_id", cred.InvoiceID),
				logging.Fingerprint(cred.Nullifier),
			)
			send(c, notifier, logger, notification.Message{
				Kind:        notification.KindNullifierConflict,
				Destination: cred.InvoiceID,
				Body:        "replayed payment proof rejected for " + c.Path(),
			})
		} else {
			logger.Info("shadowpay request rejected",
				slog.String("outcome", decision.Outcome.String()),
				slog.Int("status", problem.Status),
				slog.String("detail", problem.Detail),
			)
		}
		return c.Status(problem.Status).JSON(problem)
	}
}

// CredentialFrom returns the credential accepted for this request, if any.
func CredentialFrom(c *fiber.Ctx) (shadowpay.Credential, bool) {
	cred, ok := c.Locals(CredentialLocalsKey).(shadowpay.Credential)
	return cred, ok
}

func send(c *fiber.Ctx, notifier notification.Notifier, logger *slog.Logger, msg notification.Message) {
	if notifier == nil {
		return
	}
	if err := notifier.Send(c.UserContext(), msg); err != nil {
		logger.Warn("shadowpay notification failed", slog.String("kind", msg.Kind), slog.Any("error", err))
	}
}
