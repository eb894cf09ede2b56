package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Radrdotfun/radr-http-434-private-payment-proof/internal/middleware"
	"github.com/Radrdotfun/radr-http-434-private-payment-proof/internal/shadowpay"
)

// RegisterDemoRoutes wires the public, protected and demo invoice endpoints.
func RegisterDemoRoutes(r fiber.Router) {
	r.Get("/public", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"data": "public ok"})
	})

	r.Get("/protected", func(c *fiber.Ctx) error {
		resp := fiber.Map{"data": "protected ok"}
		if cred, ok := middleware.CredentialFrom(c); ok {
			resp["invoice_id"] = cred.InvoiceID
			resp["scheme"] = cred.Scheme
		}
		return c.JSON(resp)
	})

	r.Get("/demo-invoice", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"invoice_id": shadowpay.DemoInvoiceID,
			"currency":   "USDC",
			"scheme":     shadowpay.DefaultScheme,
			"note":       "Use this invoice id when testing HTTP 434 with ShadowPay.",
		})
	})
}
