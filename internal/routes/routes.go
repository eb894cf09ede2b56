package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Radrdotfun/radr-http-434-private-payment-proof/internal/config"
	"github.com/Radrdotfun/radr-http-434-private-payment-proof/internal/escrow"
	"github.com/Radrdotfun/radr-http-434-private-payment-proof/internal/invoice"
	"github.com/Radrdotfun/radr-http-434-private-payment-proof/internal/middleware"
	"github.com/Radrdotfun/radr-http-434-private-payment-proof/internal/notification"
	"github.com/Radrdotfun/radr-http-434-private-payment-proof/internal/replay"
	"github.com/Radrdotfun/radr-http-434-private-payment-proof/internal/shadowpay"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
	// Guard overrides the replay guard selected by Cfg.ReplayBackend.
	Guard shadowpay.ReplayGuard
	// Verifier replaces the structural-only proof verifier.
	Verifier shadowpay.ProofVerifier
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Logger == nil {
		return fmt.Errorf("logger is required")
	}

	gate, err := buildGate(d)
	if err != nil {
		return err
	}
	isProtected := shadowpay.PrefixPredicate(d.Cfg.ProtectedPrefixes...)

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cfg.ProofAttemptsPerMinute > 0 && d.Cache != nil {
		app.Use(middleware.ProofAttemptLimit(d.Cache, d.Cfg.ProofAttemptsPerMinute, isProtected, d.Logger))
	}
	app.Use(middleware.ShadowPay(gate, isProtected, notification.NewLoggerNotifier(d.Logger), d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	v1 := app.Group("/v1")
	RegisterDemoRoutes(v1)

	return nil
}

func buildGate(d Deps) (*shadowpay.Gate, error) {
	var invoices shadowpay.InvoiceRegistry
	switch d.Cfg.InvoiceBackend {
	case config.BackendPostgres:
		if d.DB == nil {
			return nil, fmt.Errorf("database is required when INVOICE_BACKEND=%s", d.Cfg.InvoiceBackend)
		}
		invoices = invoice.NewPostgresRegistry(d.DB)
	default:
		invoices = invoice.NewStatic(d.Cfg.ActiveInvoices...)
	}

	validator, err := shadowpay.NewValidator(invoices, escrow.NewLocks(d.Cfg.LockedEscrows...), d.Verifier)
	if err != nil {
		return nil, err
	}

	guard := d.Guard
	if guard == nil {
		if guard, err = buildGuard(d); err != nil {
			return nil, err
		}
	}
	return shadowpay.NewGate(validator, guard)
}

func buildGuard(d Deps) (shadowpay.ReplayGuard, error) {
	switch d.Cfg.ReplayBackend {
	case config.BackendRedis:
		if d.Cache == nil {
			return nil, fmt.Errorf("redis is required when REPLAY_BACKEND=%s", d.Cfg.ReplayBackend)
		}
		guard, err := replay.NewRedisGuard(d.Cache, d.Cfg.ReplayTTL)
		if err != nil {
			return nil, err
		}
		return guard, nil
	case config.BackendPostgres:
		if d.DB == nil {
			return nil, fmt.Errorf("database is required when REPLAY_BACKEND=%s", d.Cfg.ReplayBackend)
		}
		guard, err := replay.NewPostgresGuard(d.DB)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := guard.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return guard, nil
	default:
		return replay.NewMemory(), nil
	}
}

// ErrorHandler renders every unhandled error as a shadowpay.Problem body so
// clients see one error shape.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		detail := "internal server error"
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
			detail = fe.Message
		} else if logger != nil {
			logger.Error("unhandled error", slog.String("path", c.Path()), slog.Any("error", err))
		}
		return c.Status(status).JSON(shadowpay.Problem{
			Status: status,
			Title:  http.StatusText(status),
			Detail: detail,
		})
	}
}
