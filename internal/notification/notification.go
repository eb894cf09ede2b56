package notification

import (
	"context"
	"log/slog"
)

const (
	// KindPaymentAccepted is sent when a payment proof unlocks a protected resource.
	KindPaymentAccepted = "payment_accepted"
	// KindNullifierConflict is sent when an already spent proof is presented again.
	KindNullifierConflict = "nullifier_conflict"
)

// Message describes a payment gate event. Destination is the invoice id the
// event belongs to.
type Message struct {
	Kind        string
	Destination string
	Body        string
}

// Notifier delivers gate events to downstream systems such as invoice settlement.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes events to the structured logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(ctx context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	level := slog.LevelInfo
	if message.Kind == KindNullifierConflict {
		level = slog.LevelWarn
	}
	n.logger.Log(ctx, level, "shadowpay event",
		slog.String("kind", message.Kind),
		slog.String("invoice_id", message.Destination),
		slog.String("body", message.Body),
	)
	return nil
}
