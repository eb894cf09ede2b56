package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestLoggerNotifierLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	n := NewLoggerNotifier(logger)

	if err := n.Send(context.Background(), Message{Kind: KindNullifierConflict, Destination: "inv_demo_1", Body: "replay"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["level"] != "WARN" || entry["kind"] != KindNullifierConflict || entry["invoice_id"] != "inv_demo_1" {
		t.Fatalf("unexpected log entry: %v", entry)
	}
}

func TestNilLoggerNotifier(t *testing.T) {
	var n *LoggerNotifier
	if err := n.Send(context.Background(), Message{Kind: KindPaymentAccepted}); err != nil {
		t.Fatalf("nil notifier should be a no-op: %v", err)
	}
}
