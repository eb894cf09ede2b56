package logging

import (
	"encoding/hex"
	"io"
	"log/slog"
	"os"

	"golang.org/x/crypto/blake2b"
)

// New creates a JSON slog logger tagged with the service name. An invalid
// level string falls back to info.
func New(level, service string) *slog.Logger {
	return NewWithWriter(os.Stdout, level, service)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level, service string) *slog.Logger {
	lvl := new(slog.LevelVar)
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl.Set(slog.LevelInfo)
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	logger := slog.New(handler)
	if service != "" {
		logger = logger.With(slog.String("service", service))
	}
	return logger
}

// Discard returns a logger that drops all output. Useful for tests.
func Discard() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})
	return slog.New(handler)
}

// Fingerprint returns a short, log-safe digest of a secret-bearing value such
// as a nullifier.
func Fingerprint(value string) slog.Attr {
	sum := blake2b.Sum256([]byte(value))
	return slog.String("fingerprint", hex.EncodeToString(sum[:6]))
}
