package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName        = "ShadowPay434"
	defaultAppEnv         = "development"
	defaultPort           = "3000"
	defaultLogLevel       = "info"
	defaultShutdownDelay  = 10 * time.Second
	defaultProtected      = "/v1/protected"
	defaultActiveInvoices = "inv_demo_1"
	defaultLockedEscrows  = "LOCKED_ESCROW_FOR_DEMO"

	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
	replayTTLSecondsEnvVar = "REPLAY_TTL_SECONDS"
	replayTTLDurEnvVar     = "REPLAY_TTL"
	attemptsEnvVar         = "PROOF_ATTEMPTS_PER_MINUTE"
)

// Backend names accepted by REPLAY_BACKEND and INVOICE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendStatic   = "static"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration

	ReplayBackend string
	// ReplayTTL bounds how long a consumed nullifier is remembered by the
	// Redis guard. Zero keeps it for the lifetime of the store.
	ReplayTTL time.Duration

	InvoiceBackend    string
	ActiveInvoices    []string
	LockedEscrows     []string
	ProtectedPrefixes []string

	ProofAttemptsPerMinute int
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:           getEnv("APP_NAME", defaultAppName),
		AppEnv:            getEnv("APP_ENV", defaultAppEnv),
		Port:              getEnv("PORT", defaultPort),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		ShutdownPeriod:    defaultShutdownDelay,
		ReplayBackend:     strings.ToLower(getEnv("REPLAY_BACKEND", BackendMemory)),
		InvoiceBackend:    strings.ToLower(getEnv("INVOICE_BACKEND", BackendStatic)),
		ActiveInvoices:    splitList(getEnv("ACTIVE_INVOICES", defaultActiveInvoices)),
		LockedEscrows:     splitList(getEnv("LOCKED_ESCROWS", defaultLockedEscrows)),
		ProtectedPrefixes: splitList(getEnv("PROTECTED_PREFIXES", defaultProtected)),
	}

	var err error
	if cfg.ShutdownPeriod, err = durationFromEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, defaultShutdownDelay); err != nil {
		return Config{}, err
	}
	if cfg.ReplayTTL, err = durationFromEnv(replayTTLSecondsEnvVar, replayTTLDurEnvVar, 0); err != nil {
		return Config{}, err
	}
	if cfg.ReplayTTL < 0 {
		return Config{}, fmt.Errorf("%s must not be negative", replayTTLDurEnvVar)
	}

	if v := os.Getenv(attemptsEnvVar); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", attemptsEnvVar, err)
		}
		cfg.ProofAttemptsPerMinute = n
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.ReplayBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL must be set when REPLAY_BACKEND=%s", c.ReplayBackend)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set when REPLAY_BACKEND=%s", c.ReplayBackend)
		}
	default:
		return fmt.Errorf("unknown REPLAY_BACKEND %q", c.ReplayBackend)
	}

	switch c.InvoiceBackend {
	case BackendStatic:
		if len(c.ActiveInvoices) == 0 {
			return fmt.Errorf("ACTIVE_INVOICES must list at least one invoice id")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set when INVOICE_BACKEND=%s", c.InvoiceBackend)
		}
	default:
		return fmt.Errorf("unknown INVOICE_BACKEND %q", c.InvoiceBackend)
	}

	if len(c.ProtectedPrefixes) == 0 {
		return fmt.Errorf("PROTECTED_PREFIXES must not be empty")
	}
	if c.ProofAttemptsPerMinute < 0 {
		return fmt.Errorf("%s must not be negative", attemptsEnvVar)
	}
	if c.ProofAttemptsPerMinute > 0 && c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL must be set when %s is enabled", attemptsEnvVar)
	}
	return nil
}

// NeedsPostgres reports whether any configured backend requires a database pool.
func (c Config) NeedsPostgres() bool {
	return c.ReplayBackend == BackendPostgres || c.InvoiceBackend == BackendPostgres
}

// NeedsRedis reports whether any configured component requires a Redis client.
func (c Config) NeedsRedis() bool {
	return c.ReplayBackend == BackendRedis || c.ProofAttemptsPerMinute > 0
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// durationFromEnv prefers the integer seconds variable over the Go duration one.
func durationFromEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
