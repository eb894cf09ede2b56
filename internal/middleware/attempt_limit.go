package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Radrdotfun/radr-http-434-private-payment-proof/internal/shadowpay"
)

const attemptKeyPrefix = "rl:shadowpay:"

// ProofAttemptLimit caps how many requests a client IP may send to protected
// paths per minute, so nullifier guessing and proof spraying stay cheap to
// reject. It fails open when Redis is unavailable.
func ProofAttemptLimit(cache *redis.Client, maxPerMin int, isProtected shadowpay.RoutePredicate, logger *slog.Logger) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 30
	}
	return func(c *fiber.Ctx) error {
		if cache == nil || !isProtected(c.Path()) {
			return c.Next()
		}

		window := time.Now().UTC().Unix() / 60
		key := attemptKeyPrefix + c.IP() + ":" + strconv.FormatInt(window, 10)

		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err != nil {
			logger.Warn("proof attempt counter unavailable", slog.Any("error", err))
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many payment proof attempts, try again later")
		}
		return c.Next()
	}
}
