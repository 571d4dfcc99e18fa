package middleware

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateStore is the subset of the redis client the limiter needs.
type RateStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// RateLimiter counts requests per client IP in fixed redis windows.
type RateLimiter struct {
	store RateStore
	log   zerolog.Logger
}

func NewRateLimiter(store RateStore, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{store: store, log: log}
}

// Limit allows limit requests per window for each client IP under keySuffix.
// If redis is unavailable requests are let through.
func (rl *RateLimiter) Limit(keySuffix string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, c.IP())

		count, err := rl.store.Incr(ctx, key).Result()
		if err != nil {
			rl.log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
			return c.Next()
		}

		if count == 1 {
			if err := rl.store.Expire(ctx, key, window).Err(); err != nil {
				rl.log.Warn().Err(err).Str("key", key).Msg("failed to set rate limit window")
			}
		}

		if count > int64(limit) {
			ttl, err := rl.store.TTL(ctx, key).Result()
			if err != nil || ttl < 0 {
				ttl = window
			}
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", retryAfterSeconds(ttl)))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message":    "Too many requests",
				"retryAfter": retryAfterSeconds(ttl),
			})
		}
		return c.Next()
	}
}

func retryAfterSeconds(ttl time.Duration) int64 {
	return int64(math.Ceil(ttl.Seconds()))
}
