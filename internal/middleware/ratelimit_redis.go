package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Counter increments key and returns its value within the current window.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type RedisCounter struct {
	Client *redis.Client
}

// Incr starts the window on the first hit so the key expires on its own.
func (r RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := r.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := r.Client.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// RateLimiter is a fixed window limiter shared by every instance through redis.
type RateLimiter struct {
	counter Counter
	prefix  string
	limit   int
	window  time.Duration
	log     *zap.SugaredLogger
}

func NewRateLimiter(counter Counter, prefix string, limit int, window time.Duration, log *zap.SugaredLogger) *RateLimiter {
	return &RateLimiter{counter: counter, prefix: prefix, limit: limit, window: window, log: log}
}

// ByKey limits on keyFunc's result. A counter failure lets the request through.
func (r *RateLimiter) ByKey(keyFunc func(c *fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("%s:%s", r.prefix, keyFunc(c))
		count, err := r.counter.Incr(c.UserContext(), key, r.window)
		if err != nil {
			r.log.Warnw("rate limiter unavailable", "error", err)
			return c.Next()
		}
		if count > int64(r.limit) {
			return utils.JSONError(c, fiber.StatusTooManyRequests, "rate limit exceeded")
		}
		return c.Next()
	}
}

// ByIP limits per client address.
func (r *RateLimiter) ByIP() fiber.Handler {
	return r.ByKey(clientIP)
}
