package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window counter in Redis.
type Limiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

// Allow counts one hit for key. Redis errors fail open.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.limit <= 0 {
		return true
	}
	k := fmt.Sprintf("rl:%s:%s", l.prefix, key)
	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		l.rdb.Expire(ctx, k, l.window)
	}
	return count <= int64(l.limit)
}

// AllowUser keys the window by Telegram user id.
func (l *Limiter) AllowUser(ctx context.Context, userID int64) bool {
	return l.Allow(ctx, fmt.Sprintf("%d", userID))
}

func RateLimitMiddleware(rdb *redis.Client, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := NewLimiter(rdb, c.Path(), limit, window)
		if !l.Allow(context.Background(), c.IP()) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
