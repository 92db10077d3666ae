// Package ratelimit provides a Redis-backed fixed-window request limiter.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Rule describes one fixed window.
type Rule struct {
	Max    int
	Window time.Duration
}

// Limiter throttles callers per key across one or more fixed windows.
// Redis failures fail open: a broken limiter must not take down login.
type Limiter struct {
	client *redis.Client
	rules  []Rule
	logger *slog.Logger
}

// NewLimiter creates a limiter enforcing each rule independently.
func NewLimiter(client *redis.Client, logger *slog.Logger, rules ...Rule) *Limiter {
	return &Limiter{
		client: client,
		rules:  rules,
		logger: logger,
	}
}

// Allow reports whether the caller identified by key is within every
// configured window. The attempt is always counted.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l.client == nil {
		return true
	}

	for i, rule := range l.rules {
		windowKey := fmt.Sprintf("ratelimit:%s:%d", key, i)

		count, err := l.client.Incr(ctx, windowKey).Result()
		if err != nil {
			l.logger.WarnContext(ctx, "rate limiter unavailable, allowing request",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			return true
		}

		if count == 1 {
			if err := l.client.Expire(ctx, windowKey, rule.Window).Err(); err != nil {
				l.logger.WarnContext(ctx, "rate limiter expire failed",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
			}
		}

		if count > int64(rule.Max) {
			return false
		}
	}

	return true
}
