package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/BNsrujan/Youtube-Clone/internal/apperrors"
)

// AttemptLimiter counts failed logins per identifier in a fixed window.
// Once MaxAttempts failures are recorded further logins are refused until the window expires.
type AttemptLimiter struct {
	client      goredis.UniversalClient
	maxAttempts int64
	cooldown    time.Duration
}

func NewAttemptLimiter(client goredis.UniversalClient, maxAttempts int, cooldown time.Duration) *AttemptLimiter {
	return &AttemptLimiter{
		client:      client,
		maxAttempts: int64(maxAttempts),
		cooldown:    cooldown,
	}
}

// Check returns apperrors.ErrTooManyAttempts when the identifier exhausted its budget
func (l *AttemptLimiter) Check(ctx context.Context, identifier string) error {
	count, err := l.client.Get(ctx, loginKey(identifier)).Int64()

	switch {
	case errors.Is(err, goredis.Nil):
		return nil
	case err != nil:
		return fmt.Errorf("redis error: %w", err)
	case count >= l.maxAttempts:
		return apperrors.ErrTooManyAttempts
	default:
		return nil
	}
}

// Fail records a failed attempt. The window starts with the first failure.
// Counter and expiry go in one transaction, a counter left without TTL gets one on the next failure.
func (l *AttemptLimiter) Fail(ctx context.Context, identifier string) error {
	key := loginKey(identifier)

	_, err := l.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.cooldown)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	return nil
}

// Reset forgets failures, called after a successful login
func (l *AttemptLimiter) Reset(ctx context.Context, identifier string) error {
	if err := l.client.Del(ctx, loginKey(identifier)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func loginKey(identifier string) string {
	return keyPrefix + "login:" + strings.ToLower(identifier)
}
