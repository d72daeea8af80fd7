// Package redis keeps short-lived auth state: failed login counters and revoked access tokens.
// Nothing here is a source of truth, losing it only loosens rate limiting and revocation.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	keyPrefix   = "videotube:"
	pingTimeout = 5 * time.Second
)

// Connect creates a client and makes sure redis answers
func Connect(ctx context.Context, addr string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis is not reachable. Err: %w", err)
	}

	return client, nil
}
