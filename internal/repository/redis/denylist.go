package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// TokenDenylist remembers access token ids revoked before their expiry.
// Entries expire together with the token, so the set never outgrows the live tokens.
type TokenDenylist struct {
	client goredis.UniversalClient
	now    func() time.Time
}

func NewTokenDenylist(client goredis.UniversalClient) *TokenDenylist {
	return &TokenDenylist{client: client, now: time.Now}
}

func (d *TokenDenylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil // already expired, nothing to deny
	}

	if err := d.client.Set(ctx, revokedKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return n > 0, nil
}

func revokedKey(jti string) string {
	return keyPrefix + "revoked:" + jti
}
