package userctx

import (
	"context"

	"github.com/BNsrujan/Youtube-Clone/internal/models"
	"github.com/BNsrujan/Youtube-Clone/internal/service/auth/tokenmanager"
)

type ctxKey string

const (
	userKey   ctxKey = "user"
	claimsKey ctxKey = "claims"
)

// Create a new context with the authenticated user and the access token claims it came with
func New(ctx context.Context, u models.Profile, claims tokenmanager.AccessClaims) context.Context {
	ctx = context.WithValue(ctx, userKey, u)
	return context.WithValue(ctx, claimsKey, claims)
}

// Extract the user from the context
func FromContext(ctx context.Context) (models.Profile, bool) {
	u, ok := ctx.Value(userKey).(models.Profile)
	return u, ok
}

func ClaimsFromContext(ctx context.Context) (tokenmanager.AccessClaims, bool) {
	c, ok := ctx.Value(claimsKey).(tokenmanager.AccessClaims)
	return c, ok
}
