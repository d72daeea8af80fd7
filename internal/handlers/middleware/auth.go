package middleware

import (
	"context"
	"net/http"

	"github.com/BNsrujan/Youtube-Clone/internal/apperrors"
	"github.com/BNsrujan/Youtube-Clone/internal/handlers/render"
	"github.com/BNsrujan/Youtube-Clone/internal/handlers/userctx"
	"github.com/BNsrujan/Youtube-Clone/internal/models"
	"github.com/BNsrujan/Youtube-Clone/internal/service/auth/tokenmanager"
)

type authService interface {
	GetUserFromRequest(ctx context.Context, r *http.Request) (models.Profile, tokenmanager.AccessClaims, error)
}

// Let the request through only with a valid access token.
// The user and token claims are put to the request context, see userctx.
// Internal failures (db or denylist unavailable) are logged with their cause.
func AuthMiddleware(as authService, l logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, claims, err := as.GetUserFromRequest(r.Context(), r)
			if err != nil {
				if apperrors.KindOf(err) == apperrors.KindInternal {
					l.Error("Authentication failed", "error", err)
				}
				render.Error(w, err)
				return
			}
			ctx := userctx.New(r.Context(), user, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
