package userctx

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BNsrujan/Youtube-Clone/internal/models"
	"github.com/BNsrujan/Youtube-Clone/internal/service/auth/tokenmanager"
)

func TestUserCtx(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		u := models.Profile{ID: uuid.New(), Username: "alice"}
		claims := tokenmanager.AccessClaims{RegisteredClaims: jwt.RegisteredClaims{ID: "jti"}}

		ctx := New(context.Background(), u, claims)

		got, ok := FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, u, got)

		gotClaims, ok := ClaimsFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, "jti", gotClaims.ID)
	})

	t.Run("empty context", func(t *testing.T) {
		_, ok := FromContext(context.Background())
		assert.False(t, ok)

		_, ok = ClaimsFromContext(context.Background())
		assert.False(t, ok)
	})
}
