package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Run("unwrap to sentinel", func(t *testing.T) {
		err := Unauthorized("Refresh token is expired or used", ErrRefreshTokenIsUsed)

		require.ErrorIs(t, err, ErrRefreshTokenIsUsed)
		require.Equal(t, KindUnauthorized, KindOf(err))
		require.Equal(t, "Refresh token is expired or used", err.Message)
	})

	t.Run("kind survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", NotFound("User does not exist", ErrUserNotFound))

		require.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("foreign error is internal", func(t *testing.T) {
		require.Equal(t, KindInternal, KindOf(errors.New("db is down")))
	})

	t.Run("status", func(t *testing.T) {
		tests := []struct {
			kind   Kind
			status int
		}{
			{KindBadRequest, http.StatusBadRequest},
			{KindUnauthorized, http.StatusUnauthorized},
			{KindNotFound, http.StatusNotFound},
			{KindConflict, http.StatusConflict},
			{KindTooManyRequests, http.StatusTooManyRequests},
			{KindInternal, http.StatusInternalServerError},
		}

		for _, tt := range tests {
			require.Equal(t, tt.status, tt.kind.Status())
		}
	})
}
