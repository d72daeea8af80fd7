package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/BNsrujan/Youtube-Clone/internal/handlers/middleware"
	"github.com/BNsrujan/Youtube-Clone/internal/logger"
	"github.com/BNsrujan/Youtube-Clone/internal/models"
	"github.com/BNsrujan/Youtube-Clone/internal/service/auth"
	"github.com/BNsrujan/Youtube-Clone/internal/service/auth/tokenmanager"
	"github.com/BNsrujan/Youtube-Clone/internal/service/user"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	userService userService,
	logger logger.Logger,
) http.Handler {
	withAuth := middleware.AuthMiddleware(authService, logger)

	apiusers := http.NewServeMux()

	apiusers.Handle("POST /register", handleRegister(userService, logger))
	apiusers.Handle("POST /login", handleLogin(authService, logger))
	apiusers.Handle("POST /refresh-token", handleTokenRefresh(authService, logger))

	apiusers.Handle("POST /logout", withAuth(handleLogout(authService, logger)))
	apiusers.Handle("POST /change-password", withAuth(handleChangePassword(authService, logger)))
	apiusers.Handle("GET /current-user", withAuth(handleCurrentUser()))
	apiusers.Handle("PATCH /update-account", withAuth(handleUpdateAccount(userService, logger)))

	apiv1 := http.NewServeMux()
	apiv1.Handle("GET /healthcheck", handleHealthcheck())
	apiv1.Handle("/users/", http.StripPrefix("/users", apiusers))

	root := http.NewServeMux()
	root.Handle("/api/v1/", http.StripPrefix("/api/v1", apiv1))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type authService interface {
	// Login user with username or email and password
	// Errors are *apperrors.Error ready to be rendered
	Login(ctx context.Context, c auth.Credentials) (models.Profile, models.TokenPair, error)

	// Exchange refresh token for a new pair, the presented one is consumed
	RefreshPair(ctx context.Context, refresh string) (models.TokenPair, error)

	// Drop the user session
	Logout(ctx context.Context, userID uuid.UUID, claims tokenmanager.AccessClaims) error

	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword string, newPassword string) error

	// Set auth tokens (access, refresh) to response
	SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair)

	// Expire auth cookies
	ClearTokens(w http.ResponseWriter)

	// Get refresh token from request
	GetRefreshString(r *http.Request) (string, error)

	// Get request and return user if it authenticated or error
	GetUserFromRequest(ctx context.Context, r *http.Request) (models.Profile, tokenmanager.AccessClaims, error)
}

type userService interface {
	CreateUser(ctx context.Context, p user.RegisterParams) (models.Profile, error)
	UpdateAccount(ctx context.Context, userID uuid.UUID, fullName string, email string) (models.Profile, error)
}
