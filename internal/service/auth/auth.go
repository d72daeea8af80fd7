package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BNsrujan/Youtube-Clone/internal/apperrors"
	"github.com/BNsrujan/Youtube-Clone/internal/logger"
	"github.com/BNsrujan/Youtube-Clone/internal/models"
	"github.com/BNsrujan/Youtube-Clone/internal/repository"
	"github.com/BNsrujan/Youtube-Clone/internal/service/auth/tokenmanager"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"

	maxRefreshBodySize = 16 << 10
)

// Failed login counter, see redis.AttemptLimiter
type AttemptLimiter interface {
	Check(ctx context.Context, identifier string) error
	Fail(ctx context.Context, identifier string) error
	Reset(ctx context.Context, identifier string) error
}

// Revoked access token ids, see redis.TokenDenylist
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Config struct {
	// Hasher to use during login and password change
	// BcryptHasher if not set
	Hasher PasswordHasher

	// Optional. Without it failed logins are not limited
	Limiter AttemptLimiter

	// Optional. Without it access tokens stay valid until expiry after logout
	Denylist TokenDenylist

	// NoOp logger if not set
	Logger logger.Logger
}

type Credentials struct {
	Username string
	Email    string
	Password string
}

// Auth service owns the session lifecycle: login, refresh rotation, logout, password change
// and verification of access tokens.
type AuthService struct {
	hasher   PasswordHasher
	tokens   *tokenmanager.TokenManager
	storage  repository.Storage
	limiter  AttemptLimiter
	denylist TokenDenylist
	logger   logger.Logger
}

func NewService(cfg Config, tokens *tokenmanager.TokenManager, storage repository.Storage) (*AuthService, error) {
	if tokens == nil || storage == nil {
		return nil, errors.New("token manager and storage must not be nil")
	}

	if cfg.Hasher == nil {
		cfg.Hasher = DefaultHasher
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNoOpLogger()
	}

	return &AuthService{
		hasher:   cfg.Hasher,
		tokens:   tokens,
		storage:  storage,
		limiter:  cfg.Limiter,
		denylist: cfg.Denylist,
		logger:   cfg.Logger,
	}, nil
}

// Login by username or email and password.
// On success the refresh token of the returned pair becomes the only valid one for the user.
func (s *AuthService) Login(ctx context.Context, c Credentials) (models.Profile, models.TokenPair, error) {
	var (
		profile models.Profile
		pair    models.TokenPair
	)

	username := strings.TrimSpace(c.Username)
	email := strings.TrimSpace(c.Email)
	if username == "" && email == "" {
		return profile, pair, apperrors.BadRequest("username or email is required", nil)
	}

	identifier := username
	if identifier == "" {
		identifier = email
	}

	if err := s.checkAttempts(ctx, identifier); err != nil {
		return profile, pair, err
	}

	user, err := s.storage.User().GetUserByIdentifier(ctx, username, email)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		s.failAttempt(ctx, identifier)
		return profile, pair, apperrors.NotFound("User does not exist", err)
	case err != nil:
		return profile, pair, apperrors.Internal("Internal server error", err)
	}

	if !s.hasher.Compare(user.PasswordHash, c.Password) {
		s.failAttempt(ctx, identifier)
		s.logger.Warn("Login failed: invalid password", "user_id", user.ID)
		return profile, pair, apperrors.Unauthorized("Invalid user credentials", apperrors.ErrInvalidCredentials)
	}

	pair, err = s.tokens.GeneratePair(user)
	if err != nil {
		return profile, pair, apperrors.Internal("Something went wrong while generating tokens", err)
	}

	if err := s.storage.User().SetRefreshToken(ctx, user.ID, &pair.Refresh.Value); err != nil {
		return profile, models.TokenPair{}, apperrors.Internal("Something went wrong while generating tokens", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, identifier); err != nil {
			s.logger.Error("Failed to reset login attempts", "error", err)
		}
	}

	return user.Profile(), pair, nil
}

// Limiter is best effort: when it is down logins are not blocked
func (s *AuthService) checkAttempts(ctx context.Context, identifier string) error {
	if s.limiter == nil {
		return nil
	}

	err := s.limiter.Check(ctx, identifier)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperrors.ErrTooManyAttempts):
		return apperrors.TooManyRequests("Too many login attempts, try again later", err)
	default:
		s.logger.Error("Login attempts check failed", "error", err)
		return nil
	}
}

func (s *AuthService) failAttempt(ctx context.Context, identifier string) {
	if s.limiter == nil {
		return
	}

	if err := s.limiter.Fail(ctx, identifier); err != nil {
		s.logger.Error("Failed to count login attempt", "error", err)
	}
}

// Exchange the presented refresh token for a new pair.
// The presented token is consumed: of concurrent calls with the same token exactly one succeeds.
func (s *AuthService) RefreshPair(ctx context.Context, presented string) (models.TokenPair, error) {
	var pair models.TokenPair

	if presented == "" {
		return pair, apperrors.Unauthorized("Unauthorized request", apperrors.ErrRefreshTokenMissing)
	}

	claims, err := s.tokens.ParseRefresh(presented)
	if err != nil {
		return pair, apperrors.Unauthorized("Invalid refresh token", err)
	}

	user, err := s.storage.User().GetUserByID(ctx, claims.UserID())
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		return pair, apperrors.Unauthorized("Invalid refresh token", err)
	case err != nil:
		return pair, apperrors.Internal("Internal server error", err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != presented {
		s.logger.Warn("Refresh with stale token", "user_id", user.ID)
		return pair, apperrors.Unauthorized("Refresh token is expired or used", apperrors.ErrRefreshTokenIsUsed)
	}

	pair, err = s.tokens.GeneratePair(user)
	if err != nil {
		return models.TokenPair{}, apperrors.Internal("Something went wrong while generating tokens", err)
	}

	// The check above is advisory, this conditional update is what makes rotation exclusive
	err = s.storage.User().RotateRefreshToken(ctx, user.ID, presented, pair.Refresh.Value)
	switch {
	case errors.Is(err, apperrors.ErrRefreshTokenIsUsed):
		s.logger.Warn("Refresh token rotated concurrently", "user_id", user.ID)
		return models.TokenPair{}, apperrors.Unauthorized("Refresh token is expired or used", err)
	case err != nil:
		return models.TokenPair{}, apperrors.Internal("Internal server error", err)
	}

	return pair, nil
}

// Drop the user session. Idempotent.
// With a denylist configured the access token the request was made with stops working too.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, claims tokenmanager.AccessClaims) error {
	err := s.storage.User().SetRefreshToken(ctx, userID, nil)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		return apperrors.Unauthorized("Invalid Access Token", err)
	case err != nil:
		return apperrors.Internal("Internal server error", err)
	}

	if s.denylist != nil && claims.ID != "" && claims.ExpiresAt != nil {
		if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			return apperrors.Internal("Internal server error", err)
		}
	}

	return nil
}

// Change password after checking the old one. The session is left as is.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword string, newPassword string) error {
	if newPassword == "" {
		return apperrors.BadRequest("New password is required", nil)
	}

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		user, err := st.User().GetUserByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if !s.hasher.Compare(user.PasswordHash, oldPassword) {
			return apperrors.BadRequest("Invalid old password", apperrors.ErrInvalidOldPassword)
		}

		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return apperrors.BadRequest("Can't use this as password", err)
		}

		return st.User().UpdatePasswordHash(ctx, userID, hash)
	})

	var appErr *apperrors.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, apperrors.ErrUserNotFound):
		return apperrors.Unauthorized("Invalid Access Token", err)
	default:
		return apperrors.Internal("Internal server error", err)
	}
}

// Verify access token and resolve its user.
// Read-only: never looks at or changes the session token.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (models.Profile, tokenmanager.AccessClaims, error) {
	var profile models.Profile

	if accessToken == "" {
		return profile, tokenmanager.AccessClaims{}, apperrors.Unauthorized("Unauthorized request", apperrors.ErrTokenInvalid)
	}

	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return profile, tokenmanager.AccessClaims{}, apperrors.Unauthorized("Invalid Access Token", err)
	}

	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		switch {
		case err != nil:
			return profile, tokenmanager.AccessClaims{}, apperrors.Internal("Internal server error", err)
		case revoked:
			return profile, tokenmanager.AccessClaims{}, apperrors.Unauthorized("Invalid Access Token", apperrors.ErrTokenInvalid)
		}
	}

	user, err := s.storage.User().GetUserByID(ctx, claims.UserID())
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		return profile, tokenmanager.AccessClaims{}, apperrors.Unauthorized("Invalid Access Token", err)
	case err != nil:
		return profile, tokenmanager.AccessClaims{}, apperrors.Internal("Internal server error", err)
	}

	return user.Profile(), claims, nil
}

// Authenticate request by access token from cookie or 'Authorization: Bearer' header
func (s *AuthService) GetUserFromRequest(ctx context.Context, r *http.Request) (models.Profile, tokenmanager.AccessClaims, error) {
	return s.Authenticate(ctx, accessFromRequest(r))
}

func accessFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(AccessCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Get refresh token from cookie, or from json body {"refreshToken": "..."}
func (s *AuthService) GetRefreshString(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(RefreshCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if r.Body != nil {
		err := json.NewDecoder(io.LimitReader(r.Body, maxRefreshBodySize)).Decode(&body)
		if err != nil && !errors.Is(err, io.EOF) {
			return "", apperrors.Unauthorized("Unauthorized request", apperrors.ErrRefreshTokenMissing)
		}
	}

	if body.RefreshToken == "" {
		return "", apperrors.Unauthorized("Unauthorized request", apperrors.ErrRefreshTokenMissing)
	}
	return body.RefreshToken, nil
}

// Set auth tokens (access, refresh) to response cookies
func (s *AuthService) SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair) {
	http.SetCookie(w, tokenCookie(AccessCookieName, pair.Access.Value, s.tokens.AccessTTL()))
	http.SetCookie(w, tokenCookie(RefreshCookieName, pair.Refresh.Value, s.tokens.RefreshTTL()))
}

// Expire both auth cookies on the client
func (s *AuthService) ClearTokens(w http.ResponseWriter) {
	http.SetCookie(w, tokenCookie(AccessCookieName, "", -1))
	http.SetCookie(w, tokenCookie(RefreshCookieName, "", -1))
}

// ttl < 0 deletes the cookie
func tokenCookie(name string, value string, ttl time.Duration) *http.Cookie {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}

	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}
