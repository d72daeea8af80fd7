package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BNsrujan/Youtube-Clone/internal/apperrors"
	"github.com/BNsrujan/Youtube-Clone/internal/models"
)

const (
	defaultSigningMethod = "HS256"
	defaultIssuer        = "videotube"

	typeAccess  = "access"
	typeRefresh = "refresh"
)

// Access token payload: the user snapshot at issue time
type AccessClaims struct {
	jwt.RegisteredClaims
	Type     string `json:"typ"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// Called by jwt after registered claims are checked
func (c AccessClaims) Validate() error {
	return validateCommon(c.RegisteredClaims, c.Type, typeAccess)
}

// Safe to call on claims returned by ParseAccess
func (c AccessClaims) UserID() uuid.UUID {
	id, _ := uuid.Parse(c.Subject)
	return id
}

// Refresh token payload: user id only
type RefreshClaims struct {
	jwt.RegisteredClaims
	Type string `json:"typ"`
}

func (c RefreshClaims) Validate() error {
	return validateCommon(c.RegisteredClaims, c.Type, typeRefresh)
}

// Safe to call on claims returned by ParseRefresh
func (c RefreshClaims) UserID() uuid.UUID {
	id, _ := uuid.Parse(c.Subject)
	return id
}

func validateCommon(rc jwt.RegisteredClaims, got string, want string) error {
	if got != want {
		return fmt.Errorf("token type %q, expected %q", got, want)
	}
	if _, err := uuid.Parse(rc.Subject); err != nil {
		return errors.New("subject is not a user id")
	}
	if rc.ID == "" {
		return errors.New("token id is missing")
	}
	return nil
}

type Config struct {
	// Keys to sign access and refresh tokens
	// Both required and must differ
	AccessSecret  string
	RefreshSecret string

	// Access and refresh token lifetimes
	// Required, there are no defaults
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Value of the 'iss' claim, checked on parse
	// If not set than default is used
	Issuer string

	// Clock, time.Now if not set
	Now func() time.Time
}

type TokenManager struct {
	accessKey  []byte
	refreshKey []byte

	// JWT MAC (Message Authentication Code) algorithm
	alg jwt.SigningMethod

	issuer string

	// Access and refresh token lifetimes
	accessTTL  time.Duration
	refreshTTL time.Duration

	now func() time.Time
}

func New(cfg Config) (*TokenManager, error) {
	switch {
	case cfg.AccessSecret == "" || cfg.RefreshSecret == "":
		return nil, errors.New("access and refresh secrets must not be empty")
	case cfg.AccessSecret == cfg.RefreshSecret:
		return nil, errors.New("access and refresh secrets must differ")
	case cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0:
		return nil, errors.New("access and refresh token lifetimes must be positive")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	alg, ok := jwt.GetSigningMethod(cfg.Alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("signing method %q is not supported, use one of HS256, HS384, HS512", cfg.Alg)
	}

	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &TokenManager{
		accessKey:  []byte(cfg.AccessSecret),
		refreshKey: []byte(cfg.RefreshSecret),
		alg:        alg,
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        cfg.Now,
	}, nil
}

func (m *TokenManager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

// jwt numeric dates have second precision, so do issue times
func (m *TokenManager) issueTime() time.Time {
	return m.now().Truncate(time.Second)
}

func (m *TokenManager) registered(userID uuid.UUID, now time.Time, expiresAt time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    m.issuer,
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
}

func (m *TokenManager) IssueAccess(user models.User) (models.IssuedToken, error) {
	now := m.issueTime()
	expiresAt := now.Add(m.accessTTL)

	token := jwt.NewWithClaims(m.alg, AccessClaims{
		RegisteredClaims: m.registered(user.ID, now, expiresAt),
		Type:             typeAccess,
		Email:            user.Email,
		Username:         user.Username,
		FullName:         user.FullName,
	})

	value, err := token.SignedString(m.accessKey)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing access token. Err: %w", err)
	}

	return models.IssuedToken{Value: value, ExpiresAt: expiresAt}, nil
}

func (m *TokenManager) IssueRefresh(userID uuid.UUID) (models.IssuedToken, error) {
	now := m.issueTime()
	expiresAt := now.Add(m.refreshTTL)

	token := jwt.NewWithClaims(m.alg, RefreshClaims{
		RegisteredClaims: m.registered(userID, now, expiresAt),
		Type:             typeRefresh,
	})

	value, err := token.SignedString(m.refreshKey)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing refresh token. Err: %w", err)
	}

	return models.IssuedToken{Value: value, ExpiresAt: expiresAt}, nil
}

// Issue access and refresh tokens for the user. Does not touch any storage.
func (m *TokenManager) GeneratePair(user models.User) (models.TokenPair, error) {
	access, err := m.IssueAccess(user)
	if err != nil {
		return models.TokenPair{}, err
	}

	refresh, err := m.IssueRefresh(user.ID)
	if err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Parse and validate access token
// Every failure is reported as apperrors.ErrTokenInvalid
func (m *TokenManager) ParseAccess(access string) (AccessClaims, error) {
	var claims AccessClaims
	if err := m.parse(access, &claims, m.accessKey); err != nil {
		return AccessClaims{}, err
	}
	return claims, nil
}

// Parse and validate refresh token
// Every failure is reported as apperrors.ErrTokenInvalid
func (m *TokenManager) ParseRefresh(refresh string) (RefreshClaims, error) {
	var claims RefreshClaims
	if err := m.parse(refresh, &claims, m.refreshKey); err != nil {
		return RefreshClaims{}, err
	}
	return claims, nil
}

func (m *TokenManager) parse(value string, claims jwt.Claims, key []byte) error {
	_, err := jwt.ParseWithClaims(
		value,
		claims,
		func(t *jwt.Token) (any, error) {
			return key, nil
		},
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		// Reason is kept in the message for logs, callers may only match ErrTokenInvalid
		return fmt.Errorf("%w: %s", apperrors.ErrTokenInvalid, err.Error())
	}
	return nil
}
