package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/BNsrujan/Youtube-Clone/internal/models"
)

type CreateUserParams struct {
	Username     string
	Email        string
	FullName     string
	Avatar       string
	CoverImage   string
	PasswordHash string
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with username or email exists already has to return error apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, params CreateUserParams) (models.User, error)

	// Get user by it's id, or by username or email (either may be empty, not both)
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByIdentifier(ctx context.Context, username string, email string) (models.User, error)

	// Same as GetUserByID but locks the row until the transaction ends
	GetUserByIDForUpdate(ctx context.Context, userID uuid.UUID) (models.User, error)

	// Set or clear (token == nil) the current session token unconditionally
	SetRefreshToken(ctx context.Context, userID uuid.UUID, token *string) error

	// Replace the session token only if it still equals presented.
	// If it does not must return apperrors.ErrRefreshTokenIsUsed
	RotateRefreshToken(ctx context.Context, userID uuid.UUID, presented string, next string) error

	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error

	// Update display fields only, password and session token are never touched
	UpdateAccount(ctx context.Context, userID uuid.UUID, fullName string, email string) (models.User, error)
}

type Storage interface {
	User() UserRepo

	// Run fn with storage bound to a single transaction.
	// Commit if fn returns nil, rollback otherwise.
	InTx(ctx context.Context, fn func(Storage) error) error
}
