package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/BNsrujan/Youtube-Clone/internal/apperrors"
	"github.com/BNsrujan/Youtube-Clone/internal/models"
	"github.com/BNsrujan/Youtube-Clone/internal/repository"
	"github.com/BNsrujan/Youtube-Clone/internal/service/auth"
)

type UserService struct {
	hasher  auth.PasswordHasher
	storage repository.Storage
}

func NewService(hasher auth.PasswordHasher, storage repository.Storage) *UserService {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}

	return &UserService{
		hasher:  hasher,
		storage: storage,
	}
}

type RegisterParams struct {
	FullName   string
	Email      string
	Username   string
	Password   string
	Avatar     string
	CoverImage string
}

// Register a new account. Username is stored lower-cased.
func (s *UserService) CreateUser(ctx context.Context, p RegisterParams) (models.Profile, error) {
	var profile models.Profile

	params := repository.CreateUserParams{
		Username:   strings.ToLower(strings.TrimSpace(p.Username)),
		Email:      strings.TrimSpace(p.Email),
		FullName:   strings.TrimSpace(p.FullName),
		Avatar:     strings.TrimSpace(p.Avatar),
		CoverImage: strings.TrimSpace(p.CoverImage),
	}
	if params.Username == "" || params.Email == "" || params.FullName == "" || p.Password == "" {
		return profile, apperrors.BadRequest("All fields are required", nil)
	}

	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return profile, apperrors.BadRequest("Can't use this as password", err)
	}
	params.PasswordHash = hash

	user, err := s.storage.User().CreateUser(ctx, params)
	switch {
	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		return profile, apperrors.Conflict("User with email or username already exists", err)
	case err != nil:
		return profile, apperrors.Internal("Something went wrong while registering the user", err)
	}

	return user.Profile(), nil
}

// Update display fields. Password and session are out of reach here.
func (s *UserService) UpdateAccount(ctx context.Context, userID uuid.UUID, fullName string, email string) (models.Profile, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" || email == "" {
		return models.Profile{}, apperrors.BadRequest("All fields are required", nil)
	}

	user, err := s.storage.User().UpdateAccount(ctx, userID, fullName, email)
	switch {
	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		return models.Profile{}, apperrors.Conflict("User with email already exists", err)
	case errors.Is(err, apperrors.ErrUserNotFound):
		return models.Profile{}, apperrors.NotFound("User does not exist", err)
	case err != nil:
		return models.Profile{}, apperrors.Internal("Internal server error", err)
	}

	return user.Profile(), nil
}
