package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/travelms/travel-be/internal/auth"
	"github.com/travelms/travel-be/internal/models"
	"github.com/travelms/travel-be/internal/storage"
)

// AuthService orchestrates registration, login, and profile management
// against the user store and token issuer.
type AuthService struct {
	users      storage.UserStore
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAuthService constructs the service. bcryptCost controls the password
// hashing work factor.
func NewAuthService(users storage.UserStore, tokens *auth.TokenManager, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register creates a user account and mints a session token for it.
func (s *AuthService) Register(ctx context.Context, username, email, password, name string) (models.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if username == "" || email == "" || password == "" {
		return models.User{}, "", fmt.Errorf("%w: username, email, and password are required", ErrInvalidInput)
	}

	taken, err := s.users.UsernameOrEmailTaken(ctx, username, email)
	if err != nil {
		return models.User{}, "", fmt.Errorf("check credentials: %w", err)
	}
	if taken {
		return models.User{}, "", ErrDuplicateCredential
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.CreateUser(ctx, models.User{
		Username:     username,
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	})
	if err != nil {
		// The store's unique constraint is the backstop for the race
		// between the lookup above and this insert.
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.User{}, "", ErrDuplicateCredential
		}
		return models.User{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Generate(created)
	if err != nil {
		return models.User{}, "", fmt.Errorf("generate token: %w", err)
	}
	return created, token, nil
}

// Login verifies credentials and mints a fresh session token. Unknown
// usernames and wrong passwords return the identical error.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.User, string, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return models.User{}, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// Profile returns the identity already resolved by token validation.
func (s *AuthService) Profile(user models.User) models.User {
	return user
}

// UpdateProfile persists a new name and email for the authenticated user.
func (s *AuthService) UpdateProfile(ctx context.Context, user models.User, name, email string) (models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return models.User{}, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}

	if email != user.Email {
		taken, err := s.users.EmailTakenByOther(ctx, email, user.ID)
		if err != nil {
			return models.User{}, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return models.User{}, ErrDuplicateCredential
		}
	}

	updated, err := s.users.UpdateProfile(ctx, user.ID, name, email)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			return models.User{}, ErrDuplicateCredential
		case errors.Is(err, storage.ErrNotFound):
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

// ChangePassword re-verifies the current password against a fresh copy of
// the stored hash and overwrites it with a hash of the new one. Tokens
// issued earlier stay valid.
func (s *AuthService) ChangePassword(ctx context.Context, user models.User, currentPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidInput)
	}

	fresh, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// The record vanished between token validation and this
			// call. Kept distinct from a credential mismatch.
			return ErrNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(fresh.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// UserByID loads a user record; used by the auth middleware to resolve
// the bearer of a validated token.
func (s *AuthService) UserByID(ctx context.Context, id int64) (models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// ValidateToken checks a bearer token and returns the embedded user ID.
func (s *AuthService) ValidateToken(tokenString string) (int64, error) {
	userID, err := s.tokens.Parse(tokenString)
	if err != nil {
		return 0, ErrInvalidCredentials
	}
	return userID, nil
}
