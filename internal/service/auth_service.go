package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/school-records/internal/model"
	"github.com/stemsi/school-records/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted for an API user.
const MinPasswordLength = 6

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// AuthService verifies HTTP Basic credentials against stored API users.
type AuthService struct {
	users repository.UserStore
	cost  int
	log   zerolog.Logger
}

// NewAuthService creates a new AuthService. cost is the bcrypt cost used for
// new password hashes.
func NewAuthService(users repository.UserStore, cost int, log zerolog.Logger) *AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		users: users,
		cost:  cost,
		log:   log.With().Str("component", "auth_service").Logger(),
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Authenticate returns ErrInvalidCredentials for an unknown user or a wrong
// password, and a wrapped error when the lookup itself fails.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.APIUser, error) {
	res, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fault(s.log, "find api user", err)
	}
	user, ok := res.Get()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := s.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureUser creates the API user unless it already exists. It reports
// whether a user was created.
func (s *AuthService) EnsureUser(ctx context.Context, username, password string) (bool, error) {
	if len(password) < MinPasswordLength {
		return false, ErrPasswordTooShort
	}

	res, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return false, fault(s.log, "find api user", err)
	}
	if _, ok := res.Get(); ok {
		return false, nil
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	user := &model.APIUser{Username: username, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return false, nil
		}
		return false, fault(s.log, "create api user", err)
	}

	s.log.Info().Str("username", username).Msg("API user created")
	return true, nil
}
