// Package service provides business logic for authentication.
package service

import (
	"context"
	"strings"

	"novyrix_backend/internal/auth/repository"
	"novyrix_backend/internal/auth/token"
	"novyrix_backend/platform/apperr"
	"novyrix_backend/platform/config"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const msgInvalidCredentials = "invalid credentials"

// Service provides business logic for dashboard accounts
type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
}

// New creates a new auth service
func New(repo *repository.Repository, cfg config.AuthServiceConfig) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// Register creates an account and signs in the new user.
func (s *Service) Register(ctx context.Context, name, email, plainPassword string) (*repository.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindInternal, "hash password", err)
	}

	user, err := s.repo.CreateUser(ctx, normalizeEmail(email), string(hash), strings.TrimSpace(name))
	if err != nil {
		return nil, "", err
	}

	accessToken, err := s.signAccess(user)
	if err != nil {
		return nil, "", err
	}
	return user, accessToken, nil
}

// Login verifies credentials and returns an access token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (*repository.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", apperr.Unauthorized(msgInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plainPassword)); err != nil {
		return nil, "", apperr.Unauthorized(msgInvalidCredentials)
	}

	accessToken, err := s.signAccess(user)
	if err != nil {
		return nil, "", err
	}
	return user, accessToken, nil
}

// Me fetches the authenticated user's account.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*repository.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *Service) signAccess(user *repository.User) (string, error) {
	accessToken, err := token.SignAccess(user.ID, user.Email, s.cfg.GetJWTAccessSecret(), s.cfg.GetAccessTokenTTL())
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "issue access token", err)
	}
	return accessToken, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
