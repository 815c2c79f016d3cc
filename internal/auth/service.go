package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/trophydesk/trophydesk/internal/shared"
)

// Service wraps login and token lifecycle rules.
type Service struct {
	repo   Repository
	tokens *TokenStore
}

// NewService constructs the auth service.
func NewService(repo Repository, tokens *TokenStore) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Login validates credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(ctx, shared.Actor{ID: user.ID, Name: user.DisplayName})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout revokes a bearer token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// ResolveToken returns the actor behind a token.
func (s *Service) ResolveToken(ctx context.Context, token string) (shared.Actor, error) {
	return s.tokens.Resolve(ctx, token)
}

// HashPassword produces a bcrypt hash for seeding accounts.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
