package services

import (
	"context"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
	"github.com/custodia-labs/biredirect/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// authService implements the AuthService interface
type authService struct {
	verifier driven.TokenVerifier
}

// NewAuthService creates a new AuthService
func NewAuthService(verifier driven.TokenVerifier) driving.AuthService {
	return &authService{verifier: verifier}
}

// Authenticate verifies a bearer token and requires a subject
func (s *authService) Authenticate(ctx context.Context, token string) (*domain.AuthContext, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	authCtx, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if authCtx.Subject == "" {
		return nil, domain.ErrForbidden
	}

	return authCtx, nil
}

// Authorize verifies a bearer token and requires the scope to be granted
func (s *authService) Authorize(ctx context.Context, token string, scope domain.Scope) (*domain.AuthContext, error) {
	authCtx, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if !authCtx.HasScope(scope) {
		return nil, domain.ErrForbidden
	}

	return authCtx, nil
}
