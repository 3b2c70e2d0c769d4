package mocks

import (
	"context"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
)

// Ensure MockTokenVerifier implements TokenVerifier
var _ driven.TokenVerifier = (*MockTokenVerifier)(nil)

// MockTokenVerifier resolves tokens from a fixed table instead of checking
// signatures. NOT secure - only for testing.
type MockTokenVerifier struct {
	tokens map[string]*domain.AuthContext
	errors map[string]error
}

// NewMockTokenVerifier creates a new MockTokenVerifier
func NewMockTokenVerifier() *MockTokenVerifier {
	return &MockTokenVerifier{
		tokens: make(map[string]*domain.AuthContext),
		errors: make(map[string]error),
	}
}

// AddToken registers a token that verifies to the given principal
func (m *MockTokenVerifier) AddToken(token, subject string, scopes ...string) {
	m.tokens[token] = &domain.AuthContext{Subject: subject, Scopes: scopes}
}

// AddError registers a token that fails verification with err
func (m *MockTokenVerifier) AddError(token string, err error) {
	m.errors[token] = err
}

func (m *MockTokenVerifier) Verify(ctx context.Context, token string) (*domain.AuthContext, error) {
	if err, ok := m.errors[token]; ok {
		return nil, err
	}
	authCtx, ok := m.tokens[token]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	return authCtx, nil
}
