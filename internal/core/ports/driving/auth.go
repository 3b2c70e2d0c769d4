package driving

import (
	"context"

	"github.com/custodia-labs/biredirect/internal/core/domain"
)

// AuthService validates bearer tokens for protected operations
type AuthService interface {
	// Authenticate verifies the token and requires a subject claim
	Authenticate(ctx context.Context, token string) (*domain.AuthContext, error)

	// Authorize verifies the token and additionally requires the scope.
	// Returns ErrForbidden when the token is valid but the scope is missing.
	Authorize(ctx context.Context, token string, scope domain.Scope) (*domain.AuthContext, error)
}
