package driven

import (
	"context"

	"github.com/custodia-labs/biredirect/internal/core/domain"
)

// TokenVerifier validates bearer tokens against the identity provider's
// published signing keys.
type TokenVerifier interface {
	// Verify checks signature, audience, issuer and expiry and returns the
	// token's principal. Returns ErrTokenExpired for expired tokens and
	// ErrTokenInvalid (possibly wrapped) for any other verification failure.
	Verify(ctx context.Context, token string) (*domain.AuthContext, error)
}
