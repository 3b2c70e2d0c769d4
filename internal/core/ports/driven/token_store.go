package driven

import (
	"context"

	"github.com/custodia-labs/biredirect/internal/core/domain"
)

// TokenStore persists the storage provider's single OAuth credential set.
type TokenStore interface {
	// GetCredentials returns the stored credential set.
	// Returns an empty set (not an error) when nothing has been stored.
	GetCredentials(ctx context.Context) (*domain.OAuthCredentials, error)

	// SaveClientCredentials stores the OAuth application credentials
	SaveClientCredentials(ctx context.Context, clientID, clientSecret string) error

	// SaveTokens overwrites the access and refresh tokens
	SaveTokens(ctx context.Context, accessToken, refreshToken string) error
}
