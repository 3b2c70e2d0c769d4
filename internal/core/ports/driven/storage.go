package driven

import (
	"context"

	"github.com/custodia-labs/biredirect/internal/core/domain"
)

// StorageProvider wraps the file-storage provider's OAuth operations.
type StorageProvider interface {
	// AuthorizationURL builds the consent URL and a fresh CSRF token
	AuthorizationURL(creds *domain.OAuthCredentials, redirectURI string) (authURL, csrfToken string, err error)

	// ExchangeCode exchanges an authorization code for access/refresh tokens
	ExchangeCode(ctx context.Context, creds *domain.OAuthCredentials, redirectURI, code string) (*domain.OAuthToken, error)

	// SharedFileURL returns the public static URL for a shared document
	SharedFileURL(docID string) string
}
