package driven

import (
	"context"

	"github.com/custodia-labs/biredirect/internal/core/domain"
)

// IdentityProvider is the external login provider (authorization-code flow).
type IdentityProvider interface {
	// ExchangeCode exchanges a login callback code for an access token
	ExchangeCode(ctx context.Context, code string) (*domain.OAuthToken, error)

	// UserInfo fetches the profile of the token's owner
	UserInfo(ctx context.Context, accessToken string) (domain.Profile, error)

	// LogoutURL builds the provider's logout URL returning to returnTo
	LogoutURL(returnTo string) string
}
