package driving

import (
	"context"

	"github.com/custodia-labs/biredirect/internal/core/domain"
)

// LoginService handles the identity provider's browser login flow
type LoginService interface {
	// Callback exchanges the login code, fetches the user profile and
	// creates a browser session holding it
	Callback(ctx context.Context, code string) (*domain.Session, error)

	// Session retrieves a browser session
	Session(ctx context.Context, id string) (*domain.Session, error)

	// Logout clears the session and returns the provider's logout URL
	Logout(ctx context.Context, sessionID string) (string, error)
}
