package driven

import (
	"context"
	"time"
)

// OAuthState is one pending storage-provider authorization. Its State is
// the CSRF token the provider echoes back on the callback.
type OAuthState struct {
	State string `json:"state"`

	// RedirectURI must be presented again on the token exchange
	RedirectURI string `json:"redirect_uri"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OAuthStateStore holds pending authorizations keyed by CSRF token.
// Concurrent handshakes each get their own record.
type OAuthStateStore interface {
	// Save records a pending authorization. A zero ExpiresAt gets the
	// store's default lifetime.
	Save(ctx context.Context, state *OAuthState) error

	// GetAndDelete consumes the record for state. Each record is returned
	// at most once; unknown or expired states return nil, nil.
	GetAndDelete(ctx context.Context, state string) (*OAuthState, error)

	// Cleanup drops expired records. Stores with native expiry may no-op.
	Cleanup(ctx context.Context) error
}
