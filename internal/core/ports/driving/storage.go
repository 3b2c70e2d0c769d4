package driving

import (
	"context"
)

// Storage provider messages rendered by the callback endpoint
const (
	StorageAuthenticatedMessage = "Authenticated. You can close this window."
	StorageCSRFMismatchMessage  = "Tokens don't match"
)

// StorageService drives the storage provider integration: the OAuth
// authorization handshake and shared document links.
type StorageService interface {
	// Initiate starts an authorization flow and returns the consent URL.
	// Returns ErrNotConfigured if no client credentials are stored.
	Initiate(ctx context.Context) (string, error)

	// Callback validates the CSRF state and exchanges the code for tokens.
	// Returns ErrCSRFMismatch without contacting the provider when the state
	// does not match a pending flow, and *domain.UpstreamError when the
	// provider rejects the exchange.
	Callback(ctx context.Context, state, code string) (string, error)

	// DocumentURL returns the provider's shared static URL for a document.
	// Returns ErrInvalidInput for an empty id.
	DocumentURL(docID string) (string, error)
}
