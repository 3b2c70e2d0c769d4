package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates a valid token lacks the required scope
	ErrForbidden = errors.New("forbidden")

	// ErrTokenExpired indicates the bearer token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the bearer token is malformed or failed verification
	ErrTokenInvalid = errors.New("token invalid")

	// ErrSessionNotFound indicates the browser session does not exist
	ErrSessionNotFound = errors.New("session not found")

	// ErrCSRFMismatch indicates the OAuth callback state does not match a pending flow
	ErrCSRFMismatch = errors.New("csrf token mismatch")

	// ErrNotConfigured indicates a required integration has no credentials
	ErrNotConfigured = errors.New("not configured")
)

// UpstreamError wraps a failure reported by an external provider
// (identity provider or storage provider).
type UpstreamError struct {
	Provider string
	Op       string
	Err      error
}

func (e *UpstreamError) Error() string {
	return e.Provider + " " + e.Op + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError wraps err as a provider failure.
func NewUpstreamError(provider, op string, err error) *UpstreamError {
	return &UpstreamError{Provider: provider, Op: op, Err: err}
}
