package domain

import "time"

// OAuthCredentials is the single credential set for the storage provider.
// Client credentials are seeded from configuration; tokens are written by
// the authorization callback and persist until overwritten.
type OAuthCredentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// IsConfigured reports whether client credentials are present.
func (c *OAuthCredentials) IsConfigured() bool {
	return c != nil && c.ClientID != "" && c.ClientSecret != ""
}

// IsAuthorized reports whether an access token has been obtained.
func (c *OAuthCredentials) IsAuthorized() bool {
	return c != nil && c.AccessToken != ""
}

// OAuthToken is the result of an authorization-code exchange.
type OAuthToken struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Expiry       time.Time
}
