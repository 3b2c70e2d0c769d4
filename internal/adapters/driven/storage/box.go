package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
)

// Ensure Box implements StorageProvider
var _ driven.StorageProvider = (*Box)(nil)

// Box endpoints
const (
	DefaultAuthURL        = "https://account.box.com/api/oauth2/authorize"
	DefaultTokenURL       = "https://api.box.com/oauth2/token"
	DefaultSharedBaseURL  = "https://amadeus.box.com"
	csrfTokenPrefix       = "box_csrf_token_"
	sharedStaticPathInfix = "/shared/static/"
)

// Config configures the Box client
type Config struct {
	// AuthURL and TokenURL default to the public Box endpoints
	AuthURL  string
	TokenURL string

	// SharedBaseURL is the enterprise host serving shared static links
	SharedBaseURL string

	// HTTPClient defaults to a client with a 30s timeout
	HTTPClient *http.Client
}

// Box is the storage provider client
type Box struct {
	endpoint      oauth2.Endpoint
	sharedBaseURL string
	httpClient    *http.Client
}

// NewBox creates a new Box client
func NewBox(cfg Config) *Box {
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	sharedBaseURL := cfg.SharedBaseURL
	if sharedBaseURL == "" {
		sharedBaseURL = DefaultSharedBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &Box{
		endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		sharedBaseURL: strings.TrimSuffix(sharedBaseURL, "/"),
		httpClient:    client,
	}
}

// AuthorizationURL builds the consent URL and a fresh CSRF token
func (b *Box) AuthorizationURL(creds *domain.OAuthCredentials, redirectURI string) (string, string, error) {
	if !creds.IsConfigured() {
		return "", "", domain.ErrNotConfigured
	}

	csrfToken := csrfTokenPrefix + oauth2.GenerateVerifier()
	authURL := b.config(creds, redirectURI).AuthCodeURL(csrfToken)

	return authURL, csrfToken, nil
}

// ExchangeCode exchanges an authorization code for access/refresh tokens
func (b *Box) ExchangeCode(ctx context.Context, creds *domain.OAuthCredentials, redirectURI, code string) (*domain.OAuthToken, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, b.httpClient)

	token, err := b.config(creds, redirectURI).Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	return &domain.OAuthToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}, nil
}

// SharedFileURL returns the public static URL for a shared document
func (b *Box) SharedFileURL(docID string) string {
	return b.sharedBaseURL + sharedStaticPathInfix + url.PathEscape(docID)
}

func (b *Box) config(creds *domain.OAuthCredentials, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  redirectURI,
		Endpoint:     b.endpoint,
	}
}
