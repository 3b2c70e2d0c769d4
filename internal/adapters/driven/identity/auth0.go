package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
)

// Ensure Auth0 implements IdentityProvider
var _ driven.IdentityProvider = (*Auth0)(nil)

// Config configures the Auth0 client
type Config struct {
	// Domain is the tenant domain, e.g. "example.auth0.com"
	Domain string

	ClientID     string
	ClientSecret string

	// CallbackURL is the redirect_uri registered for the login callback
	CallbackURL string

	// BaseURL overrides "https://{Domain}" (used by tests)
	BaseURL string

	// HTTPClient defaults to a client with a 30s timeout
	HTTPClient *http.Client
}

// Auth0 is the identity provider client: code exchange, userinfo and
// logout URL construction.
type Auth0 struct {
	baseURL    string
	clientID   string
	oauth      *oauth2.Config
	httpClient *http.Client
}

// NewAuth0 creates a new Auth0 client
func NewAuth0(cfg Config) *Auth0 {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://" + cfg.Domain
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &Auth0{
		baseURL:  baseURL,
		clientID: cfg.ClientID,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   baseURL + "/authorize",
				TokenURL:  baseURL + "/oauth/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: client,
	}
}

// ExchangeCode exchanges a login callback code for an access token
func (a *Auth0) ExchangeCode(ctx context.Context, code string) (*domain.OAuthToken, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)

	token, err := a.oauth.Exchange(ctx, code)
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

// UserInfo fetches the profile of the token's owner
func (a *Auth0) UserInfo(ctx context.Context, accessToken string) (domain.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("userinfo: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var profile domain.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}

	return profile, nil
}

// LogoutURL builds the tenant logout URL returning to returnTo
func (a *Auth0) LogoutURL(returnTo string) string {
	q := url.Values{}
	q.Set("returnTo", returnTo)
	q.Set("client_id", a.clientID)
	return a.baseURL + "/v2/logout?" + q.Encode()
}
