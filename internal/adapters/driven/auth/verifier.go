package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
)

// Ensure JWKSVerifier implements TokenVerifier
var _ driven.TokenVerifier = (*JWKSVerifier)(nil)

// maxJWKSSize bounds the key set document read from the provider
const maxJWKSSize = 1 << 20

// VerifierConfig configures a JWKSVerifier
type VerifierConfig struct {
	// JWKSURL is the identity provider's key set endpoint
	JWKSURL string

	// Audience is the required "aud" claim
	Audience string

	// Issuer is the required "iss" claim
	Issuer string

	// HTTPClient fetches the key set. Defaults to a client with a 30s timeout.
	HTTPClient *http.Client
}

// ConfigForDomain returns the verifier settings for an Auth0 tenant domain.
// An empty audience selects the tenant's management API audience.
func ConfigForDomain(tenant, audience string) VerifierConfig {
	base := "https://" + strings.TrimSuffix(tenant, "/") + "/"
	if audience == "" {
		audience = base + "api/v2/"
	}
	return VerifierConfig{
		JWKSURL:  base + ".well-known/jwks.json",
		Audience: audience,
		Issuer:   base,
	}
}

// JWKSVerifier validates RS256 bearer tokens against a remote JWKS.
// The key set is fetched on every call.
type JWKSVerifier struct {
	jwksURL    string
	audience   string
	issuer     string
	httpClient *http.Client
}

// NewJWKSVerifier creates a verifier
func NewJWKSVerifier(cfg VerifierConfig) *JWKSVerifier {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &JWKSVerifier{
		jwksURL:    cfg.JWKSURL,
		audience:   cfg.Audience,
		issuer:     cfg.Issuer,
		httpClient: client,
	}
}

// Verify checks signature, audience, issuer and expiry
func (v *JWKSVerifier) Verify(ctx context.Context, tokenString string) (*domain.AuthContext, error) {
	token, err := jwt.Parse(tokenString,
		func(token *jwt.Token) (interface{}, error) {
			return v.signingKey(ctx, token)
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.audience),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	subject, _ := claims.GetSubject()
	scope, _ := claims["scope"].(string)

	return &domain.AuthContext{
		Subject: subject,
		Scopes:  domain.ParseScopes(scope),
	}, nil
}

// signingKey fetches the key set and returns the key matching the token's
// kid, or the first key when the token carries none.
func (v *JWKSVerifier) signingKey(ctx context.Context, token *jwt.Token) (interface{}, error) {
	keySet, err := v.fetchKeySet(ctx)
	if err != nil {
		return nil, err
	}

	var (
		key   jwk.Key
		found bool
	)
	if kid, ok := token.Header["kid"].(string); ok && kid != "" {
		key, found = keySet.LookupKeyID(kid)
	}
	if !found {
		key, found = keySet.Key(0)
	}
	if !found {
		return nil, fmt.Errorf("no signing key in JWKS")
	}

	var rawKey interface{}
	if err := jwk.Export(key, &rawKey); err != nil {
		return nil, fmt.Errorf("failed to export raw key: %w", err)
	}

	return rawKey, nil
}

func (v *JWKSVerifier) fetchKeySet(ctx context.Context) (jwk.Set, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build JWKS request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch JWKS: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJWKSSize))
	if err != nil {
		return nil, fmt.Errorf("read JWKS: %w", err)
	}

	keySet, err := jwk.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse JWKS: %w", err)
	}
	return keySet, nil
}
