package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TokenStore = (*TokenStore)(nil)

// Storage provider credential hash and its fields
const (
	boxKeysKey        = "biredirect:box:keys"
	fieldClientID     = "clientID"
	fieldClientSecret = "clientSecret"
	fieldAccessToken  = "accessToken"
	fieldRefreshToken = "refreshToken"
)

// TokenStore implements driven.TokenStore using a Redis hash
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore creates a new Redis-backed TokenStore
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// GetCredentials returns the stored credential set (empty if unset)
func (s *TokenStore) GetCredentials(ctx context.Context) (*domain.OAuthCredentials, error) {
	values, err := s.client.HGetAll(ctx, boxKeysKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials: %w", err)
	}

	return &domain.OAuthCredentials{
		ClientID:     values[fieldClientID],
		ClientSecret: values[fieldClientSecret],
		AccessToken:  values[fieldAccessToken],
		RefreshToken: values[fieldRefreshToken],
	}, nil
}

// SaveClientCredentials stores the OAuth application credentials
func (s *TokenStore) SaveClientCredentials(ctx context.Context, clientID, clientSecret string) error {
	err := s.client.HSet(ctx, boxKeysKey,
		fieldClientID, clientID,
		fieldClientSecret, clientSecret,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to save client credentials: %w", err)
	}
	return nil
}

// SaveTokens overwrites the access and refresh tokens
func (s *TokenStore) SaveTokens(ctx context.Context, accessToken, refreshToken string) error {
	err := s.client.HSet(ctx, boxKeysKey,
		fieldAccessToken, accessToken,
		fieldRefreshToken, refreshToken,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	return nil
}
