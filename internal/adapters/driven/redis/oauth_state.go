package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.OAuthStateStore = (*OAuthStateStore)(nil)

const oauthStatePrefix = "biredirect:oauth:state:"

// DefaultOAuthStateTTL is the default time-to-live for OAuth states.
const DefaultOAuthStateTTL = 10 * time.Minute

// OAuthStateStore implements driven.OAuthStateStore using Redis.
// Each pending state is its own key, expired by Redis TTL.
type OAuthStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOAuthStateStore creates a new Redis-backed OAuth state store.
func NewOAuthStateStore(client *redis.Client) *OAuthStateStore {
	return &OAuthStateStore{
		client: client,
		ttl:    DefaultOAuthStateTTL,
	}
}

// Save stores a new OAuth state.
func (s *OAuthStateStore) Save(ctx context.Context, state *driven.OAuthState) error {
	now := time.Now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	if state.ExpiresAt.IsZero() {
		state.ExpiresAt = now.Add(s.ttl)
	}

	ttl := time.Until(state.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal oauth state: %w", err)
	}

	if err := s.client.Set(ctx, oauthStatePrefix+state.State, data, ttl).Err(); err != nil {
		return fmt.Errorf("save oauth state: %w", err)
	}

	return nil
}

// GetAndDelete atomically retrieves and deletes the state using GETDEL.
func (s *OAuthStateStore) GetAndDelete(ctx context.Context, state string) (*driven.OAuthState, error) {
	data, err := s.client.GetDel(ctx, oauthStatePrefix+state).Bytes()
	if err == redis.Nil {
		return nil, nil // State not found or expired
	}
	if err != nil {
		return nil, fmt.Errorf("get and delete oauth state: %w", err)
	}

	var oauthState driven.OAuthState
	if err := json.Unmarshal(data, &oauthState); err != nil {
		return nil, fmt.Errorf("unmarshal oauth state: %w", err)
	}
	if time.Now().After(oauthState.ExpiresAt) {
		return nil, nil
	}

	return &oauthState, nil
}

// Cleanup is a no-op: Redis expires states on its own.
func (s *OAuthStateStore) Cleanup(ctx context.Context) error {
	return nil
}
