package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
)

// Ensure MockTokenStore implements TokenStore
var _ driven.TokenStore = (*MockTokenStore)(nil)

// MockTokenStore is an in-memory TokenStore for testing
type MockTokenStore struct {
	mu    sync.RWMutex
	creds domain.OAuthCredentials

	// SaveTokensErr, when set, is returned by SaveTokens
	SaveTokensErr error
}

// NewMockTokenStore creates a MockTokenStore seeded with client credentials
func NewMockTokenStore(clientID, clientSecret string) *MockTokenStore {
	return &MockTokenStore{
		creds: domain.OAuthCredentials{ClientID: clientID, ClientSecret: clientSecret},
	}
}

func (m *MockTokenStore) GetCredentials(ctx context.Context) (*domain.OAuthCredentials, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	creds := m.creds
	return &creds, nil
}

func (m *MockTokenStore) SaveClientCredentials(ctx context.Context, clientID, clientSecret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds.ClientID = clientID
	m.creds.ClientSecret = clientSecret
	return nil
}

func (m *MockTokenStore) SaveTokens(ctx context.Context, accessToken, refreshToken string) error {
	if m.SaveTokensErr != nil {
		return m.SaveTokensErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds.AccessToken = accessToken
	m.creds.RefreshToken = refreshToken
	return nil
}
