package mocks

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
)

var _ driven.SessionStore = (*MockSessionStore)(nil)

// MockSessionStore keeps sessions in memory. Like the real stores it drops
// sessions that are already expired and hides them once they expire.
type MockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

// NewMockSessionStore creates an empty MockSessionStore
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[string]domain.Session)}
}

func (m *MockSessionStore) Save(ctx context.Context, session *domain.Session) error {
	if !session.ExpiresAt.After(time.Now()) {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *session
	stored.Profile = maps.Clone(session.Profile)
	m.sessions[session.ID] = stored
	return nil
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.sessions[id]
	if !ok || stored.IsExpired() {
		return nil, domain.ErrNotFound
	}
	stored.Profile = maps.Clone(stored.Profile)
	return &stored, nil
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included
func (m *MockSessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
