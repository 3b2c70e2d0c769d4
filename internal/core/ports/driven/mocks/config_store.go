package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
)

// Ensure MockConfigStore implements ConfigStore
var _ driven.ConfigStore = (*MockConfigStore)(nil)

// MockConfigStore is an in-memory ConfigStore for testing
type MockConfigStore struct {
	mu      sync.RWMutex
	records map[string]domain.ConfigRecord
}

// NewMockConfigStore creates a new MockConfigStore
func NewMockConfigStore() *MockConfigStore {
	return &MockConfigStore{
		records: make(map[string]domain.ConfigRecord),
	}
}

func (m *MockConfigStore) Exists(ctx context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[name]
	return ok, nil
}

func (m *MockConfigStore) Insert(ctx context.Context, record domain.ConfigRecord) (domain.ConfigRecord, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.Name()] = record.Clone()
	return record.Clone(), nil
}

func (m *MockConfigStore) List(ctx context.Context) ([]domain.ConfigRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.records))
	for name := range m.records {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]domain.ConfigRecord, 0, len(names))
	for _, name := range names {
		out = append(out, m.records[name].Clone())
	}
	return out, nil
}

func (m *MockConfigStore) Get(ctx context.Context, name string) (domain.ConfigRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return record.Clone(), nil
}

func (m *MockConfigStore) Update(ctx context.Context, name string, patch domain.ConfigRecord) (domain.ConfigRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	merged := record.Merge(patch)
	m.records[name] = merged
	return merged.Clone(), nil
}

func (m *MockConfigStore) Delete(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[name]; !ok {
		return false, nil
	}
	delete(m.records, name)
	return true, nil
}
