package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ConfigStore = (*ConfigStore)(nil)

// configsKey is the hash holding every config record, keyed by normalized name
const configsKey = "biredirect:configs"

// ConfigStore implements driven.ConfigStore using a single Redis hash.
// Each field is a record name; each value is the record's JSON document.
type ConfigStore struct {
	client *redis.Client
}

// NewConfigStore creates a new Redis-backed ConfigStore
func NewConfigStore(client *redis.Client) *ConfigStore {
	return &ConfigStore{client: client}
}

// Exists reports whether a record with the name is stored
func (s *ConfigStore) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := s.client.HExists(ctx, configsKey, name).Result()
	if err != nil {
		return false, fmt.Errorf("check config exists: %w", err)
	}
	return ok, nil
}

// Insert stores a new record. HSETNX keeps a concurrent insert of the same
// name from overwriting an existing record.
func (s *ConfigStore) Insert(ctx context.Context, record domain.ConfigRecord) (domain.ConfigRecord, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	created, err := s.client.HSetNX(ctx, configsKey, record.Name(), data).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to insert config: %w", err)
	}
	if !created {
		return nil, domain.ErrAlreadyExists
	}

	return record.Clone(), nil
}

// List returns all records ordered by name
func (s *ConfigStore) List(ctx context.Context) ([]domain.ConfigRecord, error) {
	values, err := s.client.HGetAll(ctx, configsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list configs: %w", err)
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	records := make([]domain.ConfigRecord, 0, len(names))
	for _, name := range names {
		record, err := decodeConfig([]byte(values[name]))
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// Get retrieves a record by name
func (s *ConfigStore) Get(ctx context.Context, name string) (domain.ConfigRecord, error) {
	data, err := s.client.HGet(ctx, configsKey, name).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	return decodeConfig(data)
}

// Update merges patch over the stored record. Concurrent updates of the
// same name are last-write-wins.
func (s *ConfigStore) Update(ctx context.Context, name string, patch domain.ConfigRecord) (domain.ConfigRecord, error) {
	current, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	merged := current.Merge(patch)
	data, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := s.client.HSet(ctx, configsKey, name, data).Err(); err != nil {
		return nil, fmt.Errorf("failed to update config: %w", err)
	}

	return merged, nil
}

// Delete removes a record, reporting whether anything was deleted
func (s *ConfigStore) Delete(ctx context.Context, name string) (bool, error) {
	n, err := s.client.HDel(ctx, configsKey, name).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete config: %w", err)
	}
	return n > 0, nil
}

func decodeConfig(data []byte) (domain.ConfigRecord, error) {
	var record domain.ConfigRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return record, nil
}
