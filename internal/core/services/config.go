package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
	"github.com/custodia-labs/biredirect/internal/core/ports/driving"
)

// Ensure configService implements ConfigService
var _ driving.ConfigService = (*configService)(nil)

// configService implements the ConfigService interface
type configService struct {
	store driven.ConfigStore
}

// NewConfigService creates a new ConfigService
func NewConfigService(store driven.ConfigStore) driving.ConfigService {
	return &configService{store: store}
}

// Create validates and stores a new config record under its normalized name
func (s *configService) Create(ctx context.Context, record domain.ConfigRecord) (domain.ConfigRecord, error) {
	// Name presence is checked before normalization
	if err := record.Validate(); err != nil {
		return nil, err
	}
	record = record.Normalized()

	exists, err := s.store.Exists(ctx, record.Name())
	if err != nil {
		return nil, fmt.Errorf("check config exists: %w", err)
	}
	if exists {
		return nil, domain.ErrAlreadyExists
	}

	created, err := s.store.Insert(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("insert config: %w", err)
	}
	return created, nil
}

// List returns all config records
func (s *configService) List(ctx context.Context) ([]domain.ConfigRecord, error) {
	return s.store.List(ctx)
}

// Get retrieves a config record by name
func (s *configService) Get(ctx context.Context, name string) (domain.ConfigRecord, error) {
	name = domain.NormalizeConfigName(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.store.Get(ctx, name)
}

// Update merges patch into the stored record
func (s *configService) Update(ctx context.Context, name string, patch domain.ConfigRecord) (domain.ConfigRecord, error) {
	name = domain.NormalizeConfigName(name)
	if name == "" || patch == nil {
		return nil, domain.ErrInvalidInput
	}
	return s.store.Update(ctx, name, patch)
}

// Delete removes a config record
func (s *configService) Delete(ctx context.Context, name string) error {
	name = domain.NormalizeConfigName(name)
	if name == "" {
		return domain.ErrInvalidInput
	}

	deleted, err := s.store.Delete(ctx, name)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}
