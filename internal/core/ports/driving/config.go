package driving

import (
	"context"

	"github.com/custodia-labs/biredirect/internal/core/domain"
)

// ConfigService manages named config records.
// Names are case-insensitive; they are stored upper-cased.
type ConfigService interface {
	// Create stores a new record. Returns ErrInvalidInput if the name is
	// missing and ErrAlreadyExists if the normalized name is taken.
	Create(ctx context.Context, record domain.ConfigRecord) (domain.ConfigRecord, error)

	// List returns all records
	List(ctx context.Context) ([]domain.ConfigRecord, error)

	// Get retrieves a record by name
	Get(ctx context.Context, name string) (domain.ConfigRecord, error)

	// Update merges a partial record into the stored one
	Update(ctx context.Context, name string, patch domain.ConfigRecord) (domain.ConfigRecord, error)

	// Delete removes a record. Returns ErrNotFound if nothing was deleted.
	Delete(ctx context.Context, name string) error
}
