package driven

import (
	"context"

	"github.com/custodia-labs/biredirect/internal/core/domain"
)

// ConfigStore handles config record persistence (key-value backed).
// Names passed in are already normalized by the caller.
type ConfigStore interface {
	// Exists reports whether a record with the name is stored
	Exists(ctx context.Context, name string) (bool, error)

	// Insert stores a new record. Returns ErrInvalidInput if the name is missing.
	Insert(ctx context.Context, record domain.ConfigRecord) (domain.ConfigRecord, error)

	// List returns all records ordered by name
	List(ctx context.Context) ([]domain.ConfigRecord, error)

	// Get retrieves a record by name. Returns ErrNotFound if absent.
	Get(ctx context.Context, name string) (domain.ConfigRecord, error)

	// Update merges patch over the stored record (last write wins).
	// Returns ErrNotFound if absent.
	Update(ctx context.Context, name string, patch domain.ConfigRecord) (domain.ConfigRecord, error)

	// Delete removes a record, reporting whether anything was deleted
	Delete(ctx context.Context, name string) (bool, error)
}
