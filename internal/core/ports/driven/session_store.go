package driven

import (
	"context"

	"github.com/custodia-labs/biredirect/internal/core/domain"
)

// SessionStore persists browser sessions created by the login callback
type SessionStore interface {
	// Save writes the session until its ExpiresAt. Already expired
	// sessions may be dropped.
	Save(ctx context.Context, session *domain.Session) error

	// Get returns a live session, or ErrNotFound
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Delete removes a session; unknown ids are not an error
	Delete(ctx context.Context, id string) error
}
