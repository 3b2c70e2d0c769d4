package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.OAuthStateStore = (*OAuthStateStore)(nil)

// pendingStateTTL applies when a caller saves a state without ExpiresAt
const pendingStateTTL = 10 * time.Minute

// errStateCollision is returned when a CSRF token is already pending
var errStateCollision = errors.New("oauth state already pending")

// OAuthStateStore keeps pending storage-provider handshakes in the
// oauth_states table, one row per CSRF token.
type OAuthStateStore struct {
	db *DB
}

// NewOAuthStateStore creates a new OAuthStateStore
func NewOAuthStateStore(db *DB) *OAuthStateStore {
	return &OAuthStateStore{db: db}
}

// Save records a pending handshake. Tokens are random, so a second row
// with the same token is refused rather than overwritten.
func (s *OAuthStateStore) Save(ctx context.Context, state *driven.OAuthState) error {
	if state.CreatedAt.IsZero() {
		state.CreatedAt = time.Now()
	}
	if state.ExpiresAt.IsZero() {
		state.ExpiresAt = state.CreatedAt.Add(pendingStateTTL)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO oauth_states (state, redirect_uri, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (state) DO NOTHING`,
		state.State, state.RedirectURI, state.CreatedAt, state.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert oauth state: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errStateCollision
	}
	return nil
}

// GetAndDelete consumes a pending state. The row is removed by the same
// statement that reads it, so two callbacks racing on one token see it
// at most once. Unknown and expired states yield nil, nil.
func (s *OAuthStateStore) GetAndDelete(ctx context.Context, state string) (*driven.OAuthState, error) {
	row := s.db.QueryRowContext(ctx, `
		DELETE FROM oauth_states
		WHERE state = $1
		RETURNING state, redirect_uri, created_at, expires_at`,
		state,
	)

	var pending driven.OAuthState
	err := row.Scan(&pending.State, &pending.RedirectURI, &pending.CreatedAt, &pending.ExpiresAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("consume oauth state: %w", err)
	case !pending.ExpiresAt.After(time.Now()):
		return nil, nil
	}
	return &pending, nil
}

// Cleanup removes expired states
func (s *OAuthStateStore) Cleanup(ctx context.Context) error {
	_, err := s.DeleteExpired(ctx)
	return err
}

// DeleteExpired removes expired states and reports how many were removed
func (s *OAuthStateStore) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM oauth_states WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired oauth states: %w", err)
	}
	return result.RowsAffected()
}
