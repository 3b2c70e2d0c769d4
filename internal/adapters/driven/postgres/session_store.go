package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore keeps browser sessions in the sessions table with the
// profile as JSONB. Expired rows stay invisible to Get until
// DeleteExpired sweeps them.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save upserts the session. Re-saving an id replaces its profile and expiry.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	profile, err := json.Marshal(session.Profile)
	if err != nil {
		return fmt.Errorf("encode session profile: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, profile, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET profile = EXCLUDED.profile, expires_at = EXCLUDED.expires_at`,
		session.ID, profile, session.CreatedAt, session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", session.ID, err)
	}
	return nil
}

// Get returns a live session or ErrNotFound
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT profile, created_at, expires_at
		FROM sessions
		WHERE id = $1 AND expires_at > NOW()`,
		id,
	)

	session := &domain.Session{ID: id}
	var profile []byte
	if err := row.Scan(&profile, &session.CreatedAt, &session.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	if err := json.Unmarshal(profile, &session.Profile); err != nil {
		return nil, fmt.Errorf("decode session profile: %w", err)
	}
	return session, nil
}

// Delete removes a session; unknown ids are not an error
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// DeleteExpired sweeps expired sessions and reports how many were removed
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}
