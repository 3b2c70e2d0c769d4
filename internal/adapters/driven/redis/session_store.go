package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SessionStore = (*SessionStore)(nil)

const sessionPrefix = "biredirect:session:"

// Session hash fields
const (
	fieldProfile   = "profile"
	fieldCreatedAt = "created_at"
	fieldExpiresAt = "expires_at"
)

// SessionStore keeps each browser session in its own hash. The key carries
// an absolute expiry matching the session's ExpiresAt.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a new Redis-backed SessionStore
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(id string) string {
	return sessionPrefix + id
}

// Save writes the session hash and its expiry in one MULTI block.
// Sessions that are already expired are dropped.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	if !session.ExpiresAt.After(time.Now()) {
		return nil
	}

	profile, err := json.Marshal(session.Profile)
	if err != nil {
		return fmt.Errorf("encode session profile: %w", err)
	}

	key := sessionKey(session.ID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			fieldProfile, profile,
			fieldCreatedAt, session.CreatedAt.Unix(),
			fieldExpiresAt, session.ExpiresAt.Unix(),
		)
		pipe.ExpireAt(ctx, key, session.ExpiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session %s: %w", session.ID, err)
	}
	return nil
}

// Get loads a session. A missing key (never saved, expired or deleted)
// is ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrNotFound
	}

	session := &domain.Session{ID: id}
	if err := json.Unmarshal([]byte(fields[fieldProfile]), &session.Profile); err != nil {
		return nil, fmt.Errorf("decode session profile: %w", err)
	}
	if session.CreatedAt, err = unixField(fields, fieldCreatedAt); err != nil {
		return nil, err
	}
	if session.ExpiresAt, err = unixField(fields, fieldExpiresAt); err != nil {
		return nil, err
	}
	return session, nil
}

// Delete removes a session. Unknown ids are not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Unlink(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func unixField(fields map[string]string, name string) (time.Time, error) {
	secs, err := strconv.ParseInt(fields[name], 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode session %s: %w", name, err)
	}
	return time.Unix(secs, 0), nil
}
