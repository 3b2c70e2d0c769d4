package redis

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/biredirect/internal/core/domain"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr, func() {
		client.Close()
		mr.Close()
	}
}

// createTestSession creates a test session with default values
func createTestSession() *domain.Session {
	return &domain.Session{
		ID: "session-123",
		Profile: domain.Profile{
			"sub":      "auth0|59",
			"name":     "xx@gmail.com",
			"nickname": "xx",
		},
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
}

func TestNewSessionStore(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)

	if store == nil {
		t.Fatal("expected non-nil SessionStore")
	}
	if store.client == nil {
		t.Error("expected non-nil Redis client")
	}
}

func TestSessionStore_Save_Success(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)
	ctx := context.Background()
	session := createTestSession()

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("unexpected error saving session: %v", err)
	}

	retrieved, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("failed to retrieve saved session: %v", err)
	}
	if retrieved.ID != session.ID {
		t.Errorf("expected ID %s, got %s", session.ID, retrieved.ID)
	}
	if retrieved.Profile.Subject() != "auth0|59" {
		t.Errorf("expected subject auth0|59, got %s", retrieved.Profile.Subject())
	}

	ttl := mr.TTL(sessionPrefix + session.ID)
	if ttl <= 0 || ttl > 24*time.Hour {
		t.Errorf("expected TTL within 24h, got %v", ttl)
	}
}

func TestSessionStore_Save_ExpiredSession(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)
	ctx := context.Background()
	session := createTestSession()
	session.ExpiresAt = time.Now().Add(-1 * time.Hour) // Already expired

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Session should not be saved since it's already expired
	_, err := store.Get(ctx, session.ID)
	if err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound for expired session, got %v", err)
	}
}

func TestSessionStore_Get_ExpiresWithTTL(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)
	ctx := context.Background()
	session := createTestSession()
	session.ExpiresAt = time.Now().Add(time.Minute)

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, session.ID)
	if err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound after TTL, got %v", err)
	}
}

func TestSessionStore_Get_NotFound(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "nonexistent")
	if err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionStore_Get_CorruptedData(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)
	if err := mr.Set(sessionPrefix+"bad", "not-json"); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	_, err := store.Get(context.Background(), "bad")
	if err == nil {
		t.Error("expected error for corrupted session data")
	}

	// Hash with an undecodable profile
	if err := client.HSet(context.Background(), sessionPrefix+"badhash",
		fieldProfile, "not-json", fieldCreatedAt, "1", fieldExpiresAt, "2").Err(); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	if _, err := store.Get(context.Background(), "badhash"); err == nil {
		t.Error("expected error for undecodable profile")
	}
}

func TestSessionStore_Save_HashLayout(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)
	session := createTestSession()
	if err := store.Save(context.Background(), session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := sessionPrefix + session.ID
	if got := mr.HGet(key, fieldExpiresAt); got != strconv.FormatInt(session.ExpiresAt.Unix(), 10) {
		t.Errorf("expected expires_at %d, got %s", session.ExpiresAt.Unix(), got)
	}
	if got := mr.HGet(key, fieldProfile); !strings.Contains(got, `"sub":"auth0|59"`) {
		t.Errorf("expected profile JSON, got %s", got)
	}
}

func TestSessionStore_Delete(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)
	ctx := context.Background()
	session := createTestSession()

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete(ctx, session.ID); err != nil {
		t.Fatalf("unexpected error deleting: %v", err)
	}

	if _, err := store.Get(ctx, session.ID); err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is not an error
	if err := store.Delete(ctx, session.ID); err != nil {
		t.Errorf("expected idempotent delete, got %v", err)
	}
}

func TestSessionStore_ConnectionError(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)
	mr.Close()

	if err := store.Save(context.Background(), createTestSession()); err == nil {
		t.Error("expected error when Redis is unavailable")
	}
}
