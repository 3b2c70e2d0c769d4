package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStore_Empty(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewTokenStore(client)

	creds, err := store.GetCredentials(context.Background())
	require.NoError(t, err)
	assert.False(t, creds.IsConfigured())
	assert.False(t, creds.IsAuthorized())
}

func TestTokenStore_SaveCredentialsAndTokens(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewTokenStore(client)
	ctx := context.Background()

	require.NoError(t, store.SaveClientCredentials(ctx, "cid", "cs"))
	require.NoError(t, store.SaveTokens(ctx, "at", "rt"))

	creds, err := store.GetCredentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cid", creds.ClientID)
	assert.Equal(t, "cs", creds.ClientSecret)
	assert.Equal(t, "at", creds.AccessToken)
	assert.Equal(t, "rt", creds.RefreshToken)
	assert.Equal(t, "at", mr.HGet(boxKeysKey, fieldAccessToken))

	// New tokens overwrite the old ones and leave client credentials alone
	require.NoError(t, store.SaveTokens(ctx, "at2", "rt2"))
	creds, err = store.GetCredentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, "at2", creds.AccessToken)
	assert.Equal(t, "rt2", creds.RefreshToken)
	assert.Equal(t, "cid", creds.ClientID)
}
