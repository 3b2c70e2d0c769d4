package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TokenStore = (*TokenStore)(nil)

// storageCredentialsID is the id of the single credential row
const storageCredentialsID = "box"

// TokenStore implements driven.TokenStore using PostgreSQL.
// The credential set is stored as one sealed blob.
type TokenStore struct {
	db     *DB
	sealer *CredentialSealer
}

// NewTokenStore creates a new TokenStore
func NewTokenStore(db *DB, sealer *CredentialSealer) *TokenStore {
	return &TokenStore{db: db, sealer: sealer}
}

// GetCredentials returns the stored credential set (empty if unset)
func (s *TokenStore) GetCredentials(ctx context.Context) (*domain.OAuthCredentials, error) {
	return s.load(ctx, s.db.DB, "")
}

// SaveClientCredentials stores the OAuth application credentials
func (s *TokenStore) SaveClientCredentials(ctx context.Context, clientID, clientSecret string) error {
	return s.modify(ctx, func(creds *domain.OAuthCredentials) {
		creds.ClientID = clientID
		creds.ClientSecret = clientSecret
	})
}

// SaveTokens overwrites the access and refresh tokens
func (s *TokenStore) SaveTokens(ctx context.Context, accessToken, refreshToken string) error {
	return s.modify(ctx, func(creds *domain.OAuthCredentials) {
		creds.AccessToken = accessToken
		creds.RefreshToken = refreshToken
	})
}

func (s *TokenStore) modify(ctx context.Context, fn func(*domain.OAuthCredentials)) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		creds, err := s.load(ctx, tx, " FOR UPDATE")
		if err != nil {
			return err
		}

		fn(creds)

		blob, err := s.sealer.Seal(storageCredentialsID, creds)
		if err != nil {
			return fmt.Errorf("seal credentials: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO storage_credentials (id, secret_blob, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (id) DO UPDATE SET
				secret_blob = EXCLUDED.secret_blob,
				updated_at = EXCLUDED.updated_at
		`, storageCredentialsID, blob)
		if err != nil {
			return fmt.Errorf("save credentials: %w", err)
		}
		return nil
	})
}

func (s *TokenStore) load(ctx context.Context, q queryRower, lock string) (*domain.OAuthCredentials, error) {
	var blob []byte
	err := q.QueryRowContext(ctx,
		`SELECT secret_blob FROM storage_credentials WHERE id = $1`+lock, storageCredentialsID,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return &domain.OAuthCredentials{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get credentials: %w", err)
	}

	creds, err := s.sealer.Open(storageCredentialsID, blob)
	if err != nil {
		return nil, fmt.Errorf("open credentials: %w", err)
	}
	return creds, nil
}
