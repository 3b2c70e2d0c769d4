package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
	"github.com/custodia-labs/biredirect/internal/core/ports/driving"
)

// DefaultStateTTL bounds how long an authorization handshake may stay pending.
const DefaultStateTTL = 10 * time.Minute

// Ensure storageService implements StorageService
var _ driving.StorageService = (*storageService)(nil)

// StorageServiceConfig holds configuration for the storage service.
type StorageServiceConfig struct {
	// Provider is the storage provider's OAuth client.
	Provider driven.StorageProvider

	// TokenStore holds the single credential set.
	TokenStore driven.TokenStore

	// StateStore holds pending CSRF tokens.
	StateStore driven.OAuthStateStore

	// RedirectURI is the callback URL registered with the provider.
	// Example: "https://app.example.com/api/box/callback"
	RedirectURI string

	// StateTTL defaults to DefaultStateTTL.
	StateTTL time.Duration

	Logger *slog.Logger
}

// storageService implements the StorageService interface.
type storageService struct {
	provider    driven.StorageProvider
	tokenStore  driven.TokenStore
	stateStore  driven.OAuthStateStore
	redirectURI string
	stateTTL    time.Duration
	logger      *slog.Logger
}

// NewStorageService creates a new storage service.
func NewStorageService(cfg StorageServiceConfig) driving.StorageService {
	ttl := cfg.StateTTL
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &storageService{
		provider:    cfg.Provider,
		tokenStore:  cfg.TokenStore,
		stateStore:  cfg.StateStore,
		redirectURI: cfg.RedirectURI,
		stateTTL:    ttl,
		logger:      logger,
	}
}

// Initiate builds the consent URL and records its CSRF token as pending.
func (s *storageService) Initiate(ctx context.Context) (string, error) {
	creds, err := s.tokenStore.GetCredentials(ctx)
	if err != nil {
		return "", fmt.Errorf("get credentials: %w", err)
	}
	if !creds.IsConfigured() {
		return "", domain.ErrNotConfigured
	}

	authURL, csrfToken, err := s.provider.AuthorizationURL(creds, s.redirectURI)
	if err != nil {
		return "", fmt.Errorf("build authorization url: %w", err)
	}

	now := time.Now()
	state := &driven.OAuthState{
		State:       csrfToken,
		RedirectURI: s.redirectURI,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.stateTTL),
	}
	if err := s.stateStore.Save(ctx, state); err != nil {
		return "", fmt.Errorf("save oauth state: %w", err)
	}

	return authURL, nil
}

// Callback consumes the pending CSRF token and exchanges the code once.
func (s *storageService) Callback(ctx context.Context, state, code string) (string, error) {
	if state == "" {
		return "", domain.ErrCSRFMismatch
	}

	// Validate and consume state (single-use)
	pending, err := s.stateStore.GetAndDelete(ctx, state)
	if err != nil {
		return "", fmt.Errorf("get oauth state: %w", err)
	}
	if pending == nil || pending.State != state {
		return "", domain.ErrCSRFMismatch
	}

	if code == "" {
		return "", domain.ErrInvalidInput
	}

	creds, err := s.tokenStore.GetCredentials(ctx)
	if err != nil {
		return "", fmt.Errorf("get credentials: %w", err)
	}
	if !creds.IsConfigured() {
		return "", domain.ErrNotConfigured
	}

	token, err := s.provider.ExchangeCode(ctx, creds, pending.RedirectURI, code)
	if err != nil {
		s.logger.Warn("storage provider token exchange failed", "error", err)
		return "", domain.NewUpstreamError("storage", "exchange", err)
	}

	if err := s.tokenStore.SaveTokens(ctx, token.AccessToken, token.RefreshToken); err != nil {
		return "", fmt.Errorf("save tokens: %w", err)
	}

	return driving.StorageAuthenticatedMessage, nil
}

// DocumentURL maps a document id to the provider's shared static URL
func (s *storageService) DocumentURL(docID string) (string, error) {
	docID = strings.TrimSpace(docID)
	if docID == "" {
		return "", domain.ErrInvalidInput
	}
	return s.provider.SharedFileURL(docID), nil
}
