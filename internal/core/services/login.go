package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
	"github.com/custodia-labs/biredirect/internal/core/ports/driving"
)

// DefaultSessionTTL is how long a browser session lasts after login.
const DefaultSessionTTL = 24 * time.Hour

// Ensure loginService implements LoginService
var _ driving.LoginService = (*loginService)(nil)

// LoginServiceConfig holds configuration for the login service.
type LoginServiceConfig struct {
	// Provider is the external identity provider.
	Provider driven.IdentityProvider

	// SessionStore persists browser sessions.
	SessionStore driven.SessionStore

	// ReturnURL is where the identity provider sends the browser after logout.
	ReturnURL string

	// SessionTTL defaults to DefaultSessionTTL.
	SessionTTL time.Duration
}

// loginService implements the LoginService interface
type loginService struct {
	provider     driven.IdentityProvider
	sessionStore driven.SessionStore
	returnURL    string
	sessionTTL   time.Duration
}

// NewLoginService creates a new LoginService
func NewLoginService(cfg LoginServiceConfig) driving.LoginService {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &loginService{
		provider:     cfg.Provider,
		sessionStore: cfg.SessionStore,
		returnURL:    cfg.ReturnURL,
		sessionTTL:   ttl,
	}
}

// Callback exchanges the code, loads the profile and opens a session
func (s *loginService) Callback(ctx context.Context, code string) (*domain.Session, error) {
	if code == "" {
		return nil, domain.ErrInvalidInput
	}

	token, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, domain.NewUpstreamError("identity", "exchange", err)
	}

	profile, err := s.provider.UserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, domain.NewUpstreamError("identity", "userinfo", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		Profile:   profile,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessionStore.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Session retrieves a browser session
func (s *loginService) Session(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}
	session, err := s.sessionStore.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	return session, err
}

// Logout deletes the session (if any) and returns the provider logout URL
func (s *loginService) Logout(ctx context.Context, sessionID string) (string, error) {
	if sessionID != "" {
		if err := s.sessionStore.Delete(ctx, sessionID); err != nil {
			return "", err
		}
	}
	return s.provider.LogoutURL(s.returnURL), nil
}
