package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/biredirect/internal/core/services"
)

// Fake providers for testing

type fakeIdentityProvider struct {
	exchangeFn func(ctx context.Context, code string) (*domain.OAuthToken, error)
	userInfoFn func(ctx context.Context, accessToken string) (domain.Profile, error)
}

func (f *fakeIdentityProvider) ExchangeCode(ctx context.Context, code string) (*domain.OAuthToken, error) {
	if f.exchangeFn != nil {
		return f.exchangeFn(ctx, code)
	}
	return &domain.OAuthToken{AccessToken: "user-access-token"}, nil
}

func (f *fakeIdentityProvider) UserInfo(ctx context.Context, accessToken string) (domain.Profile, error) {
	if f.userInfoFn != nil {
		return f.userInfoFn(ctx, accessToken)
	}
	return domain.Profile{"sub": "auth0|59", "nickname": "xx"}, nil
}

func (f *fakeIdentityProvider) LogoutURL(returnTo string) string {
	return "https://tenant.example.com/v2/logout?returnTo=" + returnTo + "&client_id=client-id"
}

type fakeStorageProvider struct {
	exchangeCalls int
	exchangeErr   error
}

func (f *fakeStorageProvider) AuthorizationURL(creds *domain.OAuthCredentials, redirectURI string) (string, string, error) {
	return "https://account.box.com/api/oauth2/authorize?state=csrf_0123", "csrf_0123", nil
}

func (f *fakeStorageProvider) ExchangeCode(ctx context.Context, creds *domain.OAuthCredentials, redirectURI, code string) (*domain.OAuthToken, error) {
	f.exchangeCalls++
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &domain.OAuthToken{AccessToken: "box-access", RefreshToken: "box-refresh"}, nil
}

func (f *fakeStorageProvider) SharedFileURL(docID string) string {
	return "https://amadeus.box.com/shared/static/" + docID
}

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(ctx context.Context) error {
	return p.err
}

// testEnv holds a server and the fakes behind it
type testEnv struct {
	server     *Server
	verifier   *mocks.MockTokenVerifier
	configs    *mocks.MockConfigStore
	tokens     *mocks.MockTokenStore
	states     *mocks.MockOAuthStateStore
	sessions   *mocks.MockSessionStore
	identity   *fakeIdentityProvider
	storage    *fakeStorageProvider
	store      *fakePinger
	staticRoot string
}

func newTestEnv(t *testing.T, mutate ...func(*Config)) *testEnv {
	t.Helper()

	staticRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticRoot, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(staticRoot, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticRoot, "assets", "app.js"), []byte("console.log('app')"), 0o644))

	env := &testEnv{
		verifier:   mocks.NewMockTokenVerifier(),
		configs:    mocks.NewMockConfigStore(),
		tokens:     mocks.NewMockTokenStore("cid", "cs"),
		states:     mocks.NewMockOAuthStateStore(),
		sessions:   mocks.NewMockSessionStore(),
		identity:   &fakeIdentityProvider{},
		storage:    &fakeStorageProvider{},
		store:      &fakePinger{},
		staticRoot: staticRoot,
	}

	env.verifier.AddToken("admin-token", "auth0|admin",
		string(domain.ScopeCreateConfig), string(domain.ScopeReadConfig),
		string(domain.ScopeUpdateConfig), string(domain.ScopeDeleteConfig))
	env.verifier.AddToken("reader-token", "auth0|reader", string(domain.ScopeReadConfig))
	env.verifier.AddToken("anonymous-token", "", string(domain.ScopeReadConfig))
	env.verifier.AddError("expired-token", domain.ErrTokenExpired)

	cfg := DefaultConfig()
	cfg.Version = "1.2.3"
	cfg.StaticDir = staticRoot
	for _, m := range mutate {
		m(&cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env.server = NewServer(
		cfg,
		logger,
		services.NewAuthService(env.verifier),
		services.NewConfigService(env.configs),
		services.NewLoginService(services.LoginServiceConfig{
			Provider:     env.identity,
			SessionStore: env.sessions,
			ReturnURL:    "https://biredirect.herokuapp.com/",
		}),
		services.NewStorageService(services.StorageServiceConfig{
			Provider:    env.storage,
			TokenStore:  env.tokens,
			StateStore:  env.states,
			RedirectURI: "http://localhost:5000/api/box/callback",
			Logger:      logger,
		}),
		env.store,
	)

	return env
}

func (e *testEnv) do(method, target, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			data, _ := json.Marshal(b)
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])

	rec = env.do(http.MethodGet, "/version", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.2.3", decodeBody(t, rec)["version"])

	rec = env.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	env.store.err = errors.New("connection refused")
	rec = env.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "unreachable", body["store"])
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	env.do(http.MethodGet, "/health", "", nil)

	rec := env.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `biredirect_http_requests_total{code="200",method="GET",route="GET /health"} 1`)
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewRecoveryMiddleware(logger).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}
