package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTenant(t *testing.T) (*httptest.Server, *Auth0) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseForm()) {
			return
		}
		if r.Form.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid authorization code"}`))
			return
		}
		assert.Equal(t, "client-id", r.Form.Get("client_id"))
		assert.Equal(t, "client-secret", r.Form.Get("client_secret"))
		assert.Equal(t, "http://localhost:5000/api/authcallback", r.Form.Get("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "user-access-token",
			"token_type":   "Bearer",
			"expires_in":   86400,
		})
	})
	mux.HandleFunc("GET /userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer user-access-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Unauthorized"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"auth0|59","name":"xx@gmail.com","nickname":"xx"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewAuth0(Config{
		Domain:       "tenant.example.com",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		CallbackURL:  "http://localhost:5000/api/authcallback",
		BaseURL:      server.URL,
	})
	return server, client
}

func TestAuth0_ExchangeAndUserInfo(t *testing.T) {
	_, client := newTestTenant(t)
	ctx := context.Background()

	token, err := client.ExchangeCode(ctx, "good-code")
	require.NoError(t, err)
	assert.Equal(t, "user-access-token", token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)

	profile, err := client.UserInfo(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "auth0|59", profile.Subject())
	assert.Equal(t, "xx", profile["nickname"])
}

func TestAuth0_ExchangeCode_Rejected(t *testing.T) {
	_, client := newTestTenant(t)

	_, err := client.ExchangeCode(context.Background(), "bad-code")
	assert.Error(t, err)
}

func TestAuth0_UserInfo_Unauthorized(t *testing.T) {
	_, client := newTestTenant(t)

	_, err := client.UserInfo(context.Background(), "wrong-token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestAuth0_LogoutURL(t *testing.T) {
	client := NewAuth0(Config{Domain: "tenant.example.com", ClientID: "client-id"})

	logoutURL := client.LogoutURL("https://app.herokuapp.com/")

	parsed, err := url.Parse(logoutURL)
	require.NoError(t, err)
	assert.Equal(t, "https", parsed.Scheme)
	assert.Equal(t, "tenant.example.com", parsed.Host)
	assert.Equal(t, "/v2/logout", parsed.Path)
	assert.Equal(t, "https://app.herokuapp.com/", parsed.Query().Get("returnTo"))
	assert.Equal(t, "client-id", parsed.Query().Get("client_id"))
}
