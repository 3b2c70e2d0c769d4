package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/configs", "admin-token", map[string]any{"name": "prod", "replicas": 3})
	require.Equal(t, http.StatusCreated, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, "PROD", data["name"])
	assert.Equal(t, 3.0, data["replicas"])

	rec = env.do(http.MethodPost, "/api/configs", "admin-token", map[string]any{"name": " Prod "})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Config already exists", decodeBody(t, rec)["error"])

	rec = env.do(http.MethodGet, "/api/configs/prod", "admin-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PROD", decodeBody(t, rec)["data"].(map[string]any)["name"])

	rec = env.do(http.MethodPut, "/api/configs/prod", "admin-token", map[string]any{"replicas": 5, "name": "OTHER"})
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, 5.0, data["replicas"])
	assert.Equal(t, "PROD", data["name"])

	rec = env.do(http.MethodGet, "/api/configs", "admin-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["data"], 1)

	rec = env.do(http.MethodDelete, "/api/configs/PROD", "admin-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", decodeBody(t, rec)["result"])

	rec = env.do(http.MethodGet, "/api/configs/PROD", "admin-token", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "name doesn't exist", decodeBody(t, rec)["error"])

	rec = env.do(http.MethodDelete, "/api/configs/PROD", "admin-token", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not deleted", decodeBody(t, rec)["error"])
}

func TestCreateConfig_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name      string
		body      any
		wantError string
	}{
		{"missing name", map[string]any{"replicas": 3}, "Config should have a name"},
		{"blank name", map[string]any{"name": "   "}, "Config should have a name"},
		{"non-string name", map[string]any{"name": 42}, "Config should have a name"},
		{"malformed json", "{not json", "invalid request body"},
		{"array body", "[1,2]", "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/configs", "admin-token", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantError, decodeBody(t, rec)["error"])
		})
	}
}

func TestUpdateConfig_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPut, "/api/configs/missing", "admin-token", map[string]any{"v": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not updated", decodeBody(t, rec)["error"])
}

func TestListConfigs_Empty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/configs", "reader-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestConfigRoutes_ScopeEnforced(t *testing.T) {
	env := newTestEnv(t)

	routes := []struct {
		method string
		target string
		body   any
	}{
		{http.MethodPost, "/api/configs", map[string]any{"name": "prod"}},
		{http.MethodPut, "/api/configs/PROD", map[string]any{"v": 1}},
		{http.MethodDelete, "/api/configs/PROD", nil},
	}

	for _, route := range routes {
		t.Run(route.method, func(t *testing.T) {
			rec := env.do(route.method, route.target, "reader-token", route.body)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Unauthorized user", decodeBody(t, rec)["error"])
		})
	}

	rec := env.do(http.MethodGet, "/api/configs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authorization needed", decodeBody(t, rec)["error"])
}

func TestConfigRoutes_Bypass(t *testing.T) {
	env := newTestEnv(t, func(cfg *Config) { cfg.AuthBypass = true })

	rec := env.do(http.MethodPost, "/api/configs", "", map[string]any{"name": "prod"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}
