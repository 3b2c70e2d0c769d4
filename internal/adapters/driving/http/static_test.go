package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticFallback(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Join(env.staticRoot, "assets.d"), 0o755))

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantBody   string
	}{
		{"root", "/", http.StatusOK, "<html>app</html>"},
		{"client route", "/configs/prod", http.StatusOK, "<html>app</html>"},
		{"asset", "/assets/app.js", http.StatusOK, "console.log('app')"},
		{"missing asset", "/assets/missing.js", http.StatusNotFound, ""},
		{"directory with dot", "/assets.d/", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodGet, tt.target, "", nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestAssetName(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"", "index.html", true},
		{"about", "index.html", true},
		{"assets/app.js", "assets/app.js", true},
		{"../secret.txt", "", false},
		{"assets/../../secret.txt", "", false},
		{"assets/./app.js", "assets/app.js", true},
	}

	for _, tt := range tests {
		got, ok := assetName(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestStaticHandler_MissingRoot(t *testing.T) {
	h := NewStaticHandler("/nonexistent/biredirect/dist", slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetPathValue("path", "")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
