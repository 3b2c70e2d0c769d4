package http

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
)

// indexFile is served for client-side routes
const indexFile = "index.html"

// StaticHandler serves the single-page app. Paths without a "." are client
// routes and get index.html; everything else is looked up under the asset
// root. Lookups are confined to the root directory.
type StaticHandler struct {
	fsys fs.FS
}

// NewStaticHandler opens dir as the asset root. A missing directory is
// logged and every request answers 404.
func NewStaticHandler(dir string, logger *slog.Logger) *StaticHandler {
	root, err := os.OpenRoot(dir)
	if err != nil {
		logger.Warn("static asset root unavailable", "dir", dir, "error", err)
		return &StaticHandler{}
	}
	return &StaticHandler{fsys: root.FS()}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, ok := assetName(r.PathValue("path"))
	if !ok || h.fsys == nil {
		http.NotFound(w, r)
		return
	}

	info, err := fs.Stat(h.fsys, name)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeFileFS(w, r, h.fsys, name)
}

// assetName maps a request path to a file name under the asset root
func assetName(location string) (string, bool) {
	for _, segment := range strings.Split(location, "/") {
		if segment == ".." {
			return "", false
		}
	}

	if location == "" || !strings.Contains(location, ".") {
		return indexFile, true
	}

	name := strings.TrimPrefix(path.Clean("/"+location), "/")
	if !fs.ValidPath(name) {
		return "", false
	}
	return name, true
}
