package http

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"
)

// readyPingTimeout bounds the backing store ping behind /ready
const readyPingTimeout = 2 * time.Second

// ErrorResponse is the body of every JSON error
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"name doesn't exist"`
}

// HealthResponse reports liveness or readiness
// @Description Liveness/readiness status
type HealthResponse struct {
	Status string `json:"status" example:"ready"`
	Store  string `json:"store,omitempty" example:"ok"`
}

// VersionResponse reports the build
// @Description Build information
type VersionResponse struct {
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.0"`
}

// handleHealth godoc
// @Summary      Liveness
// @Description  Answers as long as the process serves HTTP
// @Tags         Health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleReady godoc
// @Summary      Readiness
// @Description  Pings the backing store (Redis or PostgreSQL)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyPingTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("backing store unreachable", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "not ready", Store: "unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ready", Store: "ok"})
}

// handleVersion godoc
// @Summary      Version
// @Description  Returns the build version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version, GoVersion: runtime.Version()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeText renders the storage callback's plain-text pages
func writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}
