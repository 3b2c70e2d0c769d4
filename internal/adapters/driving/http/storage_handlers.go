package http

import (
	"errors"
	"net/http"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driving"
)

// handleRedirect godoc
// @Summary      Document redirect
// @Description  Redirects to the storage provider's shared static URL for a document
// @Tags         Documents
// @Param        docID  query  string  true  "Shared document id"
// @Success      302
// @Failure      400  {object}  ErrorResponse  "docID is required"
// @Router       /api/redirect [get]
func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	target, err := s.storageService.DocumentURL(r.URL.Query().Get("docID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "docID is required")
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

// handleStorageAuthenticate godoc
// @Summary      Start storage authorization
// @Description  Redirects to the storage provider's consent page
// @Tags         Storage
// @Success      302
// @Failure      503  {object}  ErrorResponse  "Storage provider not configured"
// @Failure      500  {object}  ErrorResponse
// @Router       /api/box/authenticate [get]
func (s *Server) handleStorageAuthenticate(w http.ResponseWriter, r *http.Request) {
	authURL, err := s.storageService.Initiate(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, "storage provider is not configured")
			return
		}
		s.logger.Error("storage authorization failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start authorization")
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// handleStorageCallback godoc
// @Summary      Storage authorization callback
// @Description  Verifies the CSRF state and stores the provider tokens
// @Tags         Storage
// @Produce      plain
// @Param        state  query     string  true   "CSRF token"
// @Param        code   query     string  false  "Authorization code"
// @Success      200    {string}  string  "Authenticated. You can close this window."
// @Failure      400    {string}  string  "Tokens don't match"
// @Failure      502    {string}  string  "Provider exchange failed"
// @Router       /api/box/callback [get]
func (s *Server) handleStorageCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if providerErr := q.Get("error"); providerErr != "" {
		message := q.Get("error_description")
		if message == "" {
			message = providerErr
		}
		s.logger.Warn("storage callback error", "error", providerErr)
		writeText(w, http.StatusBadRequest, message)
		return
	}

	message, err := s.storageService.Callback(r.Context(), q.Get("state"), q.Get("code"))
	if err != nil {
		var upstream *domain.UpstreamError
		switch {
		case errors.Is(err, domain.ErrCSRFMismatch):
			writeText(w, http.StatusBadRequest, driving.StorageCSRFMismatchMessage)
		case errors.Is(err, domain.ErrInvalidInput):
			writeText(w, http.StatusBadRequest, "Missing authorization code")
		case errors.Is(err, domain.ErrNotConfigured):
			writeText(w, http.StatusServiceUnavailable, "Storage provider is not configured")
		case errors.As(err, &upstream):
			writeText(w, http.StatusBadGateway, "Authentication with the storage provider failed")
		default:
			s.logger.Error("storage callback failed", "error", err)
			writeText(w, http.StatusInternalServerError, "Authentication failed")
		}
		return
	}

	writeText(w, http.StatusOK, message)
}
