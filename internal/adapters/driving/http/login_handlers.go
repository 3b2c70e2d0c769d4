package http

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/biredirect/internal/core/domain"
)

// SessionCookieName is the cookie carrying the browser session id
const SessionCookieName = "biredirect_session"

// handleAuthCallback godoc
// @Summary      Login callback
// @Description  Completes the identity provider login, opens a session and redirects to redirectto
// @Tags         Login
// @Produce      html
// @Param        code               query  string  false  "Authorization code"
// @Param        redirectto         query  string  false  "Local path to continue to (default /)"
// @Param        error              query  string  false  "Provider error code"
// @Param        error_description  query  string  false  "Provider error description"
// @Success      302
// @Failure      401  {string}  string  "Provider reported an error"
// @Failure      502  {string}  string  "Provider exchange failed"
// @Router       /api/authcallback [get]
func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if providerErr := q.Get("error"); providerErr != "" {
		s.logger.Warn("login callback error", "error", providerErr)
		writeHTMLError(w, http.StatusUnauthorized, providerErr, q.Get("error_description"))
		return
	}

	session, err := s.loginService.Callback(r.Context(), q.Get("code"))
	if err != nil {
		var upstream *domain.UpstreamError
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeHTMLError(w, http.StatusBadRequest, "invalid_request", "Missing authorization code")
		case errors.As(err, &upstream):
			s.logger.Error("login callback failed", "error", err)
			writeHTMLError(w, http.StatusBadGateway, "login_failed", "Unable to complete login")
		default:
			s.logger.Error("login callback failed", "error", err)
			writeHTMLError(w, http.StatusInternalServerError, "server_error", "Unable to complete login")
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, localRedirect(q.Get("redirectto")), http.StatusFound)
}

// handleLogout godoc
// @Summary      Logout
// @Description  Clears the browser session and redirects to the identity provider logout
// @Tags         Login
// @Security     BearerAuth
// @Success      302
// @Failure      401  {object}  ErrorResponse
// @Router       /logout [get]
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var sessionID string
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	logoutURL, err := s.loginService.Logout(r.Context(), sessionID)
	if err != nil {
		s.logger.Error("logout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, logoutURL, http.StatusFound)
}

// ProfileResponse wraps the logged-in user's profile
type ProfileResponse struct {
	Data domain.Profile `json:"data"`
}

// handleProfile godoc
// @Summary      Current profile
// @Description  Returns the identity provider profile stored in the browser session
// @Tags         Login
// @Produce      json
// @Success      200  {object}  ProfileResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/profile [get]
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var sessionID string
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	session, err := s.loginService.Session(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusUnauthorized, "no session")
			return
		}
		s.logger.Error("load session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{Data: session.Profile})
}

// localRedirect returns target when it is a same-origin path, "/" otherwise
func localRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") ||
		strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

func writeHTMLError(w http.ResponseWriter, status int, title, description string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, "<h1>%s</h1><p>%s<p>", html.EscapeString(title), html.EscapeString(description))
}
