package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driving"
)

// Auth failure messages
const (
	msgAuthorizationNeeded = "Authorization needed"
	msgUnauthorizedUser    = "Unauthorized user"
	msgExpiredToken        = "Expired Token"
	msgInvalidToken        = "Invalid token"
)

// Context keys
type contextKey string

const authContextKey contextKey = "auth_context"

// AuthMiddleware guards routes with bearer-token checks
type AuthMiddleware struct {
	authService driving.AuthService
	logger      *slog.Logger
	bypass      bool
}

// NewAuthMiddleware creates a new AuthMiddleware. With bypass set every
// guarded handler runs without a token.
func NewAuthMiddleware(authService driving.AuthService, logger *slog.Logger, bypass bool) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		authService: authService,
		logger:      logger,
		bypass:      bypass,
	}
}

// Authenticate validates the request token and adds auth context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return m.guard("", next)
}

// RequireScope validates the request token and requires the scope
func (m *AuthMiddleware) RequireScope(scope domain.Scope) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.guard(scope, next)
	}
}

func (m *AuthMiddleware) guard(scope domain.Scope, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.bypass {
			next.ServeHTTP(w, r)
			return
		}

		token := extractBearerToken(r)
		if token == "" {
			m.reject(w, r, msgAuthorizationNeeded)
			return
		}

		var (
			authCtx *domain.AuthContext
			err     error
		)
		if scope == "" {
			authCtx, err = m.authService.Authenticate(r.Context(), token)
		} else {
			authCtx, err = m.authService.Authorize(r.Context(), token, scope)
		}
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUnauthorized):
				m.reject(w, r, msgAuthorizationNeeded)
			case errors.Is(err, domain.ErrForbidden):
				m.reject(w, r, msgUnauthorizedUser)
			case errors.Is(err, domain.ErrTokenExpired):
				m.reject(w, r, msgExpiredToken)
			default:
				m.reject(w, r, msgInvalidToken)
			}
			return
		}

		// Add auth context to request context
		ctx := context.WithValue(r.Context(), authContextKey, authCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, message string) {
	m.logger.Warn("request rejected",
		"status", http.StatusUnauthorized,
		"error", message,
		"method", r.Method,
		"path", r.URL.Path,
	)
	writeError(w, http.StatusUnauthorized, message)
}

// GetAuthContext retrieves the auth context from request context
func GetAuthContext(ctx context.Context) *domain.AuthContext {
	if ctx == nil {
		return nil
	}
	authCtx, ok := ctx.Value(authContextKey).(*domain.AuthContext)
	if !ok {
		return nil
	}
	return authCtx
}

// extractBearerToken extracts the Bearer token from Authorization header
func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// Logging middleware

// LoggingMiddleware logs HTTP requests
type LoggingMiddleware struct {
	logger *slog.Logger
}

// NewLoggingMiddleware creates a new LoggingMiddleware
func NewLoggingMiddleware(logger *slog.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// Handler wraps an http.Handler with request logging
func (m *LoggingMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		rw := wrapResponseWriter(w)

		next.ServeHTTP(rw, r)

		m.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration", time.Since(start),
		)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Recovery middleware

// RecoveryMiddleware recovers from panics
type RecoveryMiddleware struct {
	logger *slog.Logger
}

// NewRecoveryMiddleware creates a new RecoveryMiddleware
func NewRecoveryMiddleware(logger *slog.Logger) *RecoveryMiddleware {
	return &RecoveryMiddleware{logger: logger}
}

// Handler wraps an http.Handler with panic recovery
func (m *RecoveryMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				m.logger.Error("panic recovered", "panic", err, "path", r.URL.Path)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
