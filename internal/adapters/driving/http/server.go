package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	handler    http.Handler
	version    string
	logger     *slog.Logger

	cookieSecure    bool
	shutdownTimeout time.Duration

	// Services
	authService    driving.AuthService
	configService  driving.ConfigService
	loginService   driving.LoginService
	storageService driving.StorageService

	// Infrastructure
	store   Pinger // Backing store health check
	metrics *Metrics
	static  *StaticHandler
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string

	// StaticDir is the single-page app asset root
	StaticDir string

	// AuthBypass disables bearer-token checks. Test environments only.
	AuthBypass bool

	// CookieSecure marks the session cookie Secure
	CookieSecure bool

	// ShutdownTimeout bounds the graceful drain on SIGINT/SIGTERM
	ShutdownTimeout time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            5000,
		Version:         "dev",
		StaticDir:       "./dist",
		ShutdownTimeout: 30 * time.Second,
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	logger *slog.Logger,
	authService driving.AuthService,
	configService driving.ConfigService,
	loginService driving.LoginService,
	storageService driving.StorageService,
	store Pinger, // can be nil
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:         http.NewServeMux(),
		version:        cfg.Version,
		logger:         logger,
		cookieSecure:   cfg.CookieSecure,
		authService:    authService,
		configService:  configService,
		loginService:   loginService,
		storageService: storageService,
		store:          store,
		metrics:        NewMetrics(),
		static:         NewStaticHandler(cfg.StaticDir, logger),
	}

	s.shutdownTimeout = cfg.ShutdownTimeout
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 30 * time.Second
	}

	s.setupRoutes(cfg.AuthBypass)

	s.handler = NewRecoveryMiddleware(logger).Handler(
		NewLoggingMiddleware(logger).Handler(
			s.metrics.Handler(s.router)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped request handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(authBypass bool) {
	// Create middleware
	authMiddleware := NewAuthMiddleware(s.authService, s.logger, authBypass)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)
	s.router.Handle("GET /metrics", s.metrics.Exposition())

	// Document redirect (public)
	s.router.HandleFunc("GET /api/redirect", s.handleRedirect)

	// Config endpoints (scoped bearer tokens)
	s.router.Handle("POST /api/configs",
		authMiddleware.RequireScope(domain.ScopeCreateConfig)(http.HandlerFunc(s.handleCreateConfig)))
	s.router.Handle("GET /api/configs",
		authMiddleware.RequireScope(domain.ScopeReadConfig)(http.HandlerFunc(s.handleListConfigs)))
	s.router.Handle("GET /api/configs/{name}",
		authMiddleware.RequireScope(domain.ScopeReadConfig)(http.HandlerFunc(s.handleGetConfig)))
	s.router.Handle("PUT /api/configs/{name}",
		authMiddleware.RequireScope(domain.ScopeUpdateConfig)(http.HandlerFunc(s.handleUpdateConfig)))
	s.router.Handle("DELETE /api/configs/{name}",
		authMiddleware.RequireScope(domain.ScopeDeleteConfig)(http.HandlerFunc(s.handleDeleteConfig)))

	// Identity provider login
	s.router.HandleFunc("GET /api/authcallback", s.handleAuthCallback)
	s.router.HandleFunc("GET /api/profile", s.handleProfile)
	s.router.Handle("GET /logout",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleLogout)))

	// Storage provider authorization (public, receives provider redirects)
	s.router.HandleFunc("GET /api/box/authenticate", s.handleStorageAuthenticate)
	s.router.HandleFunc("GET /api/box/callback", s.handleStorageCallback)

	// Single-page app fallback
	s.router.Handle("GET /{path...}", s.static)
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)

	// Start server in goroutine
	go func() {
		s.logger.Info("starting server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or listener failure
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.logger.Info("shutting down server")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
