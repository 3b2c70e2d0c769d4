package main

// @title           biredirect API
// @version         1.0
// @description     Document redirector and config store gateway. Redirects document ids to shared storage links and serves named config records behind scoped bearer tokens.

// @host      localhost:5000
// @BasePath  /
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Identity provider access token. Format: "Bearer {token}"

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/biredirect/internal/adapters/driven/auth"
	"github.com/custodia-labs/biredirect/internal/adapters/driven/identity"
	"github.com/custodia-labs/biredirect/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/biredirect/internal/adapters/driven/redis"
	"github.com/custodia-labs/biredirect/internal/adapters/driven/storage"
	"github.com/custodia-labs/biredirect/internal/adapters/driving/http"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
	"github.com/custodia-labs/biredirect/internal/core/services"
	"github.com/custodia-labs/biredirect/internal/platform/config"
)

var version = "dev"

// stores groups the backend-specific driven adapters
type stores struct {
	configs  driven.ConfigStore
	tokens   driven.TokenStore
	states   driven.OAuthStateStore
	sessions driven.SessionStore
	pinger   http.Pinger
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	logger.Info("biredirect starting", "version", version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open backing store", "error", err)
		os.Exit(1)
	}
	defer st.close()

	// Seed storage provider client credentials from configuration
	if cfg.BoxClientID != "" && cfg.BoxClientSecret != "" {
		if err := st.tokens.SaveClientCredentials(ctx, cfg.BoxClientID, cfg.BoxClientSecret); err != nil {
			logger.Error("failed to seed storage credentials", "error", err)
			os.Exit(1)
		}
	}

	// ===== Driven adapters (external providers) =====
	verifier := auth.NewJWKSVerifier(auth.ConfigForDomain(cfg.Auth0Domain, cfg.Auth0Audience))
	identityProvider := identity.NewAuth0(identity.Config{
		Domain:       cfg.Auth0Domain,
		ClientID:     cfg.Auth0ClientID,
		ClientSecret: cfg.Auth0ClientSecret,
		CallbackURL:  cfg.Auth0CallbackURL,
	})
	storageProvider := storage.NewBox(storage.Config{
		SharedBaseURL: cfg.StorageSharedBaseURL,
	})

	// ===== Services =====
	authService := services.NewAuthService(verifier)
	configService := services.NewConfigService(st.configs)
	loginService := services.NewLoginService(services.LoginServiceConfig{
		Provider:     identityProvider,
		SessionStore: st.sessions,
		ReturnURL:    cfg.LogoutReturnURL(),
	})
	storageService := services.NewStorageService(services.StorageServiceConfig{
		Provider:    storageProvider,
		TokenStore:  st.tokens,
		StateStore:  st.states,
		RedirectURI: cfg.StorageRedirectURI(),
		Logger:      logger,
	})

	if cfg.AuthBypass {
		logger.Warn("AUTH_BYPASS is set: bearer-token checks are disabled")
	}

	// ===== HTTP server =====
	server := http.NewServer(
		http.Config{
			Host:            cfg.Host,
			Port:            cfg.Port,
			Version:         version,
			StaticDir:       cfg.StaticDir,
			AuthBypass:      cfg.AuthBypass,
			CookieSecure:    cfg.CookieSecure,
			ShutdownTimeout: cfg.ShutdownGracePeriod,
		},
		logger,
		authService,
		configService,
		loginService,
		storageService,
		st.pinger,
	)

	if err := server.Start(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStores connects to Redis when REDIS_URL is set, Postgres otherwise
func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	if cfg.RedisURL != "" {
		logger.Info("connecting to Redis")
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, err
		}
		logger.Info("using Redis backend")

		return &stores{
			configs:  redisadapter.NewConfigStore(client),
			tokens:   redisadapter.NewTokenStore(client),
			states:   redisadapter.NewOAuthStateStore(client),
			sessions: redisadapter.NewSessionStore(client),
			pinger:   redisPinger{client},
			close:    func() { client.Close() },
		}, nil
	}

	logger.Info("connecting to PostgreSQL")
	db, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		return nil, err
	}

	// Initialize schema (idempotent)
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	key, err := postgres.DeriveKey(cfg.SecretKey)
	if err != nil {
		db.Close()
		return nil, err
	}
	sealer, err := postgres.NewCredentialSealer(key)
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("using PostgreSQL backend")

	states := postgres.NewOAuthStateStore(db)
	sessions := postgres.NewSessionStore(db)

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	go runJanitor(janitorCtx, cfg.StoreCleanupPeriod, states, sessions, logger)

	return &stores{
		configs:  postgres.NewConfigStore(db),
		tokens:   postgres.NewTokenStore(db, sealer),
		states:   states,
		sessions: sessions,
		pinger:   db,
		close: func() {
			stopJanitor()
			db.Close()
		},
	}, nil
}

// runJanitor periodically removes expired OAuth states and sessions.
// Redis expires keys itself; Postgres rows need an explicit sweep.
func runJanitor(ctx context.Context, interval time.Duration, states *postgres.OAuthStateStore, sessions *postgres.SessionStore, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sweeps := []struct {
		name  string
		sweep func(context.Context) (int64, error)
	}{
		{"oauth_states", states.DeleteExpired},
		{"sessions", sessions.DeleteExpired},
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, s := range sweeps {
				n, err := s.sweep(ctx)
				if err != nil {
					logger.Warn("expired row cleanup failed", "table", s.name, "error", err)
					continue
				}
				if n > 0 {
					logger.Debug("expired rows removed", "table", s.name, "count", n)
				}
			}
		}
	}
}

// redisPinger adapts a Redis client to http.Pinger
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
