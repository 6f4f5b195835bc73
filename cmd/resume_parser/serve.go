package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Vigneshm07/resume-parser/internal/config"
	"github.com/Vigneshm07/resume-parser/internal/db"
	"github.com/Vigneshm07/resume-parser/internal/server"
	"github.com/Vigneshm07/resume-parser/internal/server/ratelimit"
	"github.com/Vigneshm07/resume-parser/internal/session"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

// janitorInterval is how often expired sessions are purged
const janitorInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that accepts resume uploads and keeps one editable session per upload.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := *appConfig
	if servePort != 0 {
		cfg.Port = servePort
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	store, closeStore, err := openSessionStore(ctx, &cfg)
	if err != nil {
		return err
	}

	tokens, err := tokenService(cfg.SessionBackend)
	if err != nil {
		closeStore()
		return err
	}

	srv := server.New(server.Config{
		Port:              cfg.Port,
		MaxUploadBytes:    cfg.MaxUploadBytes,
		SkipPDFValidation: cfg.SkipPDFValidation,
	}, store, tokens, ratelimit.NewLimiter(ratelimit.LoadConfig()))
	srv.OnShutdown(cancel)
	srv.OnShutdown(closeStore)

	return srv.Start()
}

// openSessionStore builds the configured session backend and starts its expiry janitor.
// The returned func releases the backend's connections.
func openSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	ttl, err := cfg.TTL()
	if err != nil {
		return nil, nil, err
	}

	switch cfg.SessionBackend {
	case config.BackendRedis:
		client, err := session.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("using redis session store", "ttl", ttl)
		return session.NewRedisStore(client, ttl), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, nil, err
		}
		store := db.NewSessionStore(database, ttl)
		if ttl > 0 {
			go purgeExpired(ctx, store)
		}
		slog.Info("using postgres session store", "ttl", ttl)
		return store, database.Close, nil

	default:
		store := session.NewMemoryStore(ttl)
		if ttl > 0 {
			go store.RunJanitor(ctx, janitorInterval)
		}
		slog.Info("using in-memory session store", "ttl", ttl)
		return store, func() {}, nil
	}
}

func purgeExpired(ctx context.Context, store *db.SessionStore) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.DeleteExpired(ctx)
			if err != nil {
				slog.Warn("failed to purge expired sessions", "error", err)
			} else if n > 0 {
				slog.Debug("purged expired sessions", "count", n)
			}
		}
	}
}

// tokenService signs session tokens with JWT_SECRET. Without it, the in-memory backend gets
// a per-process secret; shared backends refuse to start.
func tokenService(backend string) (*session.TokenService, error) {
	if os.Getenv("JWT_SECRET") == "" && (backend == "" || backend == config.BackendMemory) {
		slog.Warn("JWT_SECRET not set; using a random secret, tokens will not survive a restart")
		jwtConfig, err := config.EphemeralJWTConfig(24)
		if err != nil {
			return nil, err
		}
		return session.NewTokenService(jwtConfig), nil
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	return session.NewTokenService(jwtConfig), nil
}
