// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Blango HTTP server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/blango/internal/api"
	"github.com/taibuivan/blango/internal/core/comment"
	"github.com/taibuivan/blango/internal/core/post"
	"github.com/taibuivan/blango/internal/core/tag"
	"github.com/taibuivan/blango/internal/media"
	"github.com/taibuivan/blango/internal/platform/cache"
	"github.com/taibuivan/blango/internal/platform/config"
	"github.com/taibuivan/blango/internal/platform/constants"
	"github.com/taibuivan/blango/internal/platform/migration"
	pgstore "github.com/taibuivan/blango/internal/platform/postgres"
	redisstore "github.com/taibuivan/blango/internal/platform/redis"
	"github.com/taibuivan/blango/internal/platform/sec"
	"github.com/taibuivan/blango/internal/platform/storage"
	"github.com/taibuivan/blango/internal/users/account"
	"github.com/taibuivan/blango/internal/users/auth"
	"github.com/taibuivan/blango/internal/web"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("object_storage", cfg.StorageEnabled()),
	)

	// Startup deadline so misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security ───────────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	authService := auth.NewService(
		auth.NewUserRepository(pool),
		auth.NewTokenRepository(pool),
		auth.NewSessionRepository(rdb),
		jwtSvc,
		auth.Lifetimes{Access: cfg.AccessTokenTTL, Refresh: cfg.RefreshTokenTTL, Session: cfg.SessionTTL},
		log,
	)

	// ── 7. Media ──────────────────────────────────────────────────────────
	// Hero image uploads answer 503 when object storage is not configured.
	var images post.ImageStore
	objectStore, err := storage.New(storage.Options{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	must(log, err, "initialize object storage")
	mediaURL := cfg.MediaURL
	if objectStore != nil {
		images = media.NewProcessor(objectStore)
		if mediaURL == "" {
			mediaURL = objectStore.PathStyleURL()
		}
	}

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	accountService := account.NewService(account.NewRepository(pool), log)
	tagService := tag.NewService(tag.NewPostgresRepository(pool), log)
	commentService := comment.NewService(comment.NewPostgresRepository(pool), log)
	postService := post.NewService(post.NewPostgresRepository(pool), accountService, commentService, tagService, images, log).
		WithTransactor(pgstore.NewTransactor(pool))

	caches := api.NewCaches(cache.New(cache.NewRedisBackend(rdb)), cfg)

	postHandler := post.NewHandler(postService, mediaURL, caches.Posts)

	renderer, err := web.NewRenderer()
	must(log, err, "parse page templates")

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{Checks: []api.NamedCheck{
		{Name: "postgres", Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
		{Name: "redis", Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }},
	}}, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, cfg.IsProduction()),
		Accounts:  account.NewHandler(accountService, caches.Users),
		Posts:     postHandler,
		Tags:      tag.NewHandler(tagService, postHandler.ListByTag, caches.Tags),
		Pages: web.NewHandler(renderer, postService, accountService, authService, web.Options{
			MediaURL:     mediaURL,
			SecureCookie: cfg.IsProduction(),
			IndexCache:   caches.Index,
			OnComment:    caches.InvalidateContent,
		}),
	}

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, api.Security{Verifier: jwtSvc, Resolver: authService}, caches, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
