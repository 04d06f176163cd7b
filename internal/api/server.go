// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - The JSON API lives under /api/v1, the server-rendered pages at the root.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/blango/internal/core/post"
	"github.com/taibuivan/blango/internal/core/tag"
	"github.com/taibuivan/blango/internal/platform/config"
	"github.com/taibuivan/blango/internal/platform/constants"
	"github.com/taibuivan/blango/internal/platform/middleware"
	"github.com/taibuivan/blango/internal/users/account"
	"github.com/taibuivan/blango/internal/users/auth"
	"github.com/taibuivan/blango/internal/web"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler, 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when Postgres and Redis answer.
	Readiness http.HandlerFunc

	// Auth serves sessions, API tokens and JWTs.
	Auth *auth.Handler

	// Accounts serves user details and author profiles.
	Accounts *account.Handler

	Posts *post.Handler
	Tags  *tag.Handler

	// Pages serves the HTML site.
	Pages *web.Handler
}

// Security resolves credentials for the [middleware.Authenticate] step.
type Security struct {
	Verifier middleware.TokenVerifier
	Resolver middleware.CredentialResolver
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, security Security, caches Caches, h Handlers) *Server {
	r := chi.NewRouter()
	caches = caches.orIdentity()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(security.Verifier, security.Resolver))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)
	r.Use(chimw.StripSlashes)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # API Schema
	r.Get("/swagger.json", swaggerJSON)
	r.Get("/swagger.yaml", swaggerYAML)
	r.Get("/swagger", swaggerUI)

	// # Application API
	r.Route(constants.APIPrefix, func(api chi.Router) {
		h.Auth.RegisterRoutes(api)

		// Content writes purge every listing that may show them
		api.Group(func(content chi.Router) {
			content.Use(caches.InvalidateContent)
			content.Route("/posts", h.Posts.RegisterRoutes)
			content.Route("/tags", h.Tags.RegisterRoutes)
		})

		api.With(caches.InvalidateUsers).Route("/users", h.Accounts.RegisterRoutes)
	})

	// # Pages
	r.Group(func(pages chi.Router) {
		pages.Use(middleware.CSRF(cfg.IsProduction()))
		h.Pages.RegisterRoutes(pages)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
