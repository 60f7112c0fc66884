// Package server assembles the chi router and runs the HTTP server.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/foodgram/v2/internal/infrastructure/config"
	"github.com/foodgram/v2/internal/infrastructure/http/handlers"
	"github.com/foodgram/v2/internal/infrastructure/http/middleware"
	"github.com/foodgram/v2/internal/infrastructure/monitoring"
	"github.com/foodgram/v2/internal/infrastructure/security"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers bundles the route handlers for router assembly
type Handlers struct {
	Recipes   *handlers.RecipeHandler
	Relations *handlers.RelationHandler
	Shopping  *handlers.ShoppingHandler
	Products  *handlers.ProductHandler
	Auth      *handlers.AuthHandler
	Health    *handlers.HealthHandler
}

// Server is the HTTP server with its assembled router
type Server struct {
	cfg    *config.Config
	router chi.Router
	server *http.Server
	logger *zap.Logger
}

// New creates the server and mounts all routes
func New(
	cfg *config.Config,
	h Handlers,
	sessions *security.SessionManager,
	metrics *monitoring.Metrics,
	registry *prometheus.Registry,
	logger *zap.Logger,
) *Server {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.CurrentUser(sessions))

	// Public routes
	r.Get("/", h.Recipes.List)
	r.Get("/users/{username}", h.Recipes.ListByAuthor)
	r.Get("/recipes/{id}", h.Recipes.Redirect)
	r.Get("/recipes/{id}/{slug}", h.Recipes.Detail)
	r.Get("/tags", h.Recipes.Tags)

	r.Post("/auth/register", h.Auth.Register)
	r.Post("/auth/login", h.Auth.Login)
	r.Post("/auth/logout", h.Auth.Logout)

	r.Get("/health", h.Health.Live)
	r.Get("/health/ready", h.Health.Ready)
	if cfg.Monitoring.MetricsEnabled {
		r.Handle(cfg.Monitoring.MetricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	// Authenticated routes; anonymous requests are redirected to login with
	// the original URL preserved in the next parameter.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.Auth.LoginRedirect))

		r.Post("/recipes/new", h.Recipes.Create)
		r.Get("/recipes/{id}/{slug}/edit", h.Recipes.Edit)
		r.Post("/recipes/{id}/{slug}/edit", h.Recipes.Update)
		r.Post("/recipes/{id}/{slug}/delete", h.Recipes.Delete)

		r.Get("/ingredients", h.Products.Search)

		r.Get("/favorites", h.Recipes.ListFavorites)
		r.Post("/favorites", h.Relations.AddFavorite)
		r.Delete("/favorites/{id}", h.Relations.RemoveFavorite)

		r.Get("/purchases", h.Recipes.ListPurchases)
		r.Post("/purchases", h.Relations.AddPurchase)
		r.Delete("/purchases/{id}", h.Relations.RemovePurchase)
		r.Get("/purchases/download", h.Shopping.Download)

		r.Get("/subscriptions", h.Relations.ListSubscriptions)
		r.Post("/subscriptions", h.Relations.AddSubscription)
		r.Delete("/subscriptions/{id}", h.Relations.RemoveSubscription)
	})

	return &Server{
		cfg:    cfg,
		router: r,
		logger: logger.Named("http-server"),
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      r,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}
}

// Router exposes the assembled router, mainly for tests
func (s *Server) Router() http.Handler { return s.router }

// Start runs the server until it is shut down
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown drains connections gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
