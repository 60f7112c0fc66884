// Package container wires the application together with uber-go/fx.
package container

import (
	"context"
	"time"

	appcatalog "github.com/foodgram/v2/internal/application/catalog"
	apprelations "github.com/foodgram/v2/internal/application/relations"
	appshopping "github.com/foodgram/v2/internal/application/shopping"
	appuser "github.com/foodgram/v2/internal/application/user"
	"github.com/foodgram/v2/internal/infrastructure/cache"
	"github.com/foodgram/v2/internal/infrastructure/config"
	"github.com/foodgram/v2/internal/infrastructure/http/handlers"
	"github.com/foodgram/v2/internal/infrastructure/http/server"
	"github.com/foodgram/v2/internal/infrastructure/monitoring"
	gormrepo "github.com/foodgram/v2/internal/infrastructure/persistence/gorm"
	"github.com/foodgram/v2/internal/infrastructure/persistence/migrations"
	"github.com/foodgram/v2/internal/infrastructure/persistence/postgres"
	"github.com/foodgram/v2/internal/infrastructure/persistence/sqlite"
	"github.com/foodgram/v2/internal/infrastructure/security"
	"github.com/foodgram/v2/internal/ports/inbound"
	"github.com/foodgram/v2/internal/ports/outbound"
	"github.com/foodgram/v2/pkg/healthcheck"
	"github.com/foodgram/v2/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module is the complete application dependency graph
var Module = fx.Options(
	fx.Provide(
		config.Load,
		newLogger,
		newDatabase,
		newCacheRepository,
		newMetricsRegistry,
		newMetrics,
		newHealthChecker,
		newSessionManager,

		gormrepo.NewRecipeRepository,
		gormrepo.NewProductRepository,
		gormrepo.NewTagRepository,
		gormrepo.NewUserRepository,
		gormrepo.NewMembershipRepository,
		gormrepo.NewSubscriptionRepository,

		newCatalogService,
		newRelationService,
		appshopping.NewService,
		appuser.NewService,

		handlers.NewRecipeHandler,
		handlers.NewRelationHandler,
		handlers.NewShoppingHandler,
		handlers.NewProductHandler,
		handlers.NewAuthHandler,
		handlers.NewHealthHandler,

		newHandlers,
		server.New,
	),
	fx.Invoke(runMigrations, startServer),
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: !cfg.IsProduction(),
	})
}

func newDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	if cfg.Database.Driver == "sqlite" {
		return sqlite.Connect(cfg.Database.Path)
	}
	return postgres.Connect(cfg.Database, cfg.App.Debug, log)
}

func newCacheRepository(cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	client, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, err
	}
	return cache.NewRedisCache(client, log), nil
}

func newSessionManager(cfg *config.Config) *security.SessionManager {
	return security.NewSessionManager(cfg.Auth)
}

func newMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func newMetrics(registry *prometheus.Registry) *monitoring.Metrics {
	return monitoring.NewMetrics(registry)
}

func newHealthChecker(db *gorm.DB) *healthcheck.Checker {
	checker := healthcheck.NewChecker(5 * time.Second)
	checker.Register("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	return checker
}

func newCatalogService(
	recipes outbound.RecipeRepository,
	products outbound.ProductRepository,
	tags outbound.TagRepository,
	users outbound.UserRepository,
	cacheRepo outbound.CacheRepository,
	cfg *config.Config,
	log *zap.Logger,
) inbound.CatalogService {
	return appcatalog.NewService(recipes, products, tags, users, cacheRepo, cfg.Pagination.PageSize, log)
}

func newRelationService(
	memberships outbound.MembershipRepository,
	subscriptions outbound.SubscriptionRepository,
	recipes outbound.RecipeRepository,
	users outbound.UserRepository,
	cfg *config.Config,
	log *zap.Logger,
) inbound.RelationService {
	return apprelations.NewService(memberships, subscriptions, recipes, users, cfg.Pagination.PageSize, log)
}

func newHandlers(
	recipes *handlers.RecipeHandler,
	relations *handlers.RelationHandler,
	shopping *handlers.ShoppingHandler,
	products *handlers.ProductHandler,
	auth *handlers.AuthHandler,
	health *handlers.HealthHandler,
) server.Handlers {
	return server.Handlers{
		Recipes:   recipes,
		Relations: relations,
		Shopping:  shopping,
		Products:  products,
		Auth:      auth,
		Health:    health,
	}
}

// runMigrations applies SQL migrations on PostgreSQL. SQLite databases are
// migrated on connect.
func runMigrations(cfg *config.Config, db *gorm.DB, log *zap.Logger) error {
	if cfg.Database.Driver != "postgres" {
		return nil
	}
	return migrations.Run(db, log)
}

func startServer(lc fx.Lifecycle, srv *server.Server, cfg *config.Config, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					log.Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
