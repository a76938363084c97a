package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/garage-service/internal/api/http"
	"github.com/spec-kit/garage-service/internal/api/http/handlers"
	"github.com/spec-kit/garage-service/internal/auth"
	"github.com/spec-kit/garage-service/internal/cache"
	"github.com/spec-kit/garage-service/internal/config"
	"github.com/spec-kit/garage-service/internal/events"
	"github.com/spec-kit/garage-service/internal/observability"
	"github.com/spec-kit/garage-service/internal/persistence"
	"github.com/spec-kit/garage-service/internal/repository"
	"github.com/spec-kit/garage-service/internal/repository/memory"
	"github.com/spec-kit/garage-service/internal/service"
	"github.com/spec-kit/garage-service/internal/worker"
)

type repositories struct {
	accounts  repository.AccountRepository
	customers repository.CustomerRepository
	garages   repository.GarageRepository
	reviews   repository.ReviewRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := newRepositories(pg)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	nearbyCache := cache.NewNearbyCache(redis.Client, cfg.Discovery.CacheTTL(), logger)
	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartActivityWorker(service.NewActivityService(dispatcher, nearbyCache, logger))

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL())
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		AccountRepo:  repos.accounts,
		CustomerRepo: repos.customers,
		GarageRepo:   repos.garages,
		Tokens:       tokens,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	profileService := service.NewProfileService(service.ProfileDependencies{
		CustomerRepo: repos.customers,
		GarageRepo:   repos.garages,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	discoveryService := service.NewDiscoveryService(cfg.Discovery, repos.garages, nearbyCache, metrics)
	ratingService := service.NewRatingService(service.RatingDependencies{
		ReviewRepo: repos.reviews,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	rateLimiter := httptransport.NewRateLimiter(cfg.RateLimit, logger)
	defer rateLimiter.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService),
		Customers:      handlers.NewCustomerHandler(profileService, discoveryService, ratingService),
		Garages:        handlers.NewGarageHandler(profileService, ratingService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, repos.accounts),
		RateLimiter:    rateLimiter,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

// newRepositories picks Postgres when a pool is open and the in-memory store otherwise.
func newRepositories(pg *persistence.Postgres) repositories {
	if pg.Enabled() {
		pool := pg.PoolHandle()
		return repositories{
			accounts:  repository.NewAccountRepository(pool),
			customers: repository.NewCustomerRepository(pool),
			garages:   repository.NewGarageRepository(pool),
			reviews:   repository.NewReviewRepository(pool),
		}
	}
	store := memory.New()
	return repositories{
		accounts:  store.Accounts(),
		customers: store.Customers(),
		garages:   store.Garages(),
		reviews:   store.Reviews(),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
