package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/marketplace-service/internal/api/http"
	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/cart"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/observability"
	"github.com/spec-kit/marketplace-service/internal/persistence"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	verificationRepo := repository.NewVerificationRepository(pool)

	cartStorage := cart.NewRedisStorage(redis.Client)
	dispatcher := events.NewInMemoryDispatcher()

	accountService := service.NewAccountService(*cfg, service.AccountDependencies{
		UserRepo:         userRepo,
		VerificationRepo: verificationRepo,
		Dispatcher:       dispatcher,
	})
	catalogService := service.NewCatalogService(productRepo)
	checkoutService := service.NewCheckoutService(orderRepo, cartStorage, dispatcher, cfg.Payment, logger)

	authMiddleware := auth.NewAuthMiddleware(accountService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(accountService),
		Cart:           handlers.NewCartHandler(cartStorage),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Checkout:       handlers.NewCheckoutHandler(checkoutService),
		Admin:          handlers.NewAdminHandler(userRepo, checkoutService, catalogService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
