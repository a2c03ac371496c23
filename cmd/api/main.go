package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tijara-app/tijara-api/internal/application/access"
	"github.com/tijara-app/tijara-api/internal/application/auth"
	"github.com/tijara-app/tijara-api/internal/application/branchctx"
	"github.com/tijara-app/tijara-api/internal/application/branches"
	"github.com/tijara-app/tijara-api/internal/application/products"
	"github.com/tijara-app/tijara-api/internal/application/tenants"
	"github.com/tijara-app/tijara-api/internal/infrastructure/postgres"
	"github.com/tijara-app/tijara-api/internal/infrastructure/redisstore"
	httpRouter "github.com/tijara-app/tijara-api/internal/interfaces/http"
	"github.com/tijara-app/tijara-api/pkg/config"
	"github.com/tijara-app/tijara-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	rdb, err := redisstore.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis connection")
	}
	defer rdb.Close()

	tenantRepo := postgres.NewTenantRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	pivotRepo := postgres.NewProductBranchRepository(pool)
	userBranchRepo := postgres.NewUserBranchRepository(pool)
	salesReader := postgres.NewSalesReader(pool)
	txRunner := postgres.NewTxRunner(pool)

	activeBranchStore := redisstore.NewActiveBranchStore(rdb)
	branchCache := redisstore.NewBranchCache(rdb)

	checker := access.NewChecker(branchRepo, userBranchRepo, log)
	resolver := branchctx.NewResolver(activeBranchStore, userBranchRepo, branchRepo)

	tenantUC := tenants.NewUseCase(tenantRepo)
	branchUC := branches.NewUseCase(branchRepo, userBranchRepo, branchCache)
	productSvc := products.NewService(
		txRunner, productRepo, branchRepo, pivotRepo,
		userBranchRepo, salesReader, checker, resolver, log,
	)
	authUC := auth.NewUseCase(userRepo, tenantRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tijara API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		TenantUC:   tenantUC,
		AuthUC:     authUC,
		BranchUC:   branchUC,
		ProductSvc: productSvc,
		Resolver:   resolver,
		Checker:    checker,
		Log:        log,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
