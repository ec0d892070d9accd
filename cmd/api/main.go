package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/salesledger/internal/application/service"
	"github.com/sangkips/salesledger/internal/config"
	"github.com/sangkips/salesledger/internal/infrastructure/database"
	"github.com/sangkips/salesledger/internal/infrastructure/repository"
	"github.com/sangkips/salesledger/internal/presentation/http/handler"
	"github.com/sangkips/salesledger/internal/presentation/http/middleware"
	"github.com/sangkips/salesledger/internal/presentation/http/routes"
	"github.com/sangkips/salesledger/pkg/logger"
	"github.com/sangkips/salesledger/pkg/utils"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.App.Env, cfg.Log.Level)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	if err := database.SeedSellers(db, cfg.Seed); err != nil {
		log.Warn().Err(err).Msg("failed to seed sellers")
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Repositories
	uow := repository.NewUnitOfWork(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	stockRepo := repository.NewStockRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	sellerRepo := repository.NewSellerRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	profitRepo := repository.NewProfitRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Services
	authService := service.NewAuthService(sellerRepo, jwtManager)
	productService := service.NewProductService(uow, productRepo, categoryRepo, stockRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	customerService := service.NewCustomerService(customerRepo, locationRepo)
	discountService := service.NewDiscountService(discountRepo, cfg.Sales.EnforceDiscountWindow)
	saleService := service.NewSaleService(uow, saleRepo, discountService, service.SalesPolicy{
		RejectEmpty: cfg.Sales.RejectEmpty,
	})
	profitService := service.NewProfitService(profitRepo, productRepo, cfg.Report.DayOffset)
	exportService := service.NewExportService(saleRepo, profitRepo)
	importService := service.NewImportService(uow, cfg.Import.LocationName)
	dashboardService := service.NewDashboardService(productRepo, customerRepo, locationRepo, sellerRepo, saleRepo, profitService)

	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Product:   handler.NewProductHandler(productService),
		Category:  handler.NewCategoryHandler(categoryService),
		Customer:  handler.NewCustomerHandler(customerService),
		Discount:  handler.NewDiscountHandler(discountService),
		Sale:      handler.NewSaleHandler(saleService, exportService, importService, cfg.Import.UploadMaxSize),
		Profit:    handler.NewProfitHandler(profitService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfigFrom(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("service", cfg.App.Name).Str("env", cfg.App.Env).Str("port", port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
