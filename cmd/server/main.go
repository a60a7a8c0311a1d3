package main

import (
	"context"
	_ "embed"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Mouly-K/ffe/internal/config"
	"github.com/Mouly-K/ffe/internal/database"
	"github.com/Mouly-K/ffe/internal/fx"
	"github.com/Mouly-K/ffe/internal/handler"
	"github.com/Mouly-K/ffe/internal/middleware"
	"github.com/Mouly-K/ffe/internal/repository"
	"github.com/Mouly-K/ffe/internal/service"
)

//go:embed report.html
var reportTemplate string

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	service.ReportTemplate = reportTemplate

	_ = godotenv.Load()
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}
	if cfg.SeedData {
		if err := database.SeedData(context.Background(), pool); err != nil {
			log.Fatal().Err(err).Msg("failed to seed data")
		}
	}

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	healthHandler := handler.NewHealthHandler(pool)
	router.GET("/health", healthHandler.Health)

	handler.SetupSwagger(router)
	setupAPIRoutes(router, pool, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func setupAPIRoutes(router *gin.Engine, pool *pgxpool.Pool, cfg *config.Config) {
	rateRepo := repository.NewRateRepository(pool)
	warehouseRepo := repository.NewWarehouseRepository(pool)
	shipperRepo := repository.NewShipperRepository(pool)
	runRepo := repository.NewRunRepository(pool)
	packageRepo := repository.NewPackageRepository(pool)

	primary := fx.NewHTTPProvider(cfg.FXPrimaryURL, cfg.FXFetchTimeout)
	fallback := fx.NewHTTPProvider(cfg.FXFallbackURL, cfg.FXFetchTimeout)
	resolver := fx.NewResolver(rateRepo, primary, fallback, fx.ResolverConfig{
		MaxLookbackDays: cfg.FXMaxLookbackDays,
		FetchTimeout:    cfg.FXFetchTimeout,
	}, log.Logger)

	rateService := service.NewRateService(resolver)
	warehouseService := service.NewWarehouseService(warehouseRepo)
	shipperService := service.NewShipperService(shipperRepo, warehouseRepo)
	runService := service.NewRunService(runRepo)
	packageService := service.NewPackageService(packageRepo, shipperRepo, runRepo, rateService)
	quoteService := service.NewQuoteService(packageRepo)
	reportService := service.NewReportService(quoteService)

	rateHandler := handler.NewRateHandler(rateService)
	warehouseHandler := handler.NewWarehouseHandler(warehouseService)
	shipperHandler := handler.NewShipperHandler(shipperService)
	runHandler := handler.NewRunHandler(runService)
	packageHandler := handler.NewPackageHandler(packageService, quoteService)
	reportHandler := handler.NewReportHandler(reportService)

	api := router.Group("/api/v1")
	{
		api.GET("/rates", rateHandler.Resolve)

		api.POST("/warehouses", warehouseHandler.Create)
		api.GET("/warehouses", warehouseHandler.List)
		api.GET("/warehouses/:id", warehouseHandler.Get)
		api.DELETE("/warehouses/:id", warehouseHandler.Delete)

		api.POST("/shippers", shipperHandler.Create)
		api.GET("/shippers", shipperHandler.List)
		api.GET("/shippers/:id", shipperHandler.Get)
		api.POST("/shippers/:id/routes", shipperHandler.AddRoute)
		api.GET("/routes/:routeId", shipperHandler.GetRoute)
		api.DELETE("/routes/:routeId", shipperHandler.DeleteRoute)

		api.POST("/runs", runHandler.Create)
		api.GET("/runs", runHandler.List)
		api.GET("/runs/:id", runHandler.Get)
		api.PATCH("/runs/:id/status", runHandler.UpdateStatus)
		api.GET("/runs/:id/packages", packageHandler.ListByRun)

		api.POST("/packages", packageHandler.Create)
		api.GET("/packages/:id", packageHandler.Get)
		api.GET("/packages/:id/quote", packageHandler.Quote)
		api.POST("/packages/:id/refresh-rates", packageHandler.RefreshRates)
		api.PATCH("/package-routes/:routeId/tracking", packageHandler.UpdateTracking)

		api.GET("/packages/:id/report", reportHandler.GetReport)
	}
}
