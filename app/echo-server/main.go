package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpmetrics "myTrekMarket/app/echo-server/metrics"
	"myTrekMarket/app/echo-server/router"
	"myTrekMarket/business/recommendation"
	"myTrekMarket/business/trek"
	"myTrekMarket/internal/middleware"
	mongoRepo "myTrekMarket/internal/repository/mongo"
	psqlRepo "myTrekMarket/internal/repository/postgres"
	redisRepo "myTrekMarket/internal/repository/redis"
	"myTrekMarket/internal/repository/resilient"
	"myTrekMarket/internal/rest"
	"myTrekMarket/pkg/config"
	"myTrekMarket/pkg/database"
	"myTrekMarket/pkg/database/mongodb"
	redisClient "myTrekMarket/pkg/database/redis"
	"myTrekMarket/pkg/logger"
	"myTrekMarket/pkg/metrics"
	"myTrekMarket/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting trek recommendation API", "version", cfg.App.Version, "driver", cfg.Database.Driver)

	utils.SetJWTSecret(cfg.JWT.SecretKey)
	metrics.Init()
	httpmetrics.Init()

	// Init store
	var (
		trekStore        resilient.TrekStore
		interactionStore recommendation.InteractionRepository
		closeStore       func() error
	)

	switch cfg.Database.Driver {
	case config.DriverMongo:
		client, db, err := mongodb.Connect(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", "error", err)
		}
		trekStore = mongoRepo.NewTrekRepository(db)
		interactionStore = mongoRepo.NewInteractionRepository(db)
		closeStore = func() error { return mongodb.Disconnect(client) }
	default:
		db, err := database.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		trekStore = psqlRepo.NewTrekRepository(db)
		interactionStore = psqlRepo.NewInteractionRepository(db)
		closeStore = func() error { return database.ClosePostgres(db) }
	}

	logger.Info("Database connected successfully")

	breaker := func(name string) resilient.BreakerConfig {
		return resilient.BreakerConfig{
			Name:             name,
			MaxRequests:      cfg.Breaker.MaxRequests,
			Interval:         cfg.Breaker.Interval,
			Timeout:          cfg.Breaker.Timeout,
			FailureThreshold: cfg.Breaker.FailureThreshold,
		}
	}
	trekRepo := resilient.NewTrekRepository(trekStore, breaker("trek-store"))
	interactionRepo := resilient.NewInteractionRepository(interactionStore, breaker("interaction-store"))

	// Init cache
	var resultCache recommendation.ResultCache
	if cfg.Redis.Enabled {
		rdb, err := redisClient.NewRedisClient(cfg)
		if err != nil {
			// the engine works without a cache
			logger.Warn("Redis unavailable, recommendation cache disabled", err)
		} else {
			defer redisClient.CloseRedisClient(rdb)
			resultCache = redisRepo.NewRecommendationCache(rdb, "trek:")
		}
	}

	// Init service
	recommendationService := recommendation.NewService(trekRepo, interactionRepo, resultCache, recommendation.Config{
		DefaultLimit:     cfg.Recommendation.DefaultLimit,
		CacheTTL:         cfg.Recommendation.CacheTTL,
		PlaceholderImage: cfg.Recommendation.PlaceholderImage,
	})
	trekService := trek.NewTrekService(trekRepo)

	// Init handler
	recommendationHandler := rest.NewRecommendationHandler(recommendationService)
	trekHandler := rest.NewTrekHandler(trekService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = rest.JSONSerializer{}

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceMiddleware())
	e.Use(httpmetrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))

	// Setup routes
	router.SetOpsRoutes(e)
	api := e.Group("/api/v1")
	router.SetRecommendationRoutes(api, recommendationHandler)
	router.SetTrekRoutes(api, trekHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if err := closeStore(); err != nil {
		logger.Error("Failed to close database", "error", err)
	}

	logger.Info("Server stopped")
}
