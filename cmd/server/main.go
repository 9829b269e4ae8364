package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edusync/task-automation-service/internal/cache"
	"github.com/edusync/task-automation-service/internal/config"
	"github.com/edusync/task-automation-service/internal/handlers"
	"github.com/edusync/task-automation-service/internal/services"
	"github.com/edusync/task-automation-service/internal/upstream"
	"github.com/edusync/task-automation-service/internal/utils"
	"github.com/edusync/task-automation-service/internal/validator"
	"github.com/edusync/task-automation-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	logger.Info("starting task automation service",
		"environment", cfg.Environment,
		"mock_mode", cfg.MockMode,
		"upstream", cfg.UpstreamBaseURL)

	// Cache: Redis when configured, in-process otherwise.
	cacheService := cache.NewMemoryCache()
	if cfg.RedisURL != "" {
		redisClient, err := pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("redis unavailable, falling back to memory cache", "error", err)
		} else {
			defer redisClient.Close()
			cacheService = cache.NewRedisCache(redisClient, logger)
			logger.Info("redis cache enabled")
		}
	}

	publisher, err := cfg.Events.CreateEventPublisher(utils.ToSlogLogger(logger))
	if err != nil {
		logger.Error("failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close event publisher", "error", err)
		}
	}()

	var client upstream.Client
	if cfg.MockMode {
		logger.Warn("mock mode enabled, no upstream calls will be made")
		client = upstream.NewMockClient()
	} else {
		client = upstream.NewHTTPClient(upstream.ClientConfig{
			BaseURL:      cfg.UpstreamBaseURL,
			ClientOrigin: cfg.ClientOrigin,
			Timeout:      time.Duration(cfg.HTTPTimeoutSec) * time.Second,
			Logger:       logger,
		})
	}

	metrics := services.NewMetricsCollector()
	synthesizer := services.NewSynthesizerService(logger)
	processor := services.NewProcessorService(client, synthesizer, publisher, metrics, logger, services.ProcessorConfig{
		MaxWorkers:  cfg.MaxWorkers,
		DelayCapSec: cfg.DelayCapSec,
	})
	discovery := services.NewDiscoveryService(client, cacheService, metrics, logger)
	auth := services.NewAuthService(client, metrics, logger)
	export := services.NewExportService(logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	manager := handlers.NewHandlerManager(auth, discovery, processor, export, metrics, validator.New(), logger)
	manager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}
