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

	"pixelforge/internal/api"
	"pixelforge/internal/config"
	"pixelforge/internal/repository"
	"pixelforge/internal/service"
	"pixelforge/internal/storage"
	"pixelforge/pkg/logger"

	"go.uber.org/zap"
)

const (
	// Application information
	AppName    = "PixelForge"
	AppVersion = "0.1.0"

	// Graceful shutdown timeout
	ShutdownTimeout = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application failed to start: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger first
	if err := logger.Init(logger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Starting "+AppName,
		zap.String("version", AppVersion),
		zap.String("port", cfg.Server.Port),
		zap.Bool("development", cfg.IsDevelopment()))

	// Initialize the durable record store
	logger.Info("Initializing record store...")
	store, err := repository.NewBadgerStore(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize record store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close record store", zap.Error(err))
		}
	}()

	// Initialize the cache; a missing cache degrades, never fails startup
	logger.Info("Initializing cache...")
	cache := repository.NewRedisCache(&cfg.Redis)
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Error("Failed to close cache", zap.Error(err))
		}
	}()

	// Initialize blob storage
	logger.Info("Initializing blob storage...", zap.String("type", cfg.Storage.Type))
	blobs, err := storage.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize blob storage: %w", err)
	}

	// Initialize services
	logger.Info("Initializing services...")
	processor := service.NewProcessorService(cfg.Image.MaxWidth, cfg.Image.MaxHeight, cfg.Image.BackgroundColor)
	pipeline := service.NewPipelineService(processor)
	authService := service.NewAuthService(store, &cfg.Auth)
	imageService := service.NewImageService(store, cache, blobs, processor, cfg)
	transformService := service.NewTransformService(store, cache, blobs, pipeline, cfg.Transform.CacheTTL)
	healthService := service.NewHealthService(store, cache, blobs)

	// Initialize API router
	logger.Info("Initializing API router...")
	router := api.NewRouter(cfg, authService, imageService, transformService, healthService)

	// Create HTTP server
	server := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        router.GetEngine(),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("addr", server.Addr),
			zap.String("mode", cfg.Server.GinMode))

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	logger.Info(AppName+" started successfully",
		zap.String("version", AppVersion),
		zap.String("port", cfg.Server.Port))

	// Wait for interrupt signal or server error
	return waitForShutdown(server, serverErrChan)
}

// waitForShutdown waits for shutdown signal and gracefully shuts down the server
func waitForShutdown(server *http.Server, serverErrChan chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrChan:
		return err
	case sig := <-quit:
		logger.Info("Received shutdown signal, starting graceful shutdown...",
			zap.String("signal", sig.String()))

		return gracefulShutdown(server)
	}
}

// gracefulShutdown performs graceful shutdown of the server
func gracefulShutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	logger.Info("Shutting down HTTP server...",
		zap.Duration("timeout", ShutdownTimeout))

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to gracefully shutdown server", zap.Error(err))
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server shut down successfully")
	return nil
}
