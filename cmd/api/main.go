package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/duty-pharmacy/internal/config"
	httpDelivery "github.com/duty-pharmacy/internal/delivery/http"
	"github.com/duty-pharmacy/internal/delivery/http/handler"
	"github.com/duty-pharmacy/internal/infrastructure/duty"
	"github.com/duty-pharmacy/internal/infrastructure/geolocate"
	"github.com/duty-pharmacy/internal/infrastructure/push"
	"github.com/duty-pharmacy/internal/pkg/logger"
	"github.com/duty-pharmacy/internal/repository/cache"
	"github.com/duty-pharmacy/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Duty Pharmacy Engine")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("duty_api", cfg.DutyAPI.BaseURL),
	)

	// 3. Connect to Redis (favorites persistence)
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	// 4. Initialize repositories and collaborator clients
	favoritesRepo := cache.NewFavoritesRepository(redisClient, cfg.Favorites.Key, log)
	dutyClient := duty.NewClient(&cfg.DutyAPI, log)
	locationProvider := geolocate.NewClient(&cfg.Geolocate, log)

	log.Info("Repositories initialized")

	// 5. Initialize use cases
	directoryUC := usecase.NewDirectoryUseCase(dutyClient, log)
	queryUC := usecase.NewQueryUseCase(dutyClient, log)
	favoritesUC := usecase.NewFavoritesUseCase(favoritesRepo, log)
	resolverUC := usecase.NewResolverUseCase(locationProvider, log)
	selectionUC := usecase.NewSelectionUseCase(directoryUC, queryUC, favoritesUC, resolverUC, log)

	log.Info("Use cases initialized")

	// 6. Device registration handoff (fire and forget)
	if cfg.Push.Enabled {
		go func() {
			token := cfg.Push.Token
			if token == "" {
				token = uuid.NewString()
			}
			registrar := push.NewClient(&cfg.Push, log)
			regCtx, regCancel := context.WithTimeout(context.Background(), cfg.Push.RequestTimeout)
			defer regCancel()
			if err := registrar.Register(regCtx, token, cfg.Push.Platform); err != nil {
				log.Warn("Device registration failed", zap.Error(err))
			}
		}()
	}

	// 7. Run the app-start pipeline: favorites load, city directory,
	// geolocation, initial pharmacy query. Runs alongside the server so a
	// slow fix never blocks startup.
	go selectionUC.Start(context.Background())

	// 8. Initialize HTTP facade
	selectionHandler := handler.NewSelectionHandler(selectionUC, directoryUC, cfg.Push.Platform, log)
	server := httpDelivery.NewServer(cfg, log, selectionHandler)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 9. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	selectionUC.Reset(shutdownCtx)

	log.Info("Shutdown complete")
}
