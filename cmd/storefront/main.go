package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lunashop/storefront/internal/api"
	"github.com/lunashop/storefront/internal/backend"
	"github.com/lunashop/storefront/internal/checkout"
	"github.com/lunashop/storefront/internal/config"
	"github.com/lunashop/storefront/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Cart storage
	cartStorage, err := newCartStorage(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize cart storage", zap.Error(err))
	}

	// Commerce backend client
	client := backend.NewClient(cfg.Backend, logger)

	// Checkout sessions
	pricing := checkout.NewPricing(cfg.Pricing)
	sessions := checkout.NewManager(cartStorage, client, pricing, logger)

	router := api.NewRouter(cfg, sessions, logger)

	logger.Info("Starting storefront server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("cart_storage", cfg.Storage.Backend),
	)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func newCartStorage(cfg config.StorageConfig) (storage.CartStorage, error) {
	switch cfg.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return storage.NewRedisStorage(client), nil
	default:
		return storage.NewFileStorage(cfg.FileDir)
	}
}
