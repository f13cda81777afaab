package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Backend     BackendConfig
	Pricing     PricingConfig
	Storage     StorageConfig
	LogLevel    string
}

type BackendConfig struct {
	BaseURL string
}

type PricingConfig struct {
	Currency              string
	ShippingFee           float64
	FreeShippingThreshold float64
	TaxRate               float64
}

type StorageConfig struct {
	Backend   string // "redis" or "file"
	RedisAddr string
	FileDir   string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CURRENCY", "usd")
	viper.SetDefault("CART_STORAGE", "file")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	shippingFee, err := getFloat("SHIPPING_FEE", 10)
	if err != nil {
		return nil, err
	}
	freeShippingThreshold, err := getFloat("FREE_SHIPPING_THRESHOLD", 100)
	if err != nil {
		return nil, err
	}
	taxRate, err := getFloat("TAX_RATE", 0.10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Backend: BackendConfig{
			BaseURL: getEnvOrViper("BACKEND_BASE_URL", ""),
		},
		Pricing: PricingConfig{
			Currency:              getEnvOrViper("CURRENCY", "usd"),
			ShippingFee:           shippingFee,
			FreeShippingThreshold: freeShippingThreshold,
			TaxRate:               taxRate,
		},
		Storage: StorageConfig{
			Backend:   getEnvOrViper("CART_STORAGE", "file"),
			RedisAddr: getEnvOrViper("REDIS_ADDR", "localhost:6379"),
			FileDir:   getEnvOrViper("CART_STORAGE_DIR", "./data/carts"),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("BACKEND_BASE_URL is required")
	}
	if cfg.Storage.Backend != "redis" && cfg.Storage.Backend != "file" {
		return nil, fmt.Errorf("CART_STORAGE must be \"redis\" or \"file\", got %q", cfg.Storage.Backend)
	}
	if cfg.Pricing.TaxRate < 0 || cfg.Pricing.TaxRate >= 1 {
		return nil, fmt.Errorf("TAX_RATE must be in [0, 1), got %v", cfg.Pricing.TaxRate)
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) (float64, error) {
	raw := getEnvOrViper(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, raw)
	}
	return val, nil
}
