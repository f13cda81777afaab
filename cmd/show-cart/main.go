package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lunashop/storefront/internal/config"
	"github.com/lunashop/storefront/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/show-cart/main.go <cart-id>")
		fmt.Println("Example: go run cmd/show-cart/main.go 9f1c7b52-3a54-4a1e-9a04-2f1f6f2a1c11")
		os.Exit(1)
	}

	cartID := os.Args[1]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	var cartStorage storage.CartStorage
	switch cfg.Storage.Backend {
	case "redis":
		cartStorage = storage.NewRedisStorage(redis.NewClient(&redis.Options{Addr: cfg.Storage.RedisAddr}))
	default:
		cartStorage, err = storage.NewFileStorage(cfg.Storage.FileDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open cart storage: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lines, err := cartStorage.Load(ctx, cartID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Printf("No persisted cart for id %s\n", cartID)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Failed to load cart: %v\n", err)
		os.Exit(1)
	}

	var subtotal float64
	fmt.Printf("Cart %s:\n\n", cartID)
	for _, l := range lines {
		variant := ""
		if l.Color != "" || l.Size != "" {
			variant = fmt.Sprintf(" (%s %s)", l.Color, l.Size)
		}
		fmt.Printf("  %dx %s%s @ %.2f (stock limit %d)\n", l.Quantity, l.Name, variant, l.UnitPrice, l.StockLimit)
		subtotal += l.UnitPrice * float64(l.Quantity)
	}
	fmt.Printf("\nSubtotal: %.2f\n", subtotal)
}
