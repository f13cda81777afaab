package storage

import (
	"context"
	"errors"

	"github.com/lunashop/storefront/internal/domain"
)

// CartStorage is the durable key-value store the cart writes through to. The in-memory
// cart remains authoritative for the session; implementations must not be relied on for
// multi-writer consistency.
type CartStorage interface {
	Load(ctx context.Context, cartID string) ([]domain.CartLine, error)
	Save(ctx context.Context, cartID string, lines []domain.CartLine) error
	Clear(ctx context.Context, cartID string) error
}

var ErrNotFound = errors.New("cart not found")
