package cart

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/lunashop/storefront/internal/domain"
	"github.com/lunashop/storefront/internal/storage"
)

// Store holds the ordered list of cart lines for one cart. It is the sole source of
// truth for what the customer intends to buy: line prices and stock limits are
// snapshots taken at add-time and are not re-checked until checkout submission.
//
// Every mutation writes through to durable storage before returning. A storage failure
// is logged and otherwise ignored: in-memory state stays authoritative for the session.
type Store struct {
	mu      sync.Mutex
	cartID  string
	lines   []domain.CartLine
	storage storage.CartStorage
	logger  *zap.Logger
}

// NewStore creates a cart store for cartID, rehydrating any previously persisted lines
func NewStore(ctx context.Context, cartID string, st storage.CartStorage, logger *zap.Logger) *Store {
	s := &Store{
		cartID:  cartID,
		storage: st,
		logger:  logger,
	}

	lines, err := st.Load(ctx, cartID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("Failed to load persisted cart, starting empty",
			zap.String("cart_id", cartID),
			zap.Error(err),
		)
	}
	s.lines = lines

	return s
}

// AddItem appends a line for the given product and variant, or merges quantities when a
// line with the same identity key already exists. Merging does not clamp against the
// stock limit; clamping happens on explicit quantity updates.
func (s *Store) AddItem(ctx context.Context, product domain.Product, quantity int, color, size, imageURL string) {
	if quantity < 1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.VariantKey{ProductID: product.ID, Color: color, Size: size}
	for i := range s.lines {
		if s.lines[i].Key() == key {
			s.lines[i].Quantity += quantity
			s.persist(ctx)
			return
		}
	}

	s.lines = append(s.lines, domain.CartLine{
		ProductID:  product.ID,
		Name:       product.Name,
		UnitPrice:  product.UnitPrice(),
		ImageURL:   imageURL,
		Color:      color,
		Size:       size,
		Quantity:   quantity,
		StockLimit: product.Stock,
	})
	s.persist(ctx)
}

// RemoveItem deletes the line matching the identity key. No-op if absent.
func (s *Store) RemoveItem(ctx context.Context, key domain.VariantKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Key() == key {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// UpdateQuantity sets the line's quantity to min(quantity, stockLimit). Values below 1
// are rejected silently: the line keeps its current quantity.
func (s *Store) UpdateQuantity(ctx context.Context, key domain.VariantKey, quantity int) {
	if quantity < 1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Key() == key {
			if quantity > s.lines[i].StockLimit {
				quantity = s.lines[i].StockLimit
			}
			s.lines[i].Quantity = quantity
			s.persist(ctx)
			return
		}
	}
}

// Clear empties the cart and removes its persisted state
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	if err := s.storage.Clear(ctx, s.cartID); err != nil {
		s.logger.Warn("Failed to clear persisted cart",
			zap.String("cart_id", s.cartID),
			zap.Error(err),
		)
	}
}

// Lines returns a copy of the cart lines in insertion order
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]domain.CartLine, len(s.lines))
	copy(lines, s.lines)
	return lines
}

// Subtotal is recomputed on every call, never cached
func (s *Store) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var subtotal float64
	for _, l := range s.lines {
		subtotal += l.UnitPrice * float64(l.Quantity)
	}
	return subtotal
}

// ItemCount returns the total quantity across all lines
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// persist writes the full line list through to storage. Callers must hold s.mu.
func (s *Store) persist(ctx context.Context) {
	if err := s.storage.Save(ctx, s.cartID, s.lines); err != nil {
		s.logger.Warn("Failed to persist cart",
			zap.String("cart_id", s.cartID),
			zap.Error(err),
		)
	}
}
