package checkout

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/lunashop/storefront/internal/cart"
	"github.com/lunashop/storefront/internal/storage"
)

// Manager hands out the cart store and checkout session for a given cart id. Both are
// created lazily and live for the process; the cart itself is rehydrated from durable
// storage on first access. A confirmed session is replaced by a fresh one so the
// customer can start another checkout.
type Manager struct {
	mu       sync.Mutex
	storage  storage.CartStorage
	backend  Backend
	pricing  Pricing
	logger   *zap.Logger
	carts    map[string]*cart.Store
	sessions map[string]*Session
}

// NewManager creates a new session manager
func NewManager(st storage.CartStorage, b Backend, pricing Pricing, logger *zap.Logger) *Manager {
	return &Manager{
		storage:  st,
		backend:  b,
		pricing:  pricing,
		logger:   logger,
		carts:    make(map[string]*cart.Store),
		sessions: make(map[string]*Session),
	}
}

// Cart returns the cart store for cartID, creating it on first access
func (m *Manager) Cart(ctx context.Context, cartID string) *cart.Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cartLocked(ctx, cartID)
}

// Session returns the checkout session for cartID. Once a session reaches its terminal
// state it is replaced, so the next access starts a fresh checkout.
func (m *Manager) Session(ctx context.Context, cartID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[cartID]; ok && !s.Status().State.IsTerminal() {
		return s
	}

	s := NewSession(m.cartLocked(ctx, cartID), m.backend, m.pricing, m.logger)
	m.sessions[cartID] = s
	return s
}

func (m *Manager) cartLocked(ctx context.Context, cartID string) *cart.Store {
	if c, ok := m.carts[cartID]; ok {
		return c
	}
	c := cart.NewStore(ctx, cartID, m.storage, m.logger)
	m.carts[cartID] = c
	return c
}
