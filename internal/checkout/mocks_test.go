package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/lunashop/storefront/internal/backend"
	"github.com/lunashop/storefront/internal/domain"
	"github.com/lunashop/storefront/internal/storage"
)

// memoryStorage implements storage.CartStorage for testing
type memoryStorage struct {
	mu    sync.Mutex
	carts map[string][]domain.CartLine
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{carts: make(map[string][]domain.CartLine)}
}

func (m *memoryStorage) Load(_ context.Context, cartID string) ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines, ok := m.carts[cartID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out, nil
}

func (m *memoryStorage) Save(_ context.Context, cartID string, lines []domain.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]domain.CartLine, len(lines))
	copy(stored, lines)
	m.carts[cartID] = stored
	return nil
}

func (m *memoryStorage) Clear(_ context.Context, cartID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, cartID)
	return nil
}

// fakeBackend implements Backend for testing. Optional started/release channels let a
// test hold a call in flight while it fires more submissions.
type fakeBackend struct {
	mu sync.Mutex

	createOrderCalls  int
	createIntentCalls int
	confirmCalls      int

	lastOrderReq        backend.OrderRequest
	lastIntentReq       backend.IntentRequest
	lastConfirmIntentID string
	lastConfirmOrderID  string

	orderErr   error
	intentErr  error
	confirmErr error

	orderStarted chan struct{}
	orderRelease chan struct{}

	intentStarted chan struct{}
	intentRelease chan struct{}
}

func (f *fakeBackend) CreateOrder(_ context.Context, req backend.OrderRequest) (*domain.Order, error) {
	f.mu.Lock()
	f.createOrderCalls++
	f.lastOrderReq = req
	started, release, err := f.orderStarted, f.orderRelease, f.orderErr
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	if err != nil {
		return nil, err
	}
	return &domain.Order{
		ID:            "order-1",
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: req.PaymentStatus,
		TotalAmount:   req.TotalAmount,
		CreatedAt:     time.Now(),
	}, nil
}

func (f *fakeBackend) CreatePaymentIntent(_ context.Context, req backend.IntentRequest) (*domain.PaymentIntent, error) {
	f.mu.Lock()
	f.createIntentCalls++
	f.lastIntentReq = req
	started, release, err := f.intentStarted, f.intentRelease, f.intentErr
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	if err != nil {
		return nil, err
	}
	return &domain.PaymentIntent{ID: "pi-1", ClientSecret: "pi-1-secret"}, nil
}

func (f *fakeBackend) ConfirmPayment(_ context.Context, paymentIntentID, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmCalls++
	f.lastConfirmIntentID = paymentIntentID
	f.lastConfirmOrderID = orderID
	return f.confirmErr
}

func (f *fakeBackend) calls() (orders, intents, confirms int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createOrderCalls, f.createIntentCalls, f.confirmCalls
}
