package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lunashop/storefront/internal/domain"
)

func newTestManager(fb *fakeBackend, st *memoryStorage) *Manager {
	return NewManager(st, fb, testPricing(), zap.NewNop())
}

func TestManager_SameSessionUntilConfirmed(t *testing.T) {
	m := newTestManager(&fakeBackend{}, newMemoryStorage())
	ctx := context.Background()

	first := m.Session(ctx, "cart-1")
	assert.Same(t, first, m.Session(ctx, "cart-1"))
	assert.NotSame(t, first, m.Session(ctx, "cart-2"))
}

func TestManager_ConfirmedSessionIsReplaced(t *testing.T) {
	m := newTestManager(&fakeBackend{}, newMemoryStorage())
	ctx := context.Background()

	addCatalogItem(m.Cart(ctx, "cart-1"), 50, 1)
	session := m.Session(ctx, "cart-1")
	_, err := session.Submit(ctx, validShipping(), domain.PaymentMethodCashOnDelivery)
	require.NoError(t, err)

	fresh := m.Session(ctx, "cart-1")
	assert.NotSame(t, session, fresh)
	assert.Equal(t, domain.CheckoutStateIdle, fresh.Status().State)
}

func TestManager_CartRehydratedFromStorage(t *testing.T) {
	st := newMemoryStorage()
	st.carts["cart-1"] = []domain.CartLine{
		{ProductID: "p1", Name: "Shirt", UnitPrice: 25, Quantity: 2, StockLimit: 5},
	}
	m := newTestManager(&fakeBackend{}, st)

	c := m.Cart(context.Background(), "cart-1")

	assert.Equal(t, 2, c.ItemCount())
	assert.Equal(t, 50.0, c.Subtotal())
}
