package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lunashop/storefront/internal/domain"
	"github.com/lunashop/storefront/internal/storage"
)

// memoryStorage implements storage.CartStorage for testing
type memoryStorage struct {
	mu         sync.Mutex
	carts      map[string][]domain.CartLine
	saveCalls  int
	clearCalls int
	failSave   bool
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
	m.saveCalls++
	if m.failSave {
		return errors.New("storage write failed")
	}
	stored := make([]domain.CartLine, len(lines))
	copy(stored, lines)
	m.carts[cartID] = stored
	return nil
}

func (m *memoryStorage) Clear(_ context.Context, cartID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearCalls++
	delete(m.carts, cartID)
	return nil
}

func newTestStore(st storage.CartStorage) *Store {
	return NewStore(context.Background(), "cart-1", st, zap.NewNop())
}

func shirt() domain.Product {
	return domain.Product{ID: "prod-shirt", Name: "Shirt", Price: 25, Stock: 5}
}

func TestAddItem_MergesSameIdentityKey(t *testing.T) {
	store := newTestStore(newMemoryStorage())
	ctx := context.Background()

	store.AddItem(ctx, shirt(), 2, "red", "M", "")
	store.AddItem(ctx, shirt(), 3, "red", "M", "")

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestAddItem_DifferentVariantIsSeparateLine(t *testing.T) {
	store := newTestStore(newMemoryStorage())
	ctx := context.Background()

	store.AddItem(ctx, shirt(), 1, "red", "M", "")
	store.AddItem(ctx, shirt(), 1, "blue", "M", "")
	store.AddItem(ctx, shirt(), 1, "red", "L", "")

	assert.Len(t, store.Lines(), 3)
}

func TestAddItem_MergeDoesNotClampToStock(t *testing.T) {
	store := newTestStore(newMemoryStorage())
	ctx := context.Background()

	store.AddItem(ctx, shirt(), 4, "", "", "")
	store.AddItem(ctx, shirt(), 4, "", "", "")

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 8, lines[0].Quantity) // above the stock limit of 5
}

func TestAddItem_UsesDiscountPrice(t *testing.T) {
	store := newTestStore(newMemoryStorage())
	discount := 19.99
	p := domain.Product{ID: "p1", Name: "Hat", Price: 30, DiscountPrice: &discount, Stock: 10}

	store.AddItem(context.Background(), p, 1, "", "", "")

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 19.99, lines[0].UnitPrice)
}

func TestUpdateQuantity_ClampsToStockLimit(t *testing.T) {
	store := newTestStore(newMemoryStorage())
	ctx := context.Background()
	store.AddItem(ctx, shirt(), 1, "", "", "")
	key := domain.VariantKey{ProductID: "prod-shirt"}

	store.UpdateQuantity(ctx, key, 99)

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestUpdateQuantity_BelowOneIsNoOp(t *testing.T) {
	store := newTestStore(newMemoryStorage())
	ctx := context.Background()
	store.AddItem(ctx, shirt(), 3, "", "", "")
	key := domain.VariantKey{ProductID: "prod-shirt"}

	store.UpdateQuantity(ctx, key, 0)
	store.UpdateQuantity(ctx, key, -2)

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestRemoveItem_AbsentKeyIsNoOp(t *testing.T) {
	store := newTestStore(newMemoryStorage())
	ctx := context.Background()
	store.AddItem(ctx, shirt(), 1, "red", "M", "")

	store.RemoveItem(ctx, domain.VariantKey{ProductID: "prod-shirt", Color: "blue", Size: "M"})

	assert.Len(t, store.Lines(), 1)
}

func TestRemoveItem_DeletesMatchingLine(t *testing.T) {
	store := newTestStore(newMemoryStorage())
	ctx := context.Background()
	store.AddItem(ctx, shirt(), 1, "red", "M", "")
	store.AddItem(ctx, shirt(), 1, "blue", "M", "")

	store.RemoveItem(ctx, domain.VariantKey{ProductID: "prod-shirt", Color: "red", Size: "M"})

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "blue", lines[0].Color)
}

func TestMutations_WriteThroughToStorage(t *testing.T) {
	st := newMemoryStorage()
	store := newTestStore(st)
	ctx := context.Background()

	store.AddItem(ctx, shirt(), 2, "", "", "")
	store.UpdateQuantity(ctx, domain.VariantKey{ProductID: "prod-shirt"}, 3)
	store.RemoveItem(ctx, domain.VariantKey{ProductID: "prod-shirt"})

	assert.Equal(t, 3, st.saveCalls)
	persisted, err := st.Load(ctx, "cart-1")
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestStorageFailure_DoesNotBlockMutation(t *testing.T) {
	st := newMemoryStorage()
	st.failSave = true
	store := newTestStore(st)

	store.AddItem(context.Background(), shirt(), 2, "", "", "")

	assert.Len(t, store.Lines(), 1) // in-memory state stays authoritative
}

func TestClear_EmptiesCartAndStorage(t *testing.T) {
	st := newMemoryStorage()
	store := newTestStore(st)
	ctx := context.Background()
	store.AddItem(ctx, shirt(), 2, "", "", "")

	store.Clear(ctx)

	assert.True(t, store.IsEmpty())
	assert.Equal(t, 1, st.clearCalls)
	_, err := st.Load(ctx, "cart-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestNewStore_RehydratesFromStorage(t *testing.T) {
	st := newMemoryStorage()
	st.carts["cart-1"] = []domain.CartLine{
		{ProductID: "p1", Name: "Shirt", UnitPrice: 25, Quantity: 2, StockLimit: 5},
	}

	store := newTestStore(st)

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestDerivedTotals(t *testing.T) {
	store := newTestStore(newMemoryStorage())
	ctx := context.Background()
	store.AddItem(ctx, domain.Product{ID: "p1", Name: "A", Price: 10, Stock: 9}, 2, "", "", "")
	store.AddItem(ctx, domain.Product{ID: "p2", Name: "B", Price: 7.5, Stock: 9}, 3, "", "", "")

	assert.Equal(t, 42.5, store.Subtotal())
	assert.Equal(t, 5, store.ItemCount())
}
