package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStorage struct {
	mu    sync.Mutex
	lines []LineItem
	fail  bool
}

func (s *failingStorage) Load(context.Context, string) ([]LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines, nil
}

func (s *failingStorage) Save(_ context.Context, _ string, lines []LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("storage unavailable")
	}
	s.lines = lines
	return nil
}

func (s *failingStorage) Delete(context.Context, string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	return nil
}

func TestStoreMutatorsPersistBeforeReturning(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	store, err := Open(ctx, storage, "u1")
	require.NoError(t, err)

	item := LineItem{ProductID: "p1", Name: "Mug", UnitPrice: 8.5}
	require.NoError(t, store.AddItem(ctx, item, 2))

	// A second consumer reading storage directly sees the mutation.
	persisted, err := storage.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, 2, persisted[0].Quantity)

	require.NoError(t, store.UpdateQuantity(ctx, "p1", 5))
	persisted, _ = storage.Load(ctx, "u1")
	assert.Equal(t, 5, persisted[0].Quantity)

	require.NoError(t, store.RemoveItem(ctx, "p1"))
	persisted, _ = storage.Load(ctx, "u1")
	assert.Empty(t, persisted)
}

func TestStoreFailedSaveKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	storage := &failingStorage{lines: []LineItem{{ProductID: "p1", UnitPrice: 4, Quantity: 3}}}

	store, err := Open(ctx, storage, "u1")
	require.NoError(t, err)

	storage.fail = true
	err = store.AddItem(ctx, LineItem{ProductID: "p2"}, 1)
	require.Error(t, err)

	// Memory still matches storage: the old cart.
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 3, store.ItemCount())
}

func TestStoreClearEmptiesCart(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	store, err := Open(ctx, storage, "u1")
	require.NoError(t, err)
	require.NoError(t, store.AddItem(ctx, LineItem{ProductID: "p1", UnitPrice: 9.99}, 3))
	require.NoError(t, store.AddItem(ctx, LineItem{ProductID: "p2", UnitPrice: 1.50}, 1))

	require.NoError(t, store.Clear(ctx))

	assert.Zero(t, store.Total())
	assert.Zero(t, store.ItemCount())
	assert.Empty(t, store.Items())

	persisted, _ := storage.Load(ctx, "u1")
	assert.Empty(t, persisted)
}

func TestStoreRehydratesFromStorage(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	first, err := Open(ctx, storage, "u1")
	require.NoError(t, err)
	require.NoError(t, first.AddItem(ctx, LineItem{ProductID: "p1", Name: "Lamp", UnitPrice: 20}, 2))

	second, err := Open(ctx, storage, "u1")
	require.NoError(t, err)

	items := second.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Lamp", items[0].Name)
	assert.InDelta(t, 40.0, second.Total(), 1e-9)
}

func TestStoreDerivedValuesTrackState(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, NewMemoryStorage(), "u1")
	require.NoError(t, err)

	require.NoError(t, store.AddItem(ctx, LineItem{ProductID: "p1", UnitPrice: 2.50}, 4))
	assert.InDelta(t, 10.0, store.Total(), 1e-9)

	require.NoError(t, store.UpdateQuantity(ctx, "p1", 1))
	assert.InDelta(t, 2.50, store.Total(), 1e-9)
	assert.Equal(t, 1, store.ItemCount())
}

func TestLineItemSlotRoundTrip(t *testing.T) {
	original := []LineItem{
		{ProductID: "p1", Name: "Mug", Image: "mug.png", UnitPrice: 8.5, Quantity: 2},
		{ProductID: "p2", Name: "Lamp", Image: "lamp.png", UnitPrice: 20, Quantity: 1},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded []LineItem
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestMalformedSlotFallsBackToEmpty(t *testing.T) {
	assert.Nil(t, decodeSlot([]byte(`{"not":"a cart"}`)))
	assert.Nil(t, decodeSlot([]byte(`garbage`)))
	assert.Empty(t, decodeSlot([]byte(`[]`)))

	lines := decodeSlot([]byte(`[{"productId":"p1","name":"Mug","image":"","unitPrice":8.5,"quantity":2}]`))
	require.Len(t, lines, 1)
	assert.Equal(t, LineItem{ProductID: "p1", Name: "Mug", UnitPrice: 8.5, Quantity: 2}, lines[0])
}
