package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMergesByProductID(t *testing.T) {
	item := LineItem{ProductID: "p1", Name: "Keyboard", UnitPrice: 49.99}

	lines := Add(nil, item, 1)
	lines = Add(lines, item, 2)
	lines = Add(lines, item, 3)

	require.Len(t, lines, 1)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, 6, lines[0].Quantity)
}

func TestAddCoercesNonPositiveQuantity(t *testing.T) {
	item := LineItem{ProductID: "p1", UnitPrice: 10}

	lines := Add(nil, item, 0)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)

	lines = Add(lines, item, -5)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAddQuantitySumWithCoercion(t *testing.T) {
	item := LineItem{ProductID: "p1"}

	var lines []LineItem
	for _, qty := range []int{3, 0, -2, 4} {
		lines = Add(lines, item, qty)
	}

	// 3 + 1 + 1 + 4, each add coerced to at least 1.
	require.Len(t, lines, 1)
	assert.Equal(t, 9, lines[0].Quantity)
}

func TestAddDoesNotMutateInput(t *testing.T) {
	original := []LineItem{{ProductID: "p1", Quantity: 1}}

	_ = Add(original, LineItem{ProductID: "p1"}, 5)

	assert.Equal(t, 1, original[0].Quantity)
}

func TestSetQuantity(t *testing.T) {
	lines := []LineItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 5},
	}

	updated := SetQuantity(lines, "p1", 7)
	assert.Equal(t, 7, updated[0].Quantity)
	assert.Equal(t, 5, updated[1].Quantity, "other lines unchanged")
}

func TestSetQuantityBelowOneIsNoOp(t *testing.T) {
	lines := []LineItem{{ProductID: "p1", Quantity: 2}}

	for _, qty := range []int{0, -1, -100} {
		updated := SetQuantity(lines, "p1", qty)
		assert.Equal(t, 2, updated[0].Quantity)
	}
}

func TestSetQuantityUnknownProductIsNoOp(t *testing.T) {
	lines := []LineItem{{ProductID: "p1", Quantity: 2}}

	updated := SetQuantity(lines, "missing", 9)
	require.Len(t, updated, 1)
	assert.Equal(t, 2, updated[0].Quantity)
}

func TestRemoveIsIdempotent(t *testing.T) {
	lines := []LineItem{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 1},
	}

	removed := Remove(lines, "p1")
	require.Len(t, removed, 1)

	removed = Remove(removed, "p1")
	require.Len(t, removed, 1)
	assert.Equal(t, "p2", removed[0].ProductID)
}

func TestTotalAndItemCount(t *testing.T) {
	lines := []LineItem{
		{ProductID: "p1", UnitPrice: 10.50, Quantity: 2},
		{ProductID: "p2", UnitPrice: 3.25, Quantity: 4},
	}

	assert.InDelta(t, 34.0, Total(lines), 1e-9)
	assert.Equal(t, 6, ItemCount(lines))

	assert.Zero(t, Total(nil))
	assert.Zero(t, ItemCount(nil))
}
