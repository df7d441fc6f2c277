package checkout

import (
	"testing"

	"github.com/garenk02/callysta-pos-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeProduct(id int64, price int64, stock int) models.Product {
	return models.Product{
		ID:            id,
		Name:          "Product",
		Price:         price,
		StockQuantity: stock,
		IsActive:      true,
	}
}

func TestAddIncrementsExistingLine(t *testing.T) {
	cart := NewCart()
	p := activeProduct(1, 10000, 5)

	require.NoError(t, cart.Add(p))
	require.NoError(t, cart.Add(p))

	assert.Equal(t, 2, cart.Quantity(1))
	assert.Len(t, cart.Items(), 1)
}

func TestAddClampsAtStock(t *testing.T) {
	cart := NewCart()
	p := activeProduct(1, 10000, 3)

	var warnings int
	for i := 0; i < 5; i++ {
		if err := cart.Add(p); err != nil {
			assert.ErrorIs(t, err, models.ErrStockExceeded)
			warnings++
		}
	}

	// Quantity is min(attempts, stock) and each over-add warned.
	assert.Equal(t, 3, cart.Quantity(1))
	assert.Equal(t, 2, warnings)
}

func TestAddRejectsOutOfStock(t *testing.T) {
	cart := NewCart()
	p := activeProduct(1, 10000, 0)

	err := cart.Add(p)
	assert.ErrorIs(t, err, models.ErrOutOfStock)
	assert.True(t, cart.IsEmpty())
}

func TestAddRejectsInactiveProduct(t *testing.T) {
	cart := NewCart()
	p := activeProduct(1, 10000, 5)
	p.IsActive = false

	err := cart.Add(p)
	assert.ErrorIs(t, err, models.ErrProductInactive)
	assert.True(t, cart.IsEmpty())
}

func TestSetQuantityBounds(t *testing.T) {
	cart := NewCart()
	p := activeProduct(1, 10000, 4)
	require.NoError(t, cart.Add(p))

	require.NoError(t, cart.SetQuantity(1, 3))
	assert.Equal(t, 3, cart.Quantity(1))

	// Above stock: clamped, with a warning error.
	err := cart.SetQuantity(1, 10)
	assert.ErrorIs(t, err, models.ErrStockExceeded)
	assert.Equal(t, 4, cart.Quantity(1))

	// Zero or negative removes the line.
	require.NoError(t, cart.SetQuantity(1, 0))
	assert.True(t, cart.IsEmpty())
}

func TestSetQuantityUnknownProduct(t *testing.T) {
	cart := NewCart()
	err := cart.SetQuantity(99, 2)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRemoveAbsentProductIsNoop(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(activeProduct(1, 10000, 5)))

	cart.Remove(99)
	assert.Equal(t, 1, cart.Quantity(1))
}

func TestSummaryTracksOperations(t *testing.T) {
	cart := NewCart()
	a := activeProduct(1, 10000, 10)
	b := activeProduct(2, 5000, 10)

	require.NoError(t, cart.Add(a))
	require.NoError(t, cart.Add(a))
	require.NoError(t, cart.Add(b))
	require.NoError(t, cart.SetQuantity(2, 4))
	cart.Remove(99)
	require.NoError(t, cart.SetQuantity(1, 3))

	// Summary must equal the manual per-line sum after any sequence.
	var want int64
	for _, item := range cart.Items() {
		want += item.Product.Price * int64(item.Quantity)
	}

	s := cart.Summarize()
	assert.Equal(t, want, s.Subtotal)
	assert.Equal(t, int64(0), s.Tax)
	assert.Equal(t, want, s.Total)
	assert.Equal(t, int64(3*10000+4*5000), s.Total)
	assert.Equal(t, 7, s.ItemCount)
	assert.Equal(t, 2, s.LineCount)
}

func TestClear(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(activeProduct(1, 10000, 5)))

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, int64(0), cart.Summarize().Total)
}
