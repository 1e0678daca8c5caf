package domain

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lipstick(qty int) CartLineItem {
	return CartLineItem{
		ID:       "lip-001",
		Shade:    "Rouge Noir",
		Name:     "Velvet Matte Lipstick",
		Price:    decimal.NewFromInt(85),
		Quantity: qty,
	}
}

func TestCartAdd(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("same key merges by summing quantities", func(t *testing.T) {
		c := NewCart(nil)
		c.Add(lipstick(0), now)
		c.Add(lipstick(2), now.Add(time.Minute))
		c.Add(lipstick(3), now.Add(2*time.Minute))

		require.Len(t, c.Items, 1)
		assert.Equal(t, 6, c.Items[0].Quantity)
		assert.Equal(t, now, c.Items[0].AddedAt, "merge keeps the first insertion time")
	})

	t.Run("different shade is a separate line", func(t *testing.T) {
		c := NewCart(nil)
		c.Add(lipstick(1), now)
		other := lipstick(1)
		other.Shade = "Deep Plum"
		c.Add(other, now)

		assert.Len(t, c.Items, 2)
		assert.Equal(t, 2, c.ItemCount())
	})

	t.Run("negative quantity counts as one", func(t *testing.T) {
		c := NewCart(nil)
		line, err := c.Add(lipstick(-4), now)
		require.NoError(t, err)
		assert.Equal(t, 1, line.Quantity)
	})

	t.Run("merge that would overflow is rejected", func(t *testing.T) {
		c := NewCart(nil)
		_, err := c.Add(lipstick(math.MaxInt), now)
		require.NoError(t, err)

		_, err = c.Add(lipstick(1), now)
		require.ErrorIs(t, err, ErrQuantityLimit)
		assert.Equal(t, math.MaxInt, c.Items[0].Quantity)
	})

	t.Run("new line that would overflow the count is rejected", func(t *testing.T) {
		c := NewCart(nil)
		_, err := c.Add(lipstick(math.MaxInt), now)
		require.NoError(t, err)

		other := lipstick(1)
		other.Shade = "Deep Plum"
		_, err = c.Add(other, now)
		require.ErrorIs(t, err, ErrQuantityLimit)
		assert.Len(t, c.Items, 1)
		assert.Equal(t, math.MaxInt, c.ItemCount())
	})
}

func TestCartSetQuantity(t *testing.T) {
	now := time.Now()

	t.Run("non-positive quantity removes the line", func(t *testing.T) {
		for _, q := range []int{0, -1} {
			c := NewCart(nil)
			c.Add(lipstick(2), now)

			removed := NewCart(nil)
			removed.Add(lipstick(2), now)
			removed.Remove(LineKey{ID: "lip-001", Shade: "Rouge Noir"})

			found, err := c.SetQuantity(LineKey{ID: "lip-001", Shade: "Rouge Noir"}, q)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, removed.Items, c.Items)
		}
	})

	t.Run("positive quantity is set without upper bound", func(t *testing.T) {
		c := NewCart(nil)
		c.Add(lipstick(1), now)
		c.SetQuantity(LineKey{ID: "lip-001", Shade: "Rouge Noir"}, 500)
		assert.Equal(t, 500, c.ItemCount())
	})

	t.Run("unknown key is a no-op", func(t *testing.T) {
		c := NewCart(nil)
		c.Add(lipstick(1), now)
		found, err := c.SetQuantity(LineKey{ID: "nope"}, 3)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, 1, c.ItemCount())
	})

	t.Run("quantity that would overflow the count is rejected", func(t *testing.T) {
		c := NewCart(nil)
		c.Add(lipstick(2), now)
		other := lipstick(1)
		other.Shade = "Deep Plum"
		c.Add(other, now)

		found, err := c.SetQuantity(LineKey{ID: "lip-001", Shade: "Rouge Noir"}, math.MaxInt)
		assert.True(t, found)
		require.ErrorIs(t, err, ErrQuantityLimit)
		assert.Equal(t, 3, c.ItemCount())

		found, err = c.SetQuantity(LineKey{ID: "lip-001", Shade: "Rouge Noir"}, math.MaxInt-1)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, math.MaxInt, c.ItemCount())
	})
}

func TestCartRemoveIsIdempotent(t *testing.T) {
	c := NewCart(nil)
	c.Add(lipstick(1), time.Now())

	key := LineKey{ID: "lip-001", Shade: "Rouge Noir"}
	assert.True(t, c.Remove(key))
	assert.False(t, c.Remove(key))
	assert.True(t, c.IsEmpty())
}

func TestCartSubtotal(t *testing.T) {
	c := NewCart(nil)
	c.Add(lipstick(2), time.Now())
	c.Add(CartLineItem{ID: "gift", Shade: DefaultShade, Price: decimal.Zero, Quantity: 3}, time.Now())
	c.Add(CartLineItem{ID: "eye-001", Shade: "Nude", Price: decimal.RequireFromString("12.50"), Quantity: 1}, time.Now())

	assert.Equal(t, 6, c.ItemCount())
	assert.True(t, decimal.RequireFromString("182.50").Equal(c.Subtotal()), c.Subtotal().String())
}

func TestCartClear(t *testing.T) {
	c := NewCart(nil)
	c.Add(lipstick(4), time.Now())
	c.Clear()

	assert.Equal(t, 0, c.ItemCount())
	assert.NotNil(t, c.Items)
}

func TestNewCartDropsInvalidQuantities(t *testing.T) {
	c := NewCart([]CartLineItem{lipstick(0), lipstick(2)})
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestNewCartDropsLinesThatOverflowTheCount(t *testing.T) {
	other := lipstick(math.MaxInt)
	other.Shade = "Deep Plum"

	c := NewCart([]CartLineItem{lipstick(2), other})
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.ItemCount())
}
