package domain

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnknownShade marks a shade the product does not offer.
var ErrUnknownShade = errors.New("shade is not offered for this product")

// ErrQuantityLimit rejects a change that would push the cart's item count past what an
// int can hold.
var ErrQuantityLimit = errors.New("quantity exceeds what the cart can hold")

// ErrCartLocked rejects line changes while an order is being processed.
var ErrCartLocked = errors.New("cart is locked while an order is processing")

// CartLineItem is one (product, shade, quantity) entry. Display fields are copied from
// the product when the line is created and are not re-synced afterwards.
type CartLineItem struct {
	ID       string          `json:"id"`
	Shade    string          `json:"shade"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
	AddedAt  time.Time       `json:"addedAt"`
}

// Key returns the fingerprint used to deduplicate cart lines.
func (i CartLineItem) Key() LineKey {
	return LineKey{ID: i.ID, Shade: i.Shade}
}

// LineTotal is price times quantity.
func (i CartLineItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineKey is the (product id, shade) fingerprint.
type LineKey struct {
	ID    string
	Shade string
}

// LineItemFromProduct builds a one-unit line for the given product and shade.
func LineItemFromProduct(p *Product, shade string, quantity int) CartLineItem {
	if shade == "" {
		shade = p.FirstShade()
	}
	return CartLineItem{
		ID:       p.ID,
		Shade:    shade,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.ImageURL,
		Quantity: quantity,
	}
}

// Cart holds the ordered line items and the sidebar visibility flag.
// Every line keeps quantity >= 1.
type Cart struct {
	Items []CartLineItem
	Open  bool
}

// NewCart wraps persisted items, dropping lines that would break the quantity invariant
// or overflow the item count.
func NewCart(items []CartLineItem) *Cart {
	c := &Cart{Items: make([]CartLineItem, 0, len(items))}
	total := 0
	for _, it := range items {
		if it.Quantity < 1 || it.Quantity > math.MaxInt-total {
			continue
		}
		total += it.Quantity
		c.Items = append(c.Items, it)
	}
	return c
}

// headroom is how many more units fit before ItemCount overflows.
func (c *Cart) headroom() int {
	return math.MaxInt - c.ItemCount()
}

func (c *Cart) index(key LineKey) int {
	for i := range c.Items {
		if c.Items[i].Key() == key {
			return i
		}
	}
	return -1
}

// Add merges item into the cart. A non-positive quantity counts as one.
// It returns the resulting line, or ErrQuantityLimit leaving the cart unchanged.
func (c *Cart) Add(item CartLineItem, now time.Time) (CartLineItem, error) {
	qty := item.Quantity
	if qty <= 0 {
		qty = 1
	}
	if qty > c.headroom() {
		return CartLineItem{}, ErrQuantityLimit
	}

	if i := c.index(item.Key()); i >= 0 {
		c.Items[i].Quantity += qty
		return c.Items[i], nil
	}

	item.Quantity = qty
	item.AddedAt = now
	c.Items = append(c.Items, item)
	return item, nil
}

// Remove drops the line with key; absent keys are a no-op.
func (c *Cart) Remove(key LineKey) bool {
	i := c.index(key)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

// SetQuantity sets the quantity of an existing line, removing it when quantity <= 0.
// It reports whether a line with key existed. A quantity that would overflow the item
// count returns ErrQuantityLimit and leaves the line as it was.
func (c *Cart) SetQuantity(key LineKey, quantity int) (bool, error) {
	i := c.index(key)
	if i < 0 {
		return false, nil
	}
	if quantity <= 0 {
		return c.Remove(key), nil
	}
	if quantity-c.Items[i].Quantity > c.headroom() {
		return true, ErrQuantityLimit
	}
	c.Items[i].Quantity = quantity
	return true, nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []CartLineItem{}
}

// Find returns the line with key.
func (c *Cart) Find(key LineKey) (CartLineItem, bool) {
	if i := c.index(key); i >= 0 {
		return c.Items[i], true
	}
	return CartLineItem{}, false
}

// ItemCount is the sum of quantities.
func (c *Cart) ItemCount() int {
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}

// Subtotal is the sum of price x quantity, without tax or shipping.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Snapshot returns a copy of the line items safe to hand out.
func (c *Cart) Snapshot() []CartLineItem {
	out := make([]CartLineItem, len(c.Items))
	copy(out, c.Items)
	return out
}

// IsEmpty reports whether there are no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
