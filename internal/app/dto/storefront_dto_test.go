package dto

import (
	"testing"

	"github.com/mrops-br/moka-storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStars(t *testing.T) {
	tests := []struct {
		rating float64
		want   StarRating
	}{
		{5, StarRating{Full: 5, Empty: 0}},
		{4.5, StarRating{Full: 4, Half: true, Empty: 0}},
		{4.2, StarRating{Full: 4, Half: true, Empty: 0}},
		{3, StarRating{Full: 3, Empty: 2}},
		{0, StarRating{Full: 0, Empty: 5}},
		{2.7, StarRating{Full: 2, Half: true, Empty: 2}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Stars(tt.rating), "rating %v", tt.rating)
	}
}

func TestProductCard(t *testing.T) {
	p := domain.Product{
		ID:       "lip-001",
		Name:     "Velvet Matte Lipstick",
		Category: "lipstick",
		Price:    decimal.NewFromInt(85),
		Rating:   4.8,
		InStock:  true,
		Featured: true,
		Shades:   []string{"Rouge Noir", "Nude Blush", "Berry"},
	}

	card := NewProductCard(p, true)
	assert.Equal(t, "Lipstick", card.CategoryName)
	assert.Equal(t, "$85", card.Price)
	assert.Equal(t, "4.8", card.Rating)
	assert.Equal(t, "3 shades", card.ShadeLabel)
	assert.Equal(t, "Rouge Noir", card.FirstShade)
	assert.Equal(t, "In Stock", card.StockLabel)
	assert.True(t, card.InWishlist)

	p.Shades = nil
	p.InStock = false
	p.Category = "skincare"
	card = NewProductCard(p, false)
	assert.Equal(t, []string{domain.DefaultShade}, card.Shades)
	assert.Equal(t, "1 shade", card.ShadeLabel)
	assert.Equal(t, "Out of Stock", card.StockLabel)
	assert.Equal(t, "skincare", card.CategoryName)
}

func TestPagination(t *testing.T) {
	assert.False(t, NewPagination(1, 1).Visible)

	p := NewPagination(1, 3)
	assert.True(t, p.Visible)
	assert.Zero(t, p.Previous)
	assert.Equal(t, 2, p.Next)
	assert.Zero(t, p.First)
	assert.Zero(t, p.Last)
	require.Len(t, p.Links, 3)
	assert.True(t, p.Links[0].Current)

	p = NewPagination(6, 10)
	assert.Equal(t, 1, p.First)
	assert.True(t, p.LeadingEllipsis)
	assert.Equal(t, 10, p.Last)
	assert.True(t, p.TrailingEllipsis)
	assert.Equal(t, []PageLink{{4, false}, {5, false}, {6, true}, {7, false}, {8, false}}, p.Links)

	p = NewPagination(4, 6)
	assert.Equal(t, 1, p.First)
	assert.False(t, p.LeadingEllipsis)
	assert.Equal(t, 0, p.Last)
}

func TestResultsText(t *testing.T) {
	products := make([]domain.Product, 25)
	assert.Equal(t, "Showing 13-24 of 25 products", ResultsText(domain.Paginate(products, 2, domain.PageSize)))
	assert.Equal(t, "Showing 25-25 of 25 products", ResultsText(domain.Paginate(products, 3, domain.PageSize)))
}

func TestCartView(t *testing.T) {
	items := []domain.CartLineItem{
		{ID: "lip-001", Shade: "Rouge Noir", Name: "Velvet Matte Lipstick", Price: decimal.NewFromInt(85), Quantity: 2},
		{ID: "fnd-001", Shade: "Default", Name: "Silk Foundation", Price: decimal.RequireFromString("49.5"), Quantity: 1},
	}

	v := NewCartView(items, true, false)
	assert.Equal(t, 3, v.ItemCount)
	assert.Equal(t, "$219.50", v.Subtotal)
	assert.Equal(t, "$170.00", v.Lines[0].LineTotal)
	assert.Equal(t, 1, v.Lines[0].DecreaseQuantity)
	assert.Equal(t, 3, v.Lines[0].IncreaseQuantity)
	assert.Equal(t, "$49.5", v.Lines[1].Price)
	assert.False(t, v.Empty)
}

func TestCheckoutView(t *testing.T) {
	paid := NewCheckoutView(domain.SummarizeCart([]domain.CartLineItem{
		{ID: "lip-001", Name: "Velvet Matte Lipstick", Price: decimal.NewFromInt(85), Quantity: 1},
	}), false, nil)
	assert.Equal(t, "$15.00", paid.Shipping)
	assert.Equal(t, "$106.80", paid.Total)
	assert.Equal(t, "Place Order - $106.80", paid.PlaceOrderLabel)

	free := NewCheckoutView(domain.SummarizeCart([]domain.CartLineItem{
		{ID: "lip-001", Name: "Velvet Matte Lipstick", Price: decimal.NewFromInt(85), Quantity: 2},
	}), true, nil)
	assert.Equal(t, "Free", free.Shipping)
	assert.Equal(t, "$13.60", free.Tax)
	assert.Equal(t, "Processing...", free.PlaceOrderLabel)
}
