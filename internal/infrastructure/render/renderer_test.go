package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mrops-br/moka-storefront/internal/app/dto"
	"github.com/mrops-br/moka-storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(DefaultBindings())
	require.NoError(t, err)
	return r
}

func lipstick() domain.Product {
	return domain.Product{
		ID:       "lip-001",
		Name:     "Velvet Matte Lipstick",
		Category: "lipstick",
		Price:    decimal.NewFromInt(85),
		Rating:   4.5,
		InStock:  true,
		Featured: true,
		Shades:   []string{"Rouge Noir", "Nude Blush"},
	}
}

func TestShopRendersCards(t *testing.T) {
	r := newTestRenderer(t)
	products := make([]domain.Product, 13)
	for i := range products {
		products[i] = lipstick()
	}
	page := domain.Paginate(products, 1, domain.PageSize)

	var buf bytes.Buffer
	require.NoError(t, r.Shop(&buf, dto.NewShopView(domain.DefaultFilterState(), page, nil)))
	html := buf.String()

	assert.Contains(t, html, `id="products-container"`)
	assert.Contains(t, html, "Showing 1-12 of 13 products")
	assert.Equal(t, 12, strings.Count(html, `class="product-card`))
	assert.Equal(t, 4, strings.Count(html, `class="fas fa-star"`)/12)
	assert.Contains(t, html, "fa-star-half-alt")
	assert.Contains(t, html, "Featured")
	assert.Contains(t, html, "2 shades")
	assert.Contains(t, html, `data-page="2"`)
}

func TestShopRendersNoProducts(t *testing.T) {
	r := newTestRenderer(t)
	page := domain.Paginate(nil, 1, domain.PageSize)

	var buf bytes.Buffer
	require.NoError(t, r.Shop(&buf, dto.NewShopView(domain.DefaultFilterState(), page, nil)))
	assert.Contains(t, buf.String(), "No Products Found")
	assert.NotContains(t, buf.String(), "pagination-btn")
}

func TestOutOfStockCardDisablesButtons(t *testing.T) {
	r := newTestRenderer(t)
	p := lipstick()
	p.InStock = false

	var buf bytes.Buffer
	require.NoError(t, r.Featured(&buf, []dto.ProductCard{dto.NewProductCard(p, false)}))
	assert.Contains(t, buf.String(), "Out of Stock")
	assert.Contains(t, buf.String(), "disabled")
}

func TestCartFragment(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	require.NoError(t, r.Cart(&buf, dto.NewCartView(nil, false, false)))
	assert.Contains(t, buf.String(), "Your cart is empty")

	buf.Reset()
	items := []domain.CartLineItem{{ID: "lip-001", Shade: "Rouge Noir", Name: "Velvet Matte Lipstick",
		Price: decimal.NewFromInt(85), Quantity: 2}}
	require.NoError(t, r.Cart(&buf, dto.NewCartView(items, true, true)))
	html := buf.String()
	assert.Contains(t, html, "$170.00")
	assert.Contains(t, html, `data-quantity="1"`)
	assert.Contains(t, html, `data-quantity="3"`)
	assert.Contains(t, html, "bounce")
	assert.Contains(t, html, "cart-sidebar active")
}

func TestCheckoutFragment(t *testing.T) {
	r := newTestRenderer(t)
	summary := domain.SummarizeCart([]domain.CartLineItem{{ID: "lip-001", Name: "Velvet Matte Lipstick",
		Shade: "Rouge Noir", Price: decimal.NewFromInt(85), Quantity: 2}})

	var buf bytes.Buffer
	require.NoError(t, r.Checkout(&buf, dto.NewCheckoutView(summary, false, nil), false))
	assert.Contains(t, buf.String(), "Free")
	assert.Contains(t, buf.String(), "Place Order - $183.60")

	buf.Reset()
	order := &domain.Order{Number: "MKA123456", Email: "ana@example.com", Summary: summary}
	require.NoError(t, r.Checkout(&buf, dto.NewCheckoutView(summary, false, order), false))
	assert.Contains(t, buf.String(), "#MKA123456")
	assert.NotContains(t, buf.String(), "checkout-form")
}

func TestProductDetailNotFound(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	require.NoError(t, r.ProductDetail(&buf, nil))
	assert.Contains(t, buf.String(), "Product Not Found")

	buf.Reset()
	card := dto.NewProductCard(lipstick(), false)
	require.NoError(t, r.ProductDetail(&buf, &card))
	assert.Contains(t, buf.String(), "Available Shades")
	assert.Contains(t, buf.String(), "(4.5 stars)")
}

func TestQuickViewAndSearch(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	require.NoError(t, r.QuickView(&buf, dto.NewProductCard(lipstick(), false), true))
	assert.Contains(t, buf.String(), `id="product-modal"`)
	assert.NotContains(t, buf.String(), "modal active")

	buf.Reset()
	require.NoError(t, r.Search(&buf, SearchView{Query: "zz", Active: true}, false))
	assert.Contains(t, buf.String(), "No products found")

	buf.Reset()
	require.NoError(t, r.Search(&buf, SearchView{Query: "z"}, false))
	assert.NotContains(t, buf.String(), "No products found")
}

func TestNotificationFragment(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	require.NoError(t, r.Notification(&buf, nil))
	assert.Empty(t, strings.TrimSpace(buf.String()))

	require.NoError(t, r.Notification(&buf, &Toast{Message: "Your cart is empty!", Level: "warning"}))
	assert.Contains(t, buf.String(), "notification-warning")
	assert.Contains(t, buf.String(), "fa-info-circle")
}
