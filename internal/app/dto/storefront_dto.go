package dto

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/mrops-br/moka-storefront/internal/domain"
	"github.com/shopspring/decimal"
)

var categoryNames = map[string]string{
	"lipstick":   "Lipstick",
	"eyeshadow":  "Eyeshadow",
	"foundation": "Foundation",
	"mascara":    "Mascara",
	"blush":      "Blush",
	"brushes":    "Brushes",
}

// CategoryName returns the display name of a category, or the category itself.
func CategoryName(category string) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return category
}

// FormatPrice renders a catalog price as stored, e.g. "$85" or "$49.5".
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.String()
}

// Money renders an amount with two decimals.
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// StarRating is the glyph breakdown of a 0-5 rating.
type StarRating struct {
	Full  int  `json:"full"`
	Half  bool `json:"half"`
	Empty int  `json:"empty"`
}

// Stars returns floor(rating) full stars, one half star when rating is fractional and
// 5 - ceil(rating) empty stars.
func Stars(rating float64) StarRating {
	full := int(math.Floor(rating))
	empty := 5 - int(math.Ceil(rating))
	return StarRating{
		Full:  max(full, 0),
		Half:  rating != math.Floor(rating),
		Empty: max(empty, 0),
	}
}

// ShadeLabel is "1 shade" or "n shades".
func ShadeLabel(n int) string {
	if n == 1 {
		return "1 shade"
	}
	return fmt.Sprintf("%d shades", n)
}

// ProductCard is the listing view of one product.
type ProductCard struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	CategoryName string     `json:"category_name"`
	Description  string     `json:"description"`
	ImageURL     string     `json:"image_url"`
	Price        string     `json:"price"`
	Rating       string     `json:"rating"`
	Stars        StarRating `json:"stars"`
	Shades       []string   `json:"shades"`
	FirstShade   string     `json:"first_shade"`
	ShadeLabel   string     `json:"shade_label"`
	Featured     bool       `json:"featured"`
	InStock      bool       `json:"in_stock"`
	StockLabel   string     `json:"stock_label"`
	InWishlist   bool       `json:"in_wishlist"`
}

// NewProductCard builds the card for p.
func NewProductCard(p domain.Product, inWishlist bool) ProductCard {
	shades := p.ShadeOptions()
	stock := "In Stock"
	if !p.InStock {
		stock = "Out of Stock"
	}
	return ProductCard{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		CategoryName: CategoryName(p.Category),
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		Price:        FormatPrice(p.Price),
		Rating:       strconv.FormatFloat(p.Rating, 'f', -1, 64),
		Stars:        Stars(p.Rating),
		Shades:       shades,
		FirstShade:   shades[0],
		ShadeLabel:   ShadeLabel(len(shades)),
		Featured:     p.Featured,
		InStock:      p.InStock,
		StockLabel:   stock,
		InWishlist:   inWishlist,
	}
}

// NewProductCards builds cards for products; wishlisted reports listed ids.
func NewProductCards(products []domain.Product, wishlisted func(id string) bool) []ProductCard {
	cards := make([]ProductCard, len(products))
	for i, p := range products {
		cards[i] = NewProductCard(p, wishlisted != nil && wishlisted(p.ID))
	}
	return cards
}

// PageLink is one numbered pagination button.
type PageLink struct {
	Number  int  `json:"number"`
	Current bool `json:"current"`
}

// Pagination describes the page controls. Hidden when there is at most one page.
type Pagination struct {
	Visible          bool       `json:"visible"`
	Previous         int        `json:"previous,omitempty"`
	Next             int        `json:"next,omitempty"`
	First            int        `json:"first,omitempty"`
	Last             int        `json:"last,omitempty"`
	LeadingEllipsis  bool       `json:"leading_ellipsis"`
	TrailingEllipsis bool       `json:"trailing_ellipsis"`
	Links            []PageLink `json:"links"`
}

// NewPagination lays out links for current +/- 2 with the first and last page and
// ellipses around gaps.
func NewPagination(current, total int) Pagination {
	p := Pagination{Links: []PageLink{}}
	if total <= 1 {
		return p
	}
	p.Visible = true

	if current > 1 {
		p.Previous = current - 1
	}
	if current < total {
		p.Next = current + 1
	}

	start, end := domain.PageWindow(current, total)
	if start > 1 {
		p.First = 1
		p.LeadingEllipsis = start > 2
	}
	for i := start; i <= end; i++ {
		p.Links = append(p.Links, PageLink{Number: i, Current: i == current})
	}
	if end < total {
		p.Last = total
		p.TrailingEllipsis = end < total-1
	}
	return p
}

// ResultsText is the "Showing a-b of n products" line.
func ResultsText(page domain.Page) string {
	return fmt.Sprintf("Showing %d-%d of %d products", page.FirstIndex(), page.LastIndex(), page.TotalItems)
}

// ShopView is the listing with its controls.
type ShopView struct {
	Filters     domain.FilterState `json:"filters"`
	Products    []ProductCard      `json:"products"`
	Page        int                `json:"page"`
	TotalPages  int                `json:"total_pages"`
	TotalItems  int                `json:"total_items"`
	ResultsText string             `json:"results_text"`
	Pagination  Pagination         `json:"pagination"`
	Empty       bool               `json:"empty"`
}

// NewShopView builds the listing view of one page.
func NewShopView(filters domain.FilterState, page domain.Page, wishlisted func(id string) bool) ShopView {
	return ShopView{
		Filters:     filters,
		Products:    NewProductCards(page.Items, wishlisted),
		Page:        page.Number,
		TotalPages:  page.TotalPages,
		TotalItems:  page.TotalItems,
		ResultsText: ResultsText(page),
		Pagination:  NewPagination(page.Number, page.TotalPages),
		Empty:       page.TotalItems == 0,
	}
}

// CartLineView is one line of the cart sidebar with its stepper targets.
type CartLineView struct {
	ID               string `json:"id"`
	Shade            string `json:"shade"`
	Name             string `json:"name"`
	Image            string `json:"image"`
	Price            string `json:"price"`
	Quantity         int    `json:"quantity"`
	LineTotal        string `json:"line_total"`
	DecreaseQuantity int    `json:"decrease_quantity"`
	IncreaseQuantity int    `json:"increase_quantity"`
}

// CartView is the cart sidebar and icon state.
type CartView struct {
	Lines     []CartLineView `json:"lines"`
	ItemCount int            `json:"item_count"`
	Subtotal  string         `json:"subtotal"`
	Open      bool           `json:"open"`
	Bounce    bool           `json:"bounce"`
	Empty     bool           `json:"empty"`
}

// NewCartView builds the sidebar view of items.
func NewCartView(items []domain.CartLineItem, open, bounce bool) CartView {
	lines := make([]CartLineView, len(items))
	count := 0
	subtotal := decimal.Zero
	for i, it := range items {
		count += it.Quantity
		subtotal = subtotal.Add(it.LineTotal())
		lines[i] = CartLineView{
			ID:               it.ID,
			Shade:            it.Shade,
			Name:             it.Name,
			Image:            it.Image,
			Price:            FormatPrice(it.Price),
			Quantity:         it.Quantity,
			LineTotal:        Money(it.LineTotal()),
			DecreaseQuantity: it.Quantity - 1,
			IncreaseQuantity: it.Quantity + 1,
		}
	}
	return CartView{
		Lines:     lines,
		ItemCount: count,
		Subtotal:  Money(subtotal),
		Open:      open,
		Bounce:    bounce,
		Empty:     len(items) == 0,
	}
}

// CheckoutLineView is one summary row.
type CheckoutLineView struct {
	Name     string `json:"name"`
	Shade    string `json:"shade"`
	Quantity int    `json:"quantity"`
	Total    string `json:"total"`
}

// OrderView is the confirmation shown after a successful order.
type OrderView struct {
	Number   string    `json:"number"`
	Email    string    `json:"email"`
	Total    string    `json:"total"`
	PlacedAt time.Time `json:"placed_at"`
}

// CheckoutView is the checkout modal content.
type CheckoutView struct {
	Lines           []CheckoutLineView `json:"lines"`
	Subtotal        string             `json:"subtotal"`
	Tax             string             `json:"tax"`
	Shipping        string             `json:"shipping"`
	Total           string             `json:"total"`
	FreeShipping    bool               `json:"free_shipping"`
	PlaceOrderLabel string             `json:"place_order_label"`
	Processing      bool               `json:"processing"`
	Order           *OrderView         `json:"order,omitempty"`
}

// NewCheckoutView formats a summary. Zero shipping shows as "Free".
func NewCheckoutView(s domain.CheckoutSummary, processing bool, order *domain.Order) CheckoutView {
	lines := make([]CheckoutLineView, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = CheckoutLineView{
			Name:     l.Name,
			Shade:    l.Shade,
			Quantity: l.Quantity,
			Total:    Money(l.Total),
		}
	}

	shipping := Money(s.Shipping)
	if s.FreeShipping() {
		shipping = "Free"
	}
	label := "Place Order - " + Money(s.Total)
	if processing {
		label = "Processing..."
	}

	v := CheckoutView{
		Lines:           lines,
		Subtotal:        Money(s.Subtotal),
		Tax:             Money(s.Tax),
		Shipping:        shipping,
		Total:           Money(s.Total),
		FreeShipping:    s.FreeShipping(),
		PlaceOrderLabel: label,
		Processing:      processing,
	}
	if order != nil {
		ov := NewOrderView(order)
		v.Order = &ov
	}
	return v
}

// NewOrderView formats an order confirmation.
func NewOrderView(order *domain.Order) OrderView {
	return OrderView{
		Number:   order.Number,
		Email:    order.Email,
		Total:    Money(order.Summary.Total),
		PlacedAt: order.PlacedAt,
	}
}

// AddToCartRequest adds a product from a card, quick view or detail page.
type AddToCartRequest struct {
	ProductID string `json:"product_id"`
	Shade     string `json:"shade"`
	Quantity  int    `json:"quantity"`
}

// UpdateQuantityRequest sets a line quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// NewsletterRequest is a newsletter signup.
type NewsletterRequest struct {
	Email string `json:"email"`
}

// OrderResponse is returned for a placed order.
type OrderResponse struct {
	Order    OrderView    `json:"order"`
	Checkout CheckoutView `json:"checkout"`
	Cart     CartView     `json:"cart"`
}
