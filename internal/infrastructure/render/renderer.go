// Package render turns view models into the HTML fragments the storefront shell swaps
// into its element ids.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/mrops-br/moka-storefront/internal/app/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

// SearchView is the search overlay content.
type SearchView struct {
	Query   string
	Active  bool
	Results []dto.ProductCard
}

// Toast is the visible notification.
type Toast struct {
	Message string
	Level   string
}

type view struct {
	B       Bindings
	V       any
	Closing bool
}

// Renderer executes the embedded fragment templates.
type Renderer struct {
	bindings Bindings
	tmpl     *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer(bindings Bindings) (*Renderer, error) {
	tmpl, err := template.New("fragments").Funcs(template.FuncMap{
		"iter": func(n int) []struct{} { return make([]struct{}, max(n, 0)) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{bindings: bindings, tmpl: tmpl}, nil
}

// Bindings returns the element ids the fragments use.
func (r *Renderer) Bindings() Bindings {
	return r.bindings
}

func (r *Renderer) execute(w io.Writer, name string, v any, closing bool) error {
	if err := r.tmpl.ExecuteTemplate(w, name, view{B: r.bindings, V: v, Closing: closing}); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

// Shop renders the listing, results line and pagination.
func (r *Renderer) Shop(w io.Writer, v dto.ShopView) error {
	return r.execute(w, "shop", v, false)
}

// Featured renders the featured product strip.
func (r *Renderer) Featured(w io.Writer, cards []dto.ProductCard) error {
	return r.execute(w, "featured", cards, false)
}

// Cart renders the cart icon count and sidebar.
func (r *Renderer) Cart(w io.Writer, v dto.CartView) error {
	return r.execute(w, "cart", v, false)
}

// Checkout renders the checkout modal, or the confirmation once an order is placed.
func (r *Renderer) Checkout(w io.Writer, v dto.CheckoutView, closing bool) error {
	return r.execute(w, "checkout", v, closing)
}

// QuickView renders the product quick view modal.
func (r *Renderer) QuickView(w io.Writer, card dto.ProductCard, closing bool) error {
	return r.execute(w, "quick-view", card, closing)
}

// ProductDetail renders the detail page body; nil renders the not-found view.
func (r *Renderer) ProductDetail(w io.Writer, card *dto.ProductCard) error {
	if card == nil {
		return r.execute(w, "product-detail", nil, false)
	}
	return r.execute(w, "product-detail", *card, false)
}

// Search renders the search overlay.
func (r *Renderer) Search(w io.Writer, v SearchView, closing bool) error {
	return r.execute(w, "search", v, closing)
}

// Notification renders the toast; nil renders nothing.
func (r *Renderer) Notification(w io.Writer, t *Toast) error {
	if t == nil {
		return r.execute(w, "notification", nil, false)
	}
	return r.execute(w, "notification", *t, false)
}
