package service

import (
	"sync"

	"github.com/mrops-br/moka-storefront/internal/domain"
)

// FilterUpdate carries the filter fields a control changed. Nil fields keep their value.
type FilterUpdate struct {
	Category   *string `json:"category,omitempty"`
	PriceRange *string `json:"price_range,omitempty"`
	Search     *string `json:"search,omitempty"`
	SortBy     *string `json:"sort_by,omitempty"`
}

// BrowseView is the listing state shown to the shopper.
type BrowseView struct {
	Filters domain.FilterState
	Page    domain.Page
}

// Browser keeps one shopper's filter state and current page over the shared catalog.
// The filtered list is recomputed on every filter change and whenever the catalog
// installs a new product list.
type Browser struct {
	catalog *CatalogService

	mu       sync.Mutex
	filters  domain.FilterState
	page     int
	filtered []domain.Product
	version  uint64
	computed bool
}

// NewBrowser starts with the default filters on page 1.
func NewBrowser(catalog *CatalogService) *Browser {
	return &Browser{
		catalog: catalog,
		filters: domain.DefaultFilterState(),
		page:    1,
	}
}

// SetFilters applies update, recomputes the listing and returns to page 1.
func (b *Browser) SetFilters(update FilterUpdate) BrowseView {
	b.mu.Lock()
	defer b.mu.Unlock()

	if update.Category != nil {
		b.filters.Category = *update.Category
	}
	if update.PriceRange != nil {
		b.filters.PriceRange = *update.PriceRange
	}
	if update.Search != nil {
		b.filters.Search = *update.Search
	}
	if update.SortBy != nil {
		b.filters.SortBy = *update.SortBy
	}
	b.page = 1
	b.recomputeLocked()
	return b.viewLocked()
}

// ClearFilters restores the defaults and returns to page 1.
func (b *Browser) ClearFilters() BrowseView {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.filters = domain.DefaultFilterState()
	b.page = 1
	b.recomputeLocked()
	return b.viewLocked()
}

// GoToPage moves to page n. Pages past the end render empty.
func (b *Browser) GoToPage(n int) BrowseView {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.page = n
	return b.viewLocked()
}

// View returns the current listing.
func (b *Browser) View() BrowseView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewLocked()
}

// Filters returns the current filter state.
func (b *Browser) Filters() domain.FilterState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filters
}

// Search runs the overlay search over the whole catalog, ignoring listing filters.
func (b *Browser) Search(query string) []domain.Product {
	return domain.QuickSearch(b.catalog.Products(), query)
}

// Featured lists the featured products.
func (b *Browser) Featured() []domain.Product {
	return domain.Featured(b.catalog.Products())
}

func (b *Browser) recomputeLocked() {
	b.version = b.catalog.Version()
	b.filtered = domain.ApplyFilters(b.catalog.Products(), b.filters)
	b.computed = true
}

func (b *Browser) viewLocked() BrowseView {
	if !b.computed || b.version != b.catalog.Version() {
		b.recomputeLocked()
	}
	return BrowseView{
		Filters: b.filters,
		Page:    domain.Paginate(b.filtered, b.page, domain.PageSize),
	}
}
