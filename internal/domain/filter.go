package domain

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PageSize is the number of products on one listing page.
const PageSize = 12

// All disables the category or price-range filter.
const All = "all"

// Sort keys. The price keys accept both spellings used by the shop controls.
const (
	SortName      = "name"
	SortPriceLow  = "price-low"
	SortPriceAsc  = "price-asc"
	SortPriceHigh = "price-high"
	SortPriceDesc = "price-desc"
	SortRating    = "rating"
	SortNewest    = "newest"
)

// PriceBucket is a closed price interval used by the price-range filter.
type PriceBucket struct {
	Min int64
	Max int64
}

var priceBuckets = map[string]PriceBucket{
	"under-50": {Min: 0, Max: 49},
	"50-100":   {Min: 50, Max: 99},
	"100-150":  {Min: 100, Max: 149},
	"over-150": {Min: 150, Max: 999},
}

// BucketFor resolves a bucket name; unknown names cover [0,999].
func BucketFor(name string) PriceBucket {
	if b, ok := priceBuckets[name]; ok {
		return b
	}
	return PriceBucket{Min: 0, Max: 999}
}

// Contains reports whether price lies inside the bucket, bounds included.
func (b PriceBucket) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(decimal.NewFromInt(b.Min)) &&
		price.LessThanOrEqual(decimal.NewFromInt(b.Max))
}

// FilterState drives the listing view.
type FilterState struct {
	Category   string `json:"category"`
	PriceRange string `json:"price_range"`
	Search     string `json:"search"`
	SortBy     string `json:"sort_by"`
}

// DefaultFilterState shows everything sorted by name.
func DefaultFilterState() FilterState {
	return FilterState{
		Category:   All,
		PriceRange: All,
		Search:     "",
		SortBy:     SortName,
	}
}

// ApplyFilters returns a new, ordered slice of the products matching state.
// The input slice is never reordered.
func ApplyFilters(products []Product, state FilterState) []Product {
	filtered := make([]Product, 0, len(products))

	category := state.Category
	bucketActive := state.PriceRange != "" && state.PriceRange != All
	bucket := BucketFor(state.PriceRange)
	search := strings.ToLower(state.Search)

	for _, p := range products {
		if category != "" && category != All && p.Category != category {
			continue
		}
		if bucketActive && !bucket.Contains(p.Price) {
			continue
		}
		if search != "" && !MatchesSearch(p, search) {
			continue
		}
		filtered = append(filtered, p)
	}

	SortProducts(filtered, state.SortBy)
	return filtered
}

// MatchesSearch is a case-insensitive substring test over name, category and description.
func MatchesSearch(p Product, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Category), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

// SortProducts orders products in place. Unknown keys sort by name.
func SortProducts(products []Product, sortBy string) {
	switch sortBy {
	case SortPriceLow, SortPriceAsc:
		slices.SortStableFunc(products, func(a, b Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceHigh, SortPriceDesc:
		slices.SortStableFunc(products, func(a, b Product) int {
			return b.Price.Cmp(a.Price)
		})
	case SortRating:
		slices.SortStableFunc(products, func(a, b Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case SortNewest:
		slices.SortStableFunc(products, func(a, b Product) int {
			return cmp.Compare(b.CreatedAt.UnixMilli(), a.CreatedAt.UnixMilli())
		})
	default:
		// collate.Collator keeps scratch buffers; one per sort call.
		col := collate.New(language.English)
		slices.SortStableFunc(products, func(a, b Product) int {
			return col.CompareString(a.Name, b.Name)
		})
	}
}

// Page is one slice of a filtered listing.
type Page struct {
	Number     int
	Size       int
	TotalItems int
	TotalPages int
	Items      []Product
}

// Paginate slices products for page number (1-based). Out-of-range pages are empty.
func Paginate(products []Product, number, size int) Page {
	if size <= 0 {
		size = PageSize
	}
	total := len(products)
	page := Page{
		Number:     number,
		Size:       size,
		TotalItems: total,
		TotalPages: (total + size - 1) / size,
		Items:      []Product{},
	}

	start := (number - 1) * size
	if number < 1 || start >= total {
		return page
	}
	end := min(start+size, total)
	page.Items = products[start:end]
	return page
}

// FirstIndex and LastIndex give the 1-based range shown on the page.
func (p Page) FirstIndex() int {
	return (p.Number-1)*p.Size + 1
}

func (p Page) LastIndex() int {
	return min(p.Number*p.Size, p.TotalItems)
}

// PageWindow lists the page links around current: current +/- 2, clamped to [1,total].
func PageWindow(current, total int) (start, end int) {
	start = max(1, current-2)
	end = min(total, current+2)
	return start, end
}

// SearchMinLength is the shortest query the search overlay reacts to.
const SearchMinLength = 2

// QuickSearch returns products for the search overlay, in catalog order.
func QuickSearch(products []Product, query string) []Product {
	if len([]rune(query)) < SearchMinLength {
		return []Product{}
	}
	out := make([]Product, 0)
	for _, p := range products {
		if MatchesSearch(p, query) {
			out = append(out, p)
		}
	}
	return out
}

// Featured returns the featured products in catalog order.
func Featured(products []Product) []Product {
	out := make([]Product, 0)
	for _, p := range products {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}
