package dto

import (
	"time"

	"github.com/mrops-br/moka-storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents the request to add a product to the collection
type CreateProductRequest struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Shades      []string        `json:"shades"`
	Featured    bool            `json:"featured"`
	InStock     *bool           `json:"in_stock,omitempty"`
	Rating      float64         `json:"rating"`
}

// ProductResponse represents one record of the product collection
type ProductResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Price       Price      `json:"price"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	Shades      []string   `json:"shades"`
	Featured    bool       `json:"featured"`
	InStock     bool       `json:"in_stock"`
	Rating      float64    `json:"rating"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// Price is a catalog price written as a JSON number, the way collection records carry
// it. Decoding accepts numbers and quoted strings.
type Price struct {
	decimal.Decimal
}

// MarshalJSON writes the exact decimal as a bare number
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.Decimal.String()), nil
}

// MaxCollectionLimit caps the page size a collection request may ask for
const MaxCollectionLimit = 1000

// ListProductsQuery narrows and pages the collection. A zero Limit returns every match
// on a single page, which is what the catalog loader relies on.
type ListProductsQuery struct {
	Page   int
	Limit  int
	Search string
	Sort   string
}

// ProductCollectionResponse is the envelope the storefront catalog loader reads
type ProductCollectionResponse struct {
	Data  []*ProductResponse `json:"data"`
	Total int                `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *domain.Product) *ProductResponse {
	resp := &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       Price{p.Price},
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Shades:      p.Shades,
		Featured:    p.Featured,
		InStock:     p.InStock,
		Rating:      p.Rating,
	}
	if resp.Shades == nil {
		resp.Shades = []string{}
	}
	if !p.CreatedAt.IsZero() {
		created := p.CreatedAt.Time
		resp.CreatedAt = &created
	}
	return resp
}

// ToProductCollection wraps one page of products. total counts every match.
func ToProductCollection(products []domain.Product, total, page, limit int) *ProductCollectionResponse {
	responses := make([]*ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return &ProductCollectionResponse{Data: responses, Total: total, Page: page, Limit: limit}
}
