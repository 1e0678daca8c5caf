// Package seed embeds the demonstration catalog: the two-record fallback shown when the
// remote catalog is unreachable, and the larger set served by the collection endpoint.
package seed

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/mrops-br/moka-storefront/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed fallback.yaml
var fallbackYAML []byte

//go:embed catalog.yaml
var catalogYAML []byte

type record struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Category    string    `yaml:"category"`
	Price       float64   `yaml:"price"`
	Description string    `yaml:"description"`
	ImageURL    string    `yaml:"image_url"`
	Shades      []string  `yaml:"shades"`
	Featured    bool      `yaml:"featured"`
	InStock     bool      `yaml:"in_stock"`
	Rating      float64   `yaml:"rating"`
	CreatedAt   time.Time `yaml:"created_at"`
}

func (r record) product() domain.Product {
	return domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Category:    r.Category,
		Price:       decimal.NewFromFloat(r.Price),
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Shades:      r.Shades,
		Featured:    r.Featured,
		InStock:     r.InStock,
		Rating:      r.Rating,
		CreatedAt:   domain.Timestamp{Time: r.CreatedAt},
	}
}

func decode(name string, data []byte) ([]domain.Product, error) {
	var records []record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	products := make([]domain.Product, 0, len(records))
	for _, r := range records {
		p := r.product()
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid product %q in %s: %w", r.ID, name, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// Fallback returns the sample products used when the catalog cannot be fetched.
func Fallback() ([]domain.Product, error) {
	return decode("fallback.yaml", fallbackYAML)
}

// Catalog returns the demonstration catalog served by the collection endpoint.
func Catalog() ([]domain.Product, error) {
	return decode("catalog.yaml", catalogYAML)
}
