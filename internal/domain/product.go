package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductName   = errors.New("product name is required")
	ErrInvalidProductPrice  = errors.New("product price must not be negative")
	ErrInvalidProductRating = errors.New("product rating must be between 0 and 5")
)

// DefaultShade is the shade assumed for products without a shade list.
const DefaultShade = "Default"

// Product represents one sellable catalog entry
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Shades      []string        `json:"shades"`
	Featured    bool            `json:"featured"`
	InStock     bool            `json:"in_stock"`
	Rating      float64         `json:"rating"`
	CreatedAt   Timestamp       `json:"created_at"`
}

// NewProduct creates a new product with validation. An empty id gets a generated one.
func NewProduct(id, name, category string, price decimal.Decimal) (*Product, error) {
	if strings.TrimSpace(id) == "" {
		id = uuid.New().String()
	}

	product := &Product{
		ID:        id,
		Name:      name,
		Category:  category,
		Price:     price,
		InStock:   true,
		CreatedAt: Timestamp{Time: time.Now()},
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	return product, nil
}

// Validate performs business validation on the product
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidProductName
	}
	if p.Price.IsNegative() {
		return ErrInvalidProductPrice
	}
	if p.Rating < 0 || p.Rating > 5 {
		return ErrInvalidProductRating
	}
	return nil
}

// ShadeOptions returns the selectable shades, falling back to a single Default shade.
func (p *Product) ShadeOptions() []string {
	if len(p.Shades) == 0 {
		return []string{DefaultShade}
	}
	return p.Shades
}

// FirstShade is the shade preselected when nothing else was chosen.
func (p *Product) FirstShade() string {
	return p.ShadeOptions()[0]
}

// HasShade reports whether shade is one of the product's options.
func (p *Product) HasShade(shade string) bool {
	for _, s := range p.ShadeOptions() {
		if s == shade {
			return true
		}
	}
	return false
}

// Timestamp is a creation time that decodes from epoch milliseconds or RFC 3339 text.
// A missing or null value stays zero and sorts as the epoch.
type Timestamp struct {
	time.Time
}

// UnixMilli returns the epoch milliseconds, 0 for an unset timestamp.
func (t Timestamp) UnixMilli() int64 {
	if t.IsZero() {
		return 0
	}
	return t.Time.UnixMilli()
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			t.Time = time.UnixMilli(ms).UTC()
			return nil
		}
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		t.Time = parsed
		return nil
	}

	ms, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	t.Time = time.UnixMilli(int64(math.Round(ms))).UTC()
	return nil
}
