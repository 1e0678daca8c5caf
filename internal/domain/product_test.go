package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductDecodesCatalogRecord(t *testing.T) {
	raw := `{
		"id": "lip-001",
		"name": "Velvet Matte Lipstick",
		"category": "lipstick",
		"price": 85,
		"image_url": "https://example.com/lip.webp",
		"shades": ["Rouge Noir", "Midnight Rose"],
		"featured": true,
		"in_stock": true,
		"rating": 4.8,
		"created_at": 1718000123456
	}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.True(t, decimal.NewFromInt(85).Equal(p.Price))
	assert.Equal(t, "Rouge Noir", p.FirstShade())
	assert.Equal(t, int64(1718000123456), p.CreatedAt.UnixMilli())
}

func TestTimestampVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
	}{
		{"null", `null`, 0},
		{"empty string", `""`, 0},
		{"rfc3339", `"2024-06-10T06:15:23Z"`, time.Date(2024, 6, 10, 6, 15, 23, 0, time.UTC).UnixMilli()},
		{"numeric string", `"1000"`, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &ts))
			assert.Equal(t, tt.want, ts.UnixMilli())
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestShadeOptionsFallBackToDefault(t *testing.T) {
	p := Product{Name: "Brush"}
	assert.Equal(t, []string{DefaultShade}, p.ShadeOptions())
	assert.True(t, p.HasShade(DefaultShade))

	p.Shades = []string{}
	assert.Equal(t, DefaultShade, p.FirstShade())
}

func TestNewProductValidation(t *testing.T) {
	_, err := NewProduct("", " ", "lipstick", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrInvalidProductName)

	_, err = NewProduct("", "Gloss", "lipstick", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidProductPrice)

	p, err := NewProduct("", "Gloss", "lipstick", decimal.Zero)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
}
