package dto

import (
	"encoding/json"
	"testing"

	"github.com/mrops-br/moka-storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductResponsePriceIsANumber(t *testing.T) {
	p := domain.Product{ID: "fnd-001", Name: "Silk Foundation", Price: decimal.RequireFromString("49.50")}

	data, err := json.Marshal(ToProductResponse(&p))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"price":49.5,`)
}

func TestPriceDecodesNumbersAndStrings(t *testing.T) {
	for _, raw := range []string{`{"price":12.5}`, `{"price":"12.50"}`} {
		var resp ProductResponse
		require.NoError(t, json.Unmarshal([]byte(raw), &resp), raw)
		assert.True(t, decimal.RequireFromString("12.5").Equal(resp.Price.Decimal), raw)
	}
}
