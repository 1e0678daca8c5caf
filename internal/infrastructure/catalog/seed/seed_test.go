package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallback(t *testing.T) {
	products, err := Fallback()
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "lip-001", products[0].ID)
	assert.Equal(t, "85", products[0].Price.String())
	assert.Equal(t, "Rouge Noir", products[0].FirstShade())
	assert.Equal(t, int64(0), products[0].CreatedAt.UnixMilli())
}

func TestCatalog(t *testing.T) {
	products, err := Catalog()
	require.NoError(t, err)
	assert.Greater(t, len(products), 12, "seed spans more than one listing page")

	seen := map[string]bool{}
	for _, p := range products {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}
