package service

import (
	"context"
	"strings"
	"testing"

	"github.com/mrops-br/moka-storefront/internal/app/dto"
	"github.com/mrops-br/moka-storefront/internal/domain"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProductService() *ProductService {
	tracer, meter, logger := testTelemetry()
	repo := memory.NewProductRepository(fallbackProducts, tracer, logger)
	return NewProductService(repo, tracer, meter, logger)
}

func TestProductServiceList(t *testing.T) {
	resp, err := newTestProductService().ListProducts(context.Background(), dto.ListProductsQuery{})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, "lip-001", resp.Data[0].ID)
	assert.NotNil(t, resp.Data[0].Shades)
}

func TestProductServiceListQuery(t *testing.T) {
	ctx := context.Background()
	svc := newTestProductService()

	t.Run("pages with limit", func(t *testing.T) {
		resp, err := svc.ListProducts(ctx, dto.ListProductsQuery{Page: 2, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Total)
		assert.Equal(t, 2, resp.Page)
		assert.Equal(t, 1, resp.Limit)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, fallbackProducts[1].ID, resp.Data[0].ID)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		resp, err := svc.ListProducts(ctx, dto.ListProductsQuery{Page: 5, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Total)
		assert.Empty(t, resp.Data)
	})

	t.Run("search narrows before counting", func(t *testing.T) {
		resp, err := svc.ListProducts(ctx, dto.ListProductsQuery{Search: strings.ToUpper(fallbackProducts[1].Name)})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Total)
		assert.Equal(t, fallbackProducts[1].ID, resp.Data[0].ID)
	})

	t.Run("sort by price descending", func(t *testing.T) {
		resp, err := svc.ListProducts(ctx, dto.ListProductsQuery{Sort: domain.SortPriceDesc})
		require.NoError(t, err)
		require.Len(t, resp.Data, 2)
		assert.True(t, resp.Data[0].Price.GreaterThanOrEqual(resp.Data[1].Price.Decimal))
	})
}

func TestProductServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc := newTestProductService()
	outOfStock := false

	created, err := svc.CreateProduct(ctx, &dto.CreateProductRequest{
		Name:     "Glow Highlighter",
		Category: "face",
		Price:    decimal.NewFromInt(42),
		Shades:   []string{"Champagne"},
		InStock:  &outOfStock,
		Rating:   4.5,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.InStock)

	got, err := svc.GetProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Glow Highlighter", got.Name)
}

func TestProductServiceCreateRejects(t *testing.T) {
	ctx := context.Background()
	svc := newTestProductService()

	_, err := svc.CreateProduct(ctx, &dto.CreateProductRequest{Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidProductName)

	_, err = svc.CreateProduct(ctx, &dto.CreateProductRequest{Name: "Dup", ID: "lip-001"})
	assert.ErrorIs(t, err, domain.ErrProductExists)

	_, err = svc.CreateProduct(ctx, &dto.CreateProductRequest{Name: "Odd", Rating: 7})
	assert.ErrorIs(t, err, domain.ErrInvalidProductRating)
}

func TestProductServiceNotFound(t *testing.T) {
	_, err := newTestProductService().GetProductByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
