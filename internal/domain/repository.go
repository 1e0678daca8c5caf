package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductOutOfStock = errors.New("product is out of stock")
	ErrProductExists     = errors.New("product already exists")
)

// ProductRepository defines the contract for the catalog collection storage
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindAll(ctx context.Context) ([]*Product, error)
}

// CatalogSource fetches the catalog the storefront browses.
type CatalogSource interface {
	FetchProducts(ctx context.Context) ([]Product, error)
	FetchProduct(ctx context.Context, id string) (*Product, error)
}

// CartStorage is a synchronous key-value store holding serialized cart records.
// Get reports found=false for an absent key.
type CartStorage interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}
