package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/moka-storefront/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ProductRepository is an in-memory implementation of domain.ProductRepository.
// FindAll returns products in insertion order.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	order    []string
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewProductRepository creates an in-memory product repository holding seed
func NewProductRepository(seed []domain.Product, tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	r := &ProductRepository{
		products: make(map[string]*domain.Product, len(seed)),
		order:    make([]string, 0, len(seed)),
		tracer:   tracer,
		logger:   logger,
	}
	for i := range seed {
		p := seed[i]
		if _, exists := r.products[p.ID]; exists {
			continue
		}
		r.products[p.ID] = &p
		r.order = append(r.order, p.ID)
	}
	return r
}

// Create stores a new product
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", product.ID),
		attribute.String("product.name", product.Name),
	)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; exists {
		span.RecordError(domain.ErrProductExists)
		span.SetStatus(codes.Error, "Product already exists")
		return domain.ErrProductExists
	}

	stored := *product
	r.products[product.ID] = &stored
	r.order = append(r.order, product.ID)

	r.logger.InfoContext(ctx, "Product created in repository",
		slog.String("product_id", product.ID),
		slog.String("product_name", product.Name),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return nil
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		r.logger.WarnContext(ctx, "Product not found",
			slog.String("product_id", id),
		)
		return nil, domain.ErrProductNotFound
	}

	r.logger.DebugContext(ctx, "Product found in repository",
		slog.String("product_id", id),
		slog.String("product_name", product.Name),
	)

	span.SetStatus(codes.Ok, "Product found")
	found := *product
	return &found, nil
}

// FindAll retrieves all products
func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*domain.Product, 0, len(r.order))
	for _, id := range r.order {
		p := *r.products[id]
		products = append(products, &p)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))

	r.logger.DebugContext(ctx, "Products retrieved from repository",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}
