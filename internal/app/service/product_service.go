package service

import (
	"context"
	"log/slog"

	"github.com/mrops-br/moka-storefront/internal/app/dto"
	"github.com/mrops-br/moka-storefront/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ProductService handles the product collection use cases
type ProductService struct {
	repo                  domain.ProductRepository
	tracer                trace.Tracer
	logger                *slog.Logger
	productCreatedCounter metric.Int64Counter
	productOperations     metric.Int64Counter
}

// NewProductService creates a new product service
func NewProductService(
	repo domain.ProductRepository,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ProductService {
	productCreatedCounter, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	return &ProductService{
		repo:                  repo,
		tracer:                tracer,
		logger:                logger,
		productCreatedCounter: productCreatedCounter,
		productOperations:     productOperations,
	}
}

func (s *ProductService) record(ctx context.Context, operation, result string) {
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

// CreateProduct adds a product to the collection
func (s *ProductService) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.name", req.Name),
		attribute.String("product.category", req.Category),
		attribute.String("product.price", req.Price.String()),
	)

	s.logger.InfoContext(ctx, "Creating product",
		slog.String("name", req.Name),
		slog.String("category", req.Category),
	)

	product, err := domain.NewProduct(req.ID, req.Name, req.Category, req.Price)
	if err == nil {
		product.Description = req.Description
		product.ImageURL = req.ImageURL
		product.Shades = req.Shades
		product.Featured = req.Featured
		product.Rating = req.Rating
		if req.InStock != nil {
			product.InStock = *req.InStock
		}
		err = product.Validate()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Validation failed")
		s.logger.ErrorContext(ctx, "Failed to create product",
			slog.String("error", err.Error()),
		)
		s.record(ctx, "create", "failure")
		return nil, err
	}

	span.SetAttributes(attribute.String("product.id", product.ID))

	if err := s.repo.Create(ctx, product); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to store product")
		s.logger.ErrorContext(ctx, "Failed to store product",
			slog.String("error", err.Error()),
		)
		s.record(ctx, "create", "failure")
		return nil, err
	}

	s.productCreatedCounter.Add(ctx, 1)
	s.record(ctx, "create", "success")

	s.logger.InfoContext(ctx, "Product created successfully",
		slog.String("product_id", product.ID),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return dto.ToProductResponse(product), nil
}

// GetProductByID retrieves a product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProductByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Product not found")
		s.logger.WarnContext(ctx, "Product not found",
			slog.String("product_id", id),
		)
		s.record(ctx, "read", "not_found")
		return nil, err
	}

	s.record(ctx, "read", "success")

	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return dto.ToProductResponse(product), nil
}

// ListProducts returns one page of the collection, optionally narrowed by a search
// term and ordered by one of the storefront sort keys. Without a sort key the
// collection keeps insertion order.
func (s *ProductService) ListProducts(ctx context.Context, q dto.ListProductsQuery) (*dto.ProductCollectionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ListProducts")
	defer span.End()
	span.SetAttributes(
		attribute.Int("query.page", q.Page),
		attribute.Int("query.limit", q.Limit),
		attribute.String("query.sort", q.Sort),
	)

	stored, err := s.repo.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to retrieve products")
		s.logger.ErrorContext(ctx, "Failed to list products",
			slog.String("error", err.Error()),
		)
		s.record(ctx, "list", "failure")
		return nil, err
	}

	matches := make([]domain.Product, 0, len(stored))
	for _, p := range stored {
		if q.Search == "" || domain.MatchesSearch(*p, q.Search) {
			matches = append(matches, *p)
		}
	}
	if q.Sort != "" {
		domain.SortProducts(matches, q.Sort)
	}

	page := max(q.Page, 1)
	limit := min(q.Limit, dto.MaxCollectionLimit)
	if limit <= 0 {
		limit = max(len(matches), 1)
		page = 1
	}
	window := domain.Paginate(matches, page, limit)

	span.SetAttributes(
		attribute.Int("product.count", len(window.Items)),
		attribute.Int("product.total", len(matches)),
	)
	s.record(ctx, "list", "success")

	s.logger.InfoContext(ctx, "Products listed successfully",
		slog.Int("count", len(window.Items)),
		slog.Int("total", len(matches)),
	)

	span.SetStatus(codes.Ok, "Products listed successfully")
	return dto.ToProductCollection(window.Items, len(matches), page, limit), nil
}
