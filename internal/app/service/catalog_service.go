package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/mrops-br/moka-storefront/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CatalogService holds the product list shared by every session.
// The list is loaded once and is read-only afterwards.
type CatalogService struct {
	source   domain.CatalogSource
	fallback []domain.Product

	mu           sync.RWMutex
	products     []domain.Product
	byID         map[string]int
	loaded       bool
	usedFallback bool
	version      uint64

	tracer       trace.Tracer
	logger       *slog.Logger
	catalogLoads metric.Int64Counter
}

// NewCatalogService creates a catalog backed by source, with fallback used when the
// source cannot be read.
func NewCatalogService(
	source domain.CatalogSource,
	fallback []domain.Product,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CatalogService {
	catalogLoads, _ := meter.Int64Counter(
		"catalog.loads",
		metric.WithDescription("Total number of catalog loads"),
	)

	return &CatalogService{
		source:       source,
		fallback:     fallback,
		byID:         map[string]int{},
		tracer:       tracer,
		logger:       logger,
		catalogLoads: catalogLoads,
	}
}

// Load fetches the catalog. Any failure installs the fallback products; nothing is
// retried. Calls after the first successful install are no-ops.
func (s *CatalogService) Load(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Load")
	defer span.End()

	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		span.SetStatus(codes.Ok, "Catalog already loaded")
		return
	}

	products, err := s.source.FetchProducts(ctx)
	result := "success"
	if err != nil {
		result = "fallback"
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog fetch failed, using fallback")
		s.logger.ErrorContext(ctx, "Failed to load catalog, using fallback products",
			slog.String("error", err.Error()),
			slog.Int("fallback_count", len(s.fallback)),
		)
		products = slices.Clone(s.fallback)
	} else {
		span.SetStatus(codes.Ok, "Catalog loaded")
		s.logger.InfoContext(ctx, "Catalog loaded",
			slog.Int("count", len(products)),
		)
	}
	span.SetAttributes(
		attribute.Int("product.count", len(products)),
		attribute.Bool("catalog.fallback", err != nil),
	)

	s.catalogLoads.Add(ctx, 1,
		metric.WithAttributes(attribute.String("result", result)),
	)

	s.install(products, err != nil)
}

func (s *CatalogService) install(products []domain.Product, fallback bool) {
	byID := make(map[string]int, len(products))
	for i, p := range products {
		if _, dup := byID[p.ID]; !dup {
			byID[p.ID] = i
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}
	s.products = products
	s.byID = byID
	s.loaded = true
	s.usedFallback = fallback
	s.version++
}

// Products returns the loaded catalog in source order. Callers must not modify it.
func (s *CatalogService) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

// Version changes whenever a new product list is installed.
func (s *CatalogService) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Loaded reports whether Load has installed a product list.
func (s *CatalogService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// UsedFallback reports whether the installed list is the fallback.
func (s *CatalogService) UsedFallback() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usedFallback
}

// Find looks id up in the loaded catalog only.
func (s *CatalogService) Find(id string) (*domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	p := s.products[i]
	return &p, true
}

// Product resolves id from the loaded catalog, then from the remote source.
func (s *CatalogService) Product(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Product")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", id))

	if p, ok := s.Find(id); ok {
		span.SetStatus(codes.Ok, "Product found in catalog")
		return p, nil
	}

	p, err := s.source.FetchProduct(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Product not found")
		if !errors.Is(err, domain.ErrProductNotFound) {
			s.logger.WarnContext(ctx, "Failed to fetch product",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
		}
		return nil, domain.ErrProductNotFound
	}

	span.SetStatus(codes.Ok, "Product fetched")
	return p, nil
}
