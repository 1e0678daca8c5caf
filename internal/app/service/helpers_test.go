package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mrops-br/moka-storefront/internal/domain"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testTelemetry() (trace.Tracer, metric.Meter, *slog.Logger) {
	return tracenoop.NewTracerProvider().Tracer("test"),
		metricnoop.NewMeterProvider().Meter("test"),
		slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fixedNow = time.Date(2024, 6, 10, 6, 8, 43, 456_000_000, time.UTC)

func fixedClock() time.Time { return fixedNow }

// memStorage is a CartStorage recording writes.
type memStorage struct {
	mu      sync.Mutex
	records map[string][]byte
	writes  int
	getErr  error
	setErr  error
}

func newMemStorage() *memStorage {
	return &memStorage{records: map[string][]byte{}}
}

func (m *memStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.records[key]
	return v, ok, nil
}

func (m *memStorage) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.writes++
	m.records[key] = append([]byte(nil), value...)
	return nil
}

func (m *memStorage) record(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.records[key])
}

func (m *memStorage) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// stubSource is a CatalogSource serving fixed products.
type stubSource struct {
	products []domain.Product
	extra    map[string]domain.Product
	err      error
	calls    int
}

func (s *stubSource) FetchProducts(context.Context) ([]domain.Product, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func (s *stubSource) FetchProduct(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := s.extra[id]; ok {
		return &p, nil
	}
	return nil, domain.ErrProductNotFound
}

func product(id, name, category, price string) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
		InStock:  true,
	}
}

func line(id, shade, price string, qty int) domain.CartLineItem {
	return domain.CartLineItem{
		ID:       id,
		Shade:    shade,
		Name:     id,
		Price:    decimal.RequireFromString(price),
		Quantity: qty,
	}
}

func newTestCart(t *testing.T, storage domain.CartStorage) *CartStore {
	t.Helper()
	tracer, meter, logger := testTelemetry()
	cart, err := NewCartStore(context.Background(), storage, "moka_cart", tracer, meter, logger,
		WithCartClock(fixedClock))
	if err != nil {
		t.Fatalf("NewCartStore: %v", err)
	}
	return cart
}

func newTestCatalog(source domain.CatalogSource, fallback []domain.Product) *CatalogService {
	tracer, meter, logger := testTelemetry()
	return NewCatalogService(source, fallback, tracer, meter, logger)
}
