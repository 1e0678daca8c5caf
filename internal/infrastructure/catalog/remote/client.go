package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mrops-br/moka-storefront/internal/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CollectionPath is the product collection below the catalog base URL.
const CollectionPath = "/tables/products"

// ErrUnexpectedStatus marks a non-2xx catalog response.
var ErrUnexpectedStatus = errors.New("unexpected catalog response status")

// maxBody caps how much of a catalog response is read.
const maxBody = 8 << 20

// Client reads products from the remote catalog service
type Client struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewClient creates a catalog client with an instrumented transport
func NewClient(baseURL string, timeout time.Duration, tracer trace.Tracer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tracer: tracer,
		logger: logger,
	}
}

type envelope struct {
	Data []domain.Product `json:"data"`
}

// FetchProducts handles GET /tables/products
func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogClient.FetchProducts")
	defer span.End()

	var env envelope
	if err := c.getJSON(ctx, c.baseURL+CollectionPath, &env); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog fetch failed")
		return nil, err
	}

	if env.Data == nil {
		env.Data = []domain.Product{}
	}
	span.SetAttributes(attribute.Int("product.count", len(env.Data)))
	span.SetStatus(codes.Ok, "Catalog fetched")
	return env.Data, nil
}

// FetchProduct handles GET /tables/products/{id}
func (c *Client) FetchProduct(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogClient.FetchProduct")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", id))

	var p domain.Product
	if err := c.getJSON(ctx, c.baseURL+CollectionPath+"/"+url.PathEscape(id), &p); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Product fetch failed")
		return nil, err
	}
	if p.ID == "" {
		return nil, domain.ErrProductNotFound
	}

	span.SetStatus(codes.Ok, "Product fetched")
	return &p, nil
}

func (c *Client) getJSON(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrProductNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}

	c.logger.DebugContext(ctx, "Catalog response decoded",
		slog.String("url", target),
		slog.Int("status", resp.StatusCode),
	)
	return nil
}
