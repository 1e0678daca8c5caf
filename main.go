package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/moka-storefront/internal/app/service"
	"github.com/mrops-br/moka-storefront/internal/app/session"
	"github.com/mrops-br/moka-storefront/internal/domain"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/catalog/remote"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/catalog/seed"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/config"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/http"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/http/handler"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/render"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/repository/memory"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/repository/postgres"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/storage/filestore"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/storage/memstore"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/storage/redisstore"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const instrumentationName = "moka-storefront"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize OpenTelemetry
	telem, err := telemetry.NewTelemetry(&cfg.OTLP, &cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	runErr := run(ctx, cfg, telem)
	stop()

	if runErr != nil {
		telem.Logger.Error("Storefront stopped with error", slog.String("error", runErr.Error()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := telem.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down telemetry: %v", err)
	}

	if runErr != nil {
		shutdownCancel()
		os.Exit(1)
	}
	telem.Logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, telem *telemetry.Telemetry) error {
	tracer := telem.TracerProvider.Tracer(instrumentationName)
	meter := telem.MeterProvider.Meter(instrumentationName)
	logger := telem.Logger

	logger.Info("Starting Moka storefront")

	carts, closeCarts, err := newCartStorage(ctx, &cfg.Storage, tracer, logger)
	if err != nil {
		return err
	}
	defer closeCarts()

	repo, closeRepo, err := newProductRepository(ctx, &cfg.Catalog, tracer, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	fallback, err := seed.Fallback()
	if err != nil {
		return err
	}

	// Services
	productService := service.NewProductService(repo, tracer, meter, logger)
	catalogClient := remote.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, tracer, logger)
	catalog := service.NewCatalogService(catalogClient, fallback, tracer, meter, logger)
	checkout := service.NewCheckoutService(cfg.Checkout.ProcessingDelay, tracer, meter, logger)
	registry := session.NewRegistry(carts, cfg.Storage.CartKey, catalog, checkout, cfg.Session.IdleTTL, tracer, meter, logger)

	renderer, err := render.NewRenderer(render.DefaultBindings())
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	// Handlers
	server := http.NewServer(&cfg.Server, &cfg.Session, http.Handlers{
		Products: handler.NewProductHandler(productService, logger),
		Shop:     handler.NewShopHandler(catalog, logger),
		Cart:     handler.NewCartHandler(logger),
		Checkout: handler.NewCheckoutHandler(logger),
		UI:       handler.NewUIHandler(catalog, renderer, logger),
	}, registry, catalog, logger, telem.MeterProvider)

	// Listen before loading so a catalog served by this process is reachable.
	// Storefront routes answer 503 until the load finishes.
	ln, err := net.Listen("tcp", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Serve(ln)
	})

	g.Go(func() error {
		catalog.Load(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newCartStorage(ctx context.Context, cfg *config.StorageConfig, tracer trace.Tracer, logger *slog.Logger) (domain.CartStorage, func(), error) {
	switch cfg.Backend {
	case "memory":
		return memstore.NewCartStorage(), func() {}, nil
	case "file":
		s, err := filestore.NewCartStorage(cfg.Dir, tracer, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open cart directory: %w", err)
		}
		return s, func() {}, nil
	case "redis":
		client, err := redisstore.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				logger.Warn("Failed to close redis client", slog.String("error", err.Error()))
			}
		}
		return redisstore.NewCartStorage(client, cfg.CartTTL, tracer, logger), closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unknown cart storage backend %q", cfg.Backend)
	}
}

func newProductRepository(ctx context.Context, cfg *config.CatalogConfig, tracer trace.Tracer, logger *slog.Logger) (domain.ProductRepository, func(), error) {
	products, err := seed.Catalog()
	if err != nil {
		return nil, nil, err
	}

	if cfg.DatabaseURL == "" {
		return memory.NewProductRepository(products, tracer, logger), func() {}, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to catalog database: %w", err)
	}
	repo := postgres.NewProductRepository(db, tracer, logger)
	if err := repo.Migrate(ctx, products); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to migrate catalog database: %w", err)
	}

	closeFn := func() {
		if err := db.Close(); err != nil {
			logger.Warn("Failed to close catalog database", slog.String("error", err.Error()))
		}
	}
	return repo, closeFn, nil
}
