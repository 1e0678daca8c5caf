package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/moka-storefront/internal/app/service"
	"github.com/mrops-br/moka-storefront/internal/app/session"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/config"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/http/handler"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "moka-storefront"

// Handlers groups the route handlers the server mounts
type Handlers struct {
	Products *handler.ProductHandler
	Shop     *handler.ShopHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	UI       *handler.UIHandler
}

// Server represents the HTTP server
type Server struct {
	router        *chi.Mux
	config        *config.ServerConfig
	sessionConfig *config.SessionConfig
	handlers      Handlers
	registry      *session.Registry
	catalog       *service.CatalogService
	logger        *slog.Logger
	meterProvider metric.MeterProvider
	httpServer    *http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.ServerConfig,
	sessionCfg *config.SessionConfig,
	handlers Handlers,
	registry *session.Registry,
	catalog *service.CatalogService,
	logger *slog.Logger,
	meterProvider metric.MeterProvider,
) *Server {
	s := &Server{
		router:        chi.NewRouter(),
		config:        cfg,
		sessionConfig: sessionCfg,
		handlers:      handlers,
		registry:      registry,
		catalog:       catalog,
		logger:        logger,
		meterProvider: meterProvider,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	// Every log written while serving carries http.route
	s.router.Use(middleware.HTTPRouteContext())

	meter := s.meterProvider.Meter(meterName)
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))
	s.router.Use(middleware.DurationMillisecondsMiddleware(meter))
}

func (s *Server) catalogReady() func(http.Handler) http.Handler {
	return middleware.CatalogReady(s.catalog.Loaded, s.logger)
}

func (s *Server) sessions() func(http.Handler) http.Handler {
	return middleware.Sessions(s.registry, s.sessionConfig.CookieName, s.sessionConfig.CookieMaxAge, s.logger)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	h := s.handlers

	// Product collection read by the catalog loader
	s.router.Route("/tables/products", func(r chi.Router) {
		r.Post("/", h.Products.CreateProduct)
		r.Get("/", h.Products.ListProducts)
		r.Get("/{id}", h.Products.GetProduct)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/bindings", h.UI.Bindings)

		// Storefront routes wait for the catalog; /tables/products stays up so the
		// loader can read a collection served by this process.
		r.Group(func(r chi.Router) {
			r.Use(s.catalogReady())
			r.Use(s.sessions())

			r.Get("/shop", h.Shop.GetShop)
			r.Post("/shop/filters", h.Shop.SetFilters)
			r.Post("/shop/filters/clear", h.Shop.ClearFilters)
			r.Post("/shop/page/{page}", h.Shop.GoToPage)
			r.Get("/featured", h.Shop.Featured)
			r.Get("/search", h.Shop.Search)
			r.Get("/products/{id}", h.Shop.GetProduct)
			r.Post("/wishlist/{id}", h.Shop.ToggleWishlist)
			r.Post("/newsletter", h.Shop.Subscribe)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart.GetCart)
				r.Delete("/", h.Cart.ClearCart)
				r.Post("/toggle", h.Cart.Toggle)
				r.Post("/items", h.Cart.AddItem)
				r.Put("/items/{id}/{shade}", h.Cart.UpdateItem)
				r.Delete("/items/{id}/{shade}", h.Cart.RemoveItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", h.Checkout.GetCheckout)
				r.Post("/", h.Checkout.BeginCheckout)
				r.Post("/orders", h.Checkout.PlaceOrder)
				r.Post("/format", h.Checkout.FormatForm)
			})

			r.Get("/modals", h.UI.ListModals)
			r.Post("/modals/{kind}", h.UI.OpenModal)
			r.Delete("/modals/{kind}", h.UI.CloseModal)

			r.Get("/notifications", h.UI.GetNotification)
			r.Delete("/notifications", h.UI.DismissNotification)
		})
	})

	s.router.Route("/fragments", func(r chi.Router) {
		r.Use(s.catalogReady())
		r.Use(s.sessions())

		r.Get("/products", h.UI.ProductsFragment)
		r.Get("/products/{id}", h.UI.ProductDetailFragment)
		r.Get("/featured", h.UI.FeaturedFragment)
		r.Get("/cart", h.UI.CartFragment)
		r.Get("/checkout", h.UI.CheckoutFragment)
		r.Get("/quick-view", h.UI.QuickViewFragment)
		r.Get("/search", h.UI.SearchFragment)
		r.Get("/notification", h.UI.NotificationFragment)
	})

	// Health check endpoint
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus metrics endpoint - exposes OpenTelemetry metrics
	s.router.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// Handler returns the router wrapped with otelhttp for request spans and the
// http.server.request.duration family of metrics.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithMeterProvider(s.meterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("http.route", middleware.RoutePattern(r)),
			}
		}),
	)
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("Starting HTTP server",
		slog.String("address", ln.Addr().String()),
	)

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Start listens on the configured address and serves until Shutdown is called.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
