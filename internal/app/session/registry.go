package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/moka-storefront/internal/app/service"
	"github.com/mrops-br/moka-storefront/internal/domain"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option customizes a Registry
type Option func(*Registry)

// WithClock overrides the clock shared by sessions and their carts
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// Registry creates and tracks sessions by id. Idle sessions are dropped lazily; their
// carts remain in storage and are reloaded when the shopper returns.
type Registry struct {
	storage   domain.CartStorage
	keyPrefix string
	catalog   *service.CatalogService
	checkout  *service.CheckoutService
	idleTTL   time.Duration
	now       func() time.Time

	tracer trace.Tracer
	meter  metric.Meter
	logger *slog.Logger

	mu        sync.Mutex
	sessions  map[string]*Session
	lastSweep time.Time
}

// NewRegistry creates a registry. Carts are stored under keyPrefix + ":" + session id.
func NewRegistry(
	storage domain.CartStorage,
	keyPrefix string,
	catalog *service.CatalogService,
	checkout *service.CheckoutService,
	idleTTL time.Duration,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
	opts ...Option,
) *Registry {
	r := &Registry{
		storage:   storage,
		keyPrefix: keyPrefix,
		catalog:   catalog,
		checkout:  checkout,
		idleTTL:   idleTTL,
		now:       time.Now,
		tracer:    tracer,
		meter:     meter,
		logger:    logger,
		sessions:  map[string]*Session{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CartKey is the storage key for a session's cart.
func (r *Registry) CartKey(id string) string {
	return r.keyPrefix + ":" + id
}

// Get returns the session for id, creating it when unknown. Ids that are not UUIDs are
// replaced with a fresh one. created reports whether the caller must hand out the id.
func (r *Registry) Get(ctx context.Context, id string) (sess *Session, created bool, err error) {
	if _, parseErr := uuid.Parse(id); parseErr != nil {
		id = uuid.NewString()
		created = true
	}

	r.mu.Lock()
	r.sweepLocked()
	if s, ok := r.sessions[id]; ok {
		r.mu.Unlock()
		s.touch()
		return s, created, nil
	}
	r.mu.Unlock()

	cart, err := service.NewCartStore(ctx, r.storage, r.CartKey(id), r.tracer, r.meter, r.logger,
		service.WithCartClock(r.now))
	if err != nil {
		return nil, false, err
	}
	s := newSession(id, cart, r.catalog, r.checkout, r.now)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[id]; ok {
		existing.touch()
		return existing, created, nil
	}
	r.sessions[id] = s

	r.logger.DebugContext(ctx, "Session started",
		slog.String("session_id", id),
		slog.Int("cart_items", cart.ItemCount()),
	)
	return s, created, nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) sweepLocked() {
	if r.idleTTL <= 0 {
		return
	}
	now := r.now()
	if now.Sub(r.lastSweep) < r.idleTTL/2 {
		return
	}
	r.lastSweep = now

	cutoff := now.Add(-r.idleTTL)
	for id, s := range r.sessions {
		if s.idleSince(cutoff) {
			delete(r.sessions, id)
		}
	}
}
