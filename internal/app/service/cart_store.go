package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mrops-br/moka-storefront/internal/domain"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Cart operations reported in events and metrics
const (
	CartOpAdd    = "add"
	CartOpRemove = "remove"
	CartOpUpdate = "update"
	CartOpClear  = "clear"
	CartOpToggle = "toggle"
)

// CartEvent describes one cart mutation to listeners refreshing the presentation.
type CartEvent struct {
	Op        string
	Item      *domain.CartLineItem
	ItemCount int
	Open      bool
	// Bounce asks the cart icon to play its add-to-cart animation.
	Bounce bool
}

// CartListener is called after every mutation, outside the store lock.
type CartListener func(ctx context.Context, ev CartEvent)

// CartOption customizes a CartStore
type CartOption func(*CartStore)

// WithCartClock overrides the clock used for AddedAt timestamps
func WithCartClock(now func() time.Time) CartOption {
	return func(s *CartStore) { s.now = now }
}

// CartStore owns one shopper's cart. Every mutation is written through to storage
// before listeners run, and a mutation whose write fails is undone.
type CartStore struct {
	mu        sync.Mutex
	cart      *domain.Cart
	storage   domain.CartStorage
	key       string
	now       func() time.Time
	listeners []CartListener
	// holds counts checkouts in progress; line changes are refused while it is positive.
	holds int

	tracer         trace.Tracer
	logger         *slog.Logger
	cartOperations metric.Int64Counter
}

// NewCartStore loads the cart stored under key. An absent record gives an empty cart.
// A record that does not decode is treated as empty and logged; it is replaced on the
// next mutation. Storage read failures are returned.
func NewCartStore(
	ctx context.Context,
	storage domain.CartStorage,
	key string,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
	opts ...CartOption,
) (*CartStore, error) {
	cartOperations, _ := meter.Int64Counter(
		"cart.operations",
		metric.WithDescription("Total number of cart operations"),
	)

	s := &CartStore{
		storage:        storage,
		key:            key,
		now:            time.Now,
		tracer:         tracer,
		logger:         logger,
		cartOperations: cartOperations,
	}
	for _, opt := range opts {
		opt(s)
	}

	ctx, span := tracer.Start(ctx, "CartStore.Load")
	defer span.End()
	span.SetAttributes(attribute.String("storage.key", key))

	raw, found, err := storage.Get(ctx, key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to read cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var items []domain.CartLineItem
	if found {
		if err := json.Unmarshal(raw, &items); err != nil {
			logger.WarnContext(ctx, "Stored cart is malformed, starting empty",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			items = nil
		}
	}
	s.cart = domain.NewCart(items)

	span.SetAttributes(attribute.Int("cart.lines", len(s.cart.Items)))
	span.SetStatus(codes.Ok, "Cart loaded")
	return s, nil
}

// OnChange registers a listener for cart mutations
func (s *CartStore) OnChange(l CartListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// AddItem merges item by (id, shade) or appends it, then persists.
func (s *CartStore) AddItem(ctx context.Context, item domain.CartLineItem) error {
	ctx, span := s.tracer.Start(ctx, "CartStore.AddItem")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.id", item.ID),
		attribute.String("product.shade", item.Shade),
		attribute.Int("cart.quantity", item.Quantity),
	)

	return s.apply(ctx, span, CartOpAdd, false, func(c *domain.Cart) (*domain.CartLineItem, bool, error) {
		line, err := c.Add(item, s.now())
		if err != nil {
			return nil, false, err
		}
		return &line, true, nil
	})
}

// RemoveItem drops the matching line; a missing line is not an error.
func (s *CartStore) RemoveItem(ctx context.Context, id, shade string) error {
	ctx, span := s.tracer.Start(ctx, "CartStore.RemoveItem")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.id", id),
		attribute.String("product.shade", shade),
	)

	return s.apply(ctx, span, CartOpRemove, false, func(c *domain.Cart) (*domain.CartLineItem, bool, error) {
		c.Remove(domain.LineKey{ID: id, Shade: shade})
		return nil, true, nil
	})
}

// UpdateQuantity sets the quantity of a line; quantity <= 0 removes it.
// Unknown lines are left alone and nothing is written.
func (s *CartStore) UpdateQuantity(ctx context.Context, id, shade string, quantity int) error {
	ctx, span := s.tracer.Start(ctx, "CartStore.UpdateQuantity")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.id", id),
		attribute.String("product.shade", shade),
		attribute.Int("cart.quantity", quantity),
	)

	op := CartOpUpdate
	if quantity <= 0 {
		op = CartOpRemove
	}
	key := domain.LineKey{ID: id, Shade: shade}

	return s.apply(ctx, span, op, false, func(c *domain.Cart) (*domain.CartLineItem, bool, error) {
		found, err := c.SetQuantity(key, quantity)
		if err != nil || !found {
			return nil, false, err
		}
		if line, ok := c.Find(key); ok {
			return &line, true, nil
		}
		return nil, true, nil
	})
}

// ClearCart empties the cart and persists the empty sequence.
func (s *CartStore) ClearCart(ctx context.Context) error {
	return s.clear(ctx, false)
}

// clear empties the cart. force lets the checkout that holds the cart clear it.
func (s *CartStore) clear(ctx context.Context, force bool) error {
	ctx, span := s.tracer.Start(ctx, "CartStore.ClearCart")
	defer span.End()

	return s.apply(ctx, span, CartOpClear, force, func(c *domain.Cart) (*domain.CartLineItem, bool, error) {
		c.Clear()
		return nil, true, nil
	})
}

// hold locks the lines against changes until release is called. Visibility can still
// be toggled.
func (s *CartStore) hold() (release func()) {
	s.mu.Lock()
	s.holds++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.holds--
			s.mu.Unlock()
		})
	}
}

// Toggle flips the sidebar visibility and returns the new state.
func (s *CartStore) Toggle(ctx context.Context) bool {
	s.mu.Lock()
	s.cart.Open = !s.cart.Open
	ev := s.eventLocked(CartOpToggle, nil)
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l(ctx, ev)
	}
	return ev.Open
}

// SetOpen forces the sidebar visibility.
func (s *CartStore) SetOpen(ctx context.Context, open bool) {
	s.mu.Lock()
	changed := s.cart.Open != open
	s.mu.Unlock()
	if changed {
		s.Toggle(ctx)
	}
}

// IsOpen reports the sidebar visibility.
func (s *CartStore) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Open
}

// Items returns a copy of the current lines in insertion order.
func (s *CartStore) Items() []domain.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

// ItemCount is the sum of quantities.
func (s *CartStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

// Subtotal is the sum of price x quantity.
func (s *CartStore) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Subtotal()
}

// cartChange edits the cart under the store lock. It returns the line the event
// carries and whether anything needs writing.
type cartChange func(c *domain.Cart) (line *domain.CartLineItem, write bool, err error)

// apply runs change and writes the result through. A rejected change or a failed write
// leaves the previous lines in place.
func (s *CartStore) apply(ctx context.Context, span trace.Span, op string, force bool, change cartChange) error {
	s.mu.Lock()
	if s.holds > 0 && !force {
		ev := s.eventLocked(op, nil)
		s.mu.Unlock()
		return s.finish(ctx, span, ev, domain.ErrCartLocked)
	}

	prev := s.cart.Snapshot()
	line, write, err := change(s.cart)
	if err == nil && !write {
		s.mu.Unlock()
		span.SetStatus(codes.Ok, "Nothing to update")
		return nil
	}
	if err == nil {
		err = s.persistLocked(ctx)
	}
	if err != nil {
		s.cart.Items = prev
	}
	ev := s.eventLocked(op, line)
	s.mu.Unlock()

	return s.finish(ctx, span, ev, err)
}

// persistLocked writes the full line sequence. Callers hold s.mu.
func (s *CartStore) persistLocked(ctx context.Context) error {
	items := s.cart.Items
	if items == nil {
		items = []domain.CartLineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

func (s *CartStore) eventLocked(op string, line *domain.CartLineItem) CartEvent {
	return CartEvent{
		Op:        op,
		Item:      line,
		ItemCount: s.cart.ItemCount(),
		Open:      s.cart.Open,
		Bounce:    op == CartOpAdd,
	}
}

// finish records the outcome. Listeners only hear about changes that were persisted.
func (s *CartStore) finish(ctx context.Context, span trace.Span, ev CartEvent, err error) error {
	result := "success"
	switch {
	case errors.Is(err, domain.ErrCartLocked), errors.Is(err, domain.ErrQuantityLimit):
		result = "rejected"
		span.SetStatus(codes.Error, "Cart change rejected")
		s.logger.InfoContext(ctx, "Cart change rejected",
			slog.String("operation", ev.Op),
			slog.String("error", err.Error()),
		)
	case err != nil:
		result = "failure"
		span.RecordError(err)
		span.SetStatus(codes.Error, "Cart persistence failed")
		s.logger.ErrorContext(ctx, "Failed to persist cart",
			slog.String("operation", ev.Op),
			slog.String("error", err.Error()),
		)
	default:
		span.SetStatus(codes.Ok, "Cart updated")
		s.logger.DebugContext(ctx, "Cart updated",
			slog.String("operation", ev.Op),
			slog.Int("item_count", ev.ItemCount),
		)
	}

	s.cartOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", ev.Op),
			attribute.String("result", result),
		),
	)
	if err != nil {
		return err
	}

	s.mu.Lock()
	listeners := s.listeners
	s.mu.Unlock()
	for _, l := range listeners {
		l(ctx, ev)
	}
	return nil
}
