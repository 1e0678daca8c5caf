package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrops-br/moka-storefront/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CheckoutOption customizes a CheckoutService
type CheckoutOption func(*CheckoutService)

// WithCheckoutClock overrides the clock used for order numbers
func WithCheckoutClock(now func() time.Time) CheckoutOption {
	return func(s *CheckoutService) { s.now = now }
}

// CheckoutService simulates order placement against a shopper's cart.
type CheckoutService struct {
	delay time.Duration
	now   func() time.Time

	tracer         trace.Tracer
	logger         *slog.Logger
	checkoutOrders metric.Int64Counter
}

// NewCheckoutService creates a checkout that holds each order for delay before confirming it.
func NewCheckoutService(
	delay time.Duration,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
	opts ...CheckoutOption,
) *CheckoutService {
	checkoutOrders, _ := meter.Int64Counter(
		"checkout.orders",
		metric.WithDescription("Total number of simulated orders"),
	)

	s := &CheckoutService{
		delay:          delay,
		now:            time.Now,
		tracer:         tracer,
		logger:         logger,
		checkoutOrders: checkoutOrders,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary prices the cart's current lines.
func (s *CheckoutService) Summary(cart *CartStore) domain.CheckoutSummary {
	return domain.SummarizeCart(cart.Items())
}

// PlaceOrder validates form, waits out the processing delay, then clears the cart and
// closes the sidebar. The cart's lines are locked from the summary until the order
// completes, so the order covers exactly what gets cleared. If ctx ends during the
// delay the order is abandoned and the cart is left as it was.
func (s *CheckoutService) PlaceOrder(ctx context.Context, cart *CartStore, form domain.CheckoutForm) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.PlaceOrder")
	defer span.End()

	form = form.Normalize()
	if err := form.Validate(); err != nil {
		span.SetStatus(codes.Error, "Invalid checkout form")
		s.logger.InfoContext(ctx, "Checkout form rejected",
			slog.String("error", err.Error()),
		)
		s.record(ctx, "invalid")
		return nil, err
	}

	release := cart.hold()
	defer release()

	summary := s.Summary(cart)
	if len(summary.Lines) == 0 {
		span.SetStatus(codes.Error, "Cart is empty")
		s.record(ctx, "empty")
		return nil, domain.ErrEmptyCart
	}
	span.SetAttributes(
		attribute.Int("order.lines", len(summary.Lines)),
		attribute.String("order.total", summary.Total.StringFixed(2)),
	)

	s.logger.InfoContext(ctx, "Processing order",
		slog.Duration("delay", s.delay),
	)
	if err := s.wait(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Order abandoned")
		s.logger.WarnContext(ctx, "Order abandoned during processing",
			slog.String("error", err.Error()),
		)
		s.record(ctx, "abandoned")
		return nil, err
	}

	if err := cart.clear(ctx, true); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to clear cart")
		s.record(ctx, "failure")
		return nil, fmt.Errorf("failed to complete order: %w", err)
	}
	cart.SetOpen(ctx, false)

	placedAt := s.now()
	order := &domain.Order{
		Number:   domain.OrderNumber(placedAt),
		Email:    form.Email,
		Summary:  summary,
		PlacedAt: placedAt,
	}

	s.record(ctx, "success")
	s.logger.InfoContext(ctx, "Order placed successfully",
		slog.String("order_number", order.Number),
		slog.String("total", summary.Total.StringFixed(2)),
	)
	span.SetAttributes(attribute.String("order.number", order.Number))
	span.SetStatus(codes.Ok, "Order placed")
	return order, nil
}

func (s *CheckoutService) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *CheckoutService) record(ctx context.Context, result string) {
	s.checkoutOrders.Add(ctx, 1,
		metric.WithAttributes(attribute.String("result", result)),
	)
}
