// Package session holds the per-shopper storefront state: cart, listing filters,
// open dialogs, the visible toast and the wishlist.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/mrops-br/moka-storefront/internal/app/service"
	"github.com/mrops-br/moka-storefront/internal/domain"
)

// BounceDuration is how long the cart icon animates after an add.
const BounceDuration = 600 * time.Millisecond

// User-facing messages
const (
	MsgEmptyCart        = "Your cart is empty!"
	MsgInvalidForm      = "Please fill in all required fields correctly."
	MsgOrderPlaced      = "Order placed successfully!"
	MsgOrderFailed      = "We could not place your order. Please try again."
	MsgCartUnavailable  = "We could not update your cart. Please try again."
	MsgOutOfStock       = "Sorry, this product is out of stock."
	MsgOrderProcessing  = "Please wait while your order is processing."
	MsgQuantityLimit    = "That quantity is more than your cart can hold."
	MsgWishlistAdded    = "Added to wishlist"
	MsgWishlistRemoved  = "Removed from wishlist"
	MsgNewsletterThanks = "Thank you for subscribing to our newsletter!"
	MsgNewsletterEmail  = "Please enter a valid email address."
)

// ErrInvalidEmail marks a rejected newsletter address.
var ErrInvalidEmail = errors.New("invalid email address")

// Session is one shopper's storefront state.
type Session struct {
	ID            string
	Cart          *service.CartStore
	Browser       *service.Browser
	Modals        *Modals
	Notifications *Notifications

	catalog  *service.CatalogService
	checkout *service.CheckoutService
	now      func() time.Time

	mu          sync.Mutex
	wishlist    map[string]bool
	bounceUntil time.Time
	processing  bool
	lastOrder   *domain.Order
	lastSeen    time.Time
}

func newSession(
	id string,
	cart *service.CartStore,
	catalog *service.CatalogService,
	checkout *service.CheckoutService,
	now func() time.Time,
) *Session {
	s := &Session{
		ID:            id,
		Cart:          cart,
		Browser:       service.NewBrowser(catalog),
		Modals:        newModals(now),
		Notifications: newNotifications(now),
		catalog:       catalog,
		checkout:      checkout,
		now:           now,
		wishlist:      map[string]bool{},
		lastSeen:      now(),
	}
	cart.OnChange(s.onCartChange)
	return s
}

func (s *Session) onCartChange(_ context.Context, ev service.CartEvent) {
	if !ev.Bounce {
		return
	}
	s.mu.Lock()
	s.bounceUntil = s.now().Add(BounceDuration)
	s.mu.Unlock()
}

// AddProduct adds quantity units of productID in shade. An empty shade selects the
// product's first shade. On success the quick view closes and a toast confirms the add.
func (s *Session) AddProduct(ctx context.Context, productID, shade string, quantity int) (domain.CartLineItem, error) {
	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return domain.CartLineItem{}, err
	}
	if !product.InStock {
		s.Notifications.Show(MsgOutOfStock, LevelWarning)
		return domain.CartLineItem{}, domain.ErrProductOutOfStock
	}
	if shade == "" {
		shade = product.FirstShade()
	}
	if !product.HasShade(shade) {
		return domain.CartLineItem{}, fmt.Errorf("%w: %q", domain.ErrUnknownShade, shade)
	}

	item := domain.LineItemFromProduct(product, shade, quantity)
	if err := s.Cart.AddItem(ctx, item); err != nil {
		switch {
		case errors.Is(err, domain.ErrCartLocked):
			s.Notifications.Show(MsgOrderProcessing, LevelWarning)
		case errors.Is(err, domain.ErrQuantityLimit):
			s.Notifications.Show(MsgQuantityLimit, LevelWarning)
		default:
			s.Notifications.Show(MsgCartUnavailable, LevelError)
		}
		return domain.CartLineItem{}, err
	}

	s.Notifications.Show(product.Name+" added to cart!", LevelSuccess)
	s.Modals.Close(ModalQuickView)

	line, _ := s.findLine(item.Key())
	return line, nil
}

func (s *Session) findLine(key domain.LineKey) (domain.CartLineItem, bool) {
	for _, it := range s.Cart.Items() {
		if it.Key() == key {
			return it, true
		}
	}
	return domain.CartLineItem{}, false
}

// OpenQuickView shows the quick view dialog for a product.
func (s *Session) OpenQuickView(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	s.Modals.Open(ModalQuickView, product.ID)
	return product, nil
}

// BeginCheckout opens the checkout dialog. An empty cart only raises a warning toast.
func (s *Session) BeginCheckout() error {
	if s.Cart.ItemCount() == 0 {
		s.Notifications.Show(MsgEmptyCart, LevelWarning)
		return domain.ErrEmptyCart
	}

	s.mu.Lock()
	s.lastOrder = nil
	s.mu.Unlock()

	s.Modals.Open(ModalCheckout, "")
	return nil
}

// PlaceOrder submits the checkout form. Validation failures raise an error toast and
// leave everything as it was.
func (s *Session) PlaceOrder(ctx context.Context, form domain.CheckoutForm) (*domain.Order, error) {
	s.mu.Lock()
	if s.processing {
		s.mu.Unlock()
		return nil, ErrOrderInProgress
	}
	s.processing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.processing = false
		s.mu.Unlock()
	}()

	order, err := s.checkout.PlaceOrder(ctx, s.Cart, form)
	switch {
	case errors.Is(err, domain.ErrInvalidCheckoutForm):
		s.Notifications.Show(MsgInvalidForm, LevelError)
		return nil, err
	case errors.Is(err, domain.ErrEmptyCart):
		s.Notifications.Show(MsgEmptyCart, LevelWarning)
		return nil, err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	case err != nil:
		s.Notifications.Show(MsgOrderFailed, LevelError)
		return nil, err
	}

	s.mu.Lock()
	s.lastOrder = order
	s.mu.Unlock()

	s.Notifications.Show(MsgOrderPlaced, LevelSuccess)
	return order, nil
}

// ErrOrderInProgress rejects a second submission while one is processing.
var ErrOrderInProgress = errors.New("an order is already being processed")

// Processing reports whether an order is waiting out its processing delay.
func (s *Session) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// LastOrder returns the confirmation of the last order placed since checkout opened.
func (s *Session) LastOrder() (*domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOrder, s.lastOrder != nil
}

// CheckoutSummary prices the cart.
func (s *Session) CheckoutSummary() domain.CheckoutSummary {
	return s.checkout.Summary(s.Cart)
}

// Bouncing reports whether the cart icon animation is still running.
func (s *Session) Bouncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Before(s.bounceUntil)
}

// ToggleWishlist flips productID in the wishlist and returns whether it is now listed.
func (s *Session) ToggleWishlist(productID string) bool {
	s.mu.Lock()
	listed := !s.wishlist[productID]
	if listed {
		s.wishlist[productID] = true
	} else {
		delete(s.wishlist, productID)
	}
	s.mu.Unlock()

	if listed {
		s.Notifications.Show(MsgWishlistAdded, LevelSuccess)
	} else {
		s.Notifications.Show(MsgWishlistRemoved, LevelInfo)
	}
	return listed
}

// InWishlist reports whether productID is listed.
func (s *Session) InWishlist(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlist[productID]
}

// SubscribeNewsletter acknowledges a newsletter signup. Nothing is stored.
func (s *Session) SubscribeNewsletter(email string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		s.Notifications.Show(MsgNewsletterEmail, LevelError)
		return fmt.Errorf("%w: %w", ErrInvalidEmail, err)
	}
	s.Notifications.Show(MsgNewsletterThanks, LevelSuccess)
	return nil
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}

func (s *Session) idleSince(t time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(t) && !s.processing
}
