package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mrops-br/moka-storefront/internal/app/dto"
	"github.com/mrops-br/moka-storefront/internal/app/session"
	"github.com/mrops-br/moka-storefront/internal/domain"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/http/middleware"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/http/response"
)

// CheckoutHandler binds the checkout modal to the simulated order flow
type CheckoutHandler struct {
	logger *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{logger: logger}
}

// CheckoutResponse is the checkout view plus any toast the action raised
type CheckoutResponse struct {
	Checkout     dto.CheckoutView      `json:"checkout"`
	Open         bool                  `json:"open"`
	Notification *session.Notification `json:"notification,omitempty"`
}

func checkoutView(sess *session.Session) dto.CheckoutView {
	order, _ := sess.LastOrder()
	return dto.NewCheckoutView(sess.CheckoutSummary(), sess.Processing(), order)
}

func (h *CheckoutHandler) respond(w http.ResponseWriter, status int, sess *session.Session) {
	response.JSON(w, status, CheckoutResponse{
		Checkout:     checkoutView(sess),
		Open:         sess.Modals.IsOpen(session.ModalCheckout),
		Notification: currentNotification(sess),
	})
}

// GetCheckout handles GET /api/checkout
func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, middleware.SessionFromContext(r.Context()))
}

// BeginCheckout handles POST /api/checkout
func (h *CheckoutHandler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	if err := sess.BeginCheckout(); err != nil {
		h.respond(w, response.StatusFor(err), sess)
		return
	}
	h.respond(w, http.StatusOK, sess)
}

// PlaceOrder handles POST /api/checkout/orders
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	var form domain.CheckoutForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	order, err := sess.PlaceOrder(r.Context(), form)
	if err != nil {
		status := response.StatusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "Order failed",
				slog.String("error", err.Error()),
			)
		}
		if errors.Is(err, domain.ErrInvalidCheckoutForm) || errors.Is(err, domain.ErrEmptyCart) {
			h.respond(w, status, sess)
			return
		}
		response.Error(w, status, err)
		return
	}

	response.JSON(w, http.StatusCreated, dto.OrderResponse{
		Order:    dto.NewOrderView(order),
		Checkout: checkoutView(sess),
		Cart:     cartView(sess),
	})
}

// FormatForm handles POST /api/checkout/format, applying the input formatters
func (h *CheckoutHandler) FormatForm(w http.ResponseWriter, r *http.Request) {
	var form domain.CheckoutForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	response.JSON(w, http.StatusOK, form.Normalize())
}
