package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/moka-storefront/internal/app/dto"
	"github.com/mrops-br/moka-storefront/internal/app/session"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/http/middleware"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/http/response"
)

// CartHandler binds the cart controls to the shopper's cart store
type CartHandler struct {
	logger *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(logger *slog.Logger) *CartHandler {
	return &CartHandler{logger: logger}
}

// CartResponse is the cart view plus any toast the action raised
type CartResponse struct {
	Cart         dto.CartView          `json:"cart"`
	Notification *session.Notification `json:"notification,omitempty"`
}

func cartView(sess *session.Session) dto.CartView {
	return dto.NewCartView(sess.Cart.Items(), sess.Cart.IsOpen(), sess.Bouncing())
}

func (h *CartHandler) respond(w http.ResponseWriter, status int, sess *session.Session) {
	response.JSON(w, status, CartResponse{
		Cart:         cartView(sess),
		Notification: currentNotification(sess),
	})
}

func lineParams(r *http.Request) (id, shade string) {
	id = chi.URLParam(r, "id")
	shade = chi.URLParam(r, "shade")
	if s, err := url.PathUnescape(shade); err == nil {
		shade = s
	}
	return id, shade
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, middleware.SessionFromContext(r.Context()))
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	var req dto.AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode add to cart request",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	if _, err := sess.AddProduct(r.Context(), req.ProductID, req.Shade, req.Quantity); err != nil {
		h.logger.InfoContext(r.Context(), "Add to cart rejected",
			slog.String("product_id", req.ProductID),
			slog.String("error", err.Error()),
		)
		h.respond(w, response.StatusFor(err), sess)
		return
	}

	h.respond(w, http.StatusCreated, sess)
}

// UpdateItem handles PUT /api/cart/items/{id}/{shade}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	id, shade := lineParams(r)

	var req dto.UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	if err := sess.Cart.UpdateQuantity(r.Context(), id, shade, req.Quantity); err != nil {
		response.FromError(w, err)
		return
	}
	h.respond(w, http.StatusOK, sess)
}

// RemoveItem handles DELETE /api/cart/items/{id}/{shade}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	id, shade := lineParams(r)

	if err := sess.Cart.RemoveItem(r.Context(), id, shade); err != nil {
		response.FromError(w, err)
		return
	}
	h.respond(w, http.StatusOK, sess)
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	if err := sess.Cart.ClearCart(r.Context()); err != nil {
		response.FromError(w, err)
		return
	}
	h.respond(w, http.StatusOK, sess)
}

// Toggle handles POST /api/cart/toggle
func (h *CartHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	sess.Cart.Toggle(r.Context())
	h.respond(w, http.StatusOK, sess)
}
