package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/moka-storefront/internal/app/dto"
	"github.com/mrops-br/moka-storefront/internal/app/service"
	"github.com/mrops-br/moka-storefront/internal/app/session"
	"github.com/mrops-br/moka-storefront/internal/domain"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/http/middleware"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/http/response"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/render"
)

// UIHandler serves the modal and toast state and the HTML fragments
type UIHandler struct {
	catalog  *service.CatalogService
	renderer *render.Renderer
	logger   *slog.Logger
}

// NewUIHandler creates a new UI handler
func NewUIHandler(catalog *service.CatalogService, renderer *render.Renderer, logger *slog.Logger) *UIHandler {
	return &UIHandler{catalog: catalog, renderer: renderer, logger: logger}
}

// OpenModalRequest optionally names the product a quick view shows
type OpenModalRequest struct {
	ProductID string `json:"product_id"`
}

// ModalsResponse lists the mounted dialogs
type ModalsResponse struct {
	Modals       []session.Modal       `json:"modals"`
	Notification *session.Notification `json:"notification,omitempty"`
}

func (h *UIHandler) modals(w http.ResponseWriter, status int, sess *session.Session) {
	response.JSON(w, status, ModalsResponse{
		Modals:       sess.Modals.Mounted(),
		Notification: currentNotification(sess),
	})
}

// Bindings handles GET /api/bindings
func (h *UIHandler) Bindings(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.renderer.Bindings())
}

// ListModals handles GET /api/modals
func (h *UIHandler) ListModals(w http.ResponseWriter, r *http.Request) {
	h.modals(w, http.StatusOK, middleware.SessionFromContext(r.Context()))
}

// OpenModal handles POST /api/modals/{kind}
func (h *UIHandler) OpenModal(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	kind, err := session.ParseModalKind(chi.URLParam(r, "kind"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	var req OpenModalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	switch kind {
	case session.ModalQuickView:
		if _, err := sess.OpenQuickView(r.Context(), req.ProductID); err != nil {
			response.FromError(w, err)
			return
		}
	case session.ModalCheckout:
		if err := sess.BeginCheckout(); err != nil {
			h.modals(w, response.StatusFor(err), sess)
			return
		}
	case session.ModalSearch:
		sess.Modals.Open(session.ModalSearch, "")
	}

	h.modals(w, http.StatusOK, sess)
}

// CloseModal handles DELETE /api/modals/{kind}
func (h *UIHandler) CloseModal(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	kind, err := session.ParseModalKind(chi.URLParam(r, "kind"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	sess.Modals.Close(kind)
	h.modals(w, http.StatusOK, sess)
}

// GetNotification handles GET /api/notifications
func (h *UIHandler) GetNotification(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	response.JSON(w, http.StatusOK, NotificationResponse{Notification: currentNotification(sess)})
}

// DismissNotification handles DELETE /api/notifications
func (h *UIHandler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	sess.Notifications.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}

// ProductsFragment handles GET /fragments/products
func (h *UIHandler) ProductsFragment(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	view := shopView(sess, sess.Browser.View())

	response.HTML(w, http.StatusOK, func(out io.Writer) error {
		return h.renderer.Shop(out, view)
	})
}

// FeaturedFragment handles GET /fragments/featured
func (h *UIHandler) FeaturedFragment(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	cards := dto.NewProductCards(sess.Browser.Featured(), sess.InWishlist)

	response.HTML(w, http.StatusOK, func(out io.Writer) error {
		return h.renderer.Featured(out, cards)
	})
}

// CartFragment handles GET /fragments/cart
func (h *UIHandler) CartFragment(w http.ResponseWriter, r *http.Request) {
	view := cartView(middleware.SessionFromContext(r.Context()))

	response.HTML(w, http.StatusOK, func(out io.Writer) error {
		return h.renderer.Cart(out, view)
	})
}

// CheckoutFragment handles GET /fragments/checkout. Nothing is rendered while the
// checkout modal is not mounted.
func (h *UIHandler) CheckoutFragment(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	modal, ok := sess.Modals.Get(session.ModalCheckout)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	view := checkoutView(sess)

	response.HTML(w, http.StatusOK, func(out io.Writer) error {
		return h.renderer.Checkout(out, view, modal.Closing)
	})
}

// QuickViewFragment handles GET /fragments/quick-view
func (h *UIHandler) QuickViewFragment(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	modal, ok := sess.Modals.Get(session.ModalQuickView)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	product, err := h.catalog.Product(r.Context(), modal.ProductID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	card := dto.NewProductCard(*product, sess.InWishlist(product.ID))

	response.HTML(w, http.StatusOK, func(out io.Writer) error {
		return h.renderer.QuickView(out, card, modal.Closing)
	})
}

// SearchFragment handles GET /fragments/search?q=
func (h *UIHandler) SearchFragment(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	query := r.URL.Query().Get("q")

	closing := false
	if modal, ok := sess.Modals.Get(session.ModalSearch); ok {
		closing = modal.Closing
	}
	view := render.SearchView{
		Query:   query,
		Active:  len([]rune(query)) >= domain.SearchMinLength,
		Results: dto.NewProductCards(sess.Browser.Search(query), sess.InWishlist),
	}

	response.HTML(w, http.StatusOK, func(out io.Writer) error {
		return h.renderer.Search(out, view, closing)
	})
}

// NotificationFragment handles GET /fragments/notification
func (h *UIHandler) NotificationFragment(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	var toast *render.Toast
	if n := currentNotification(sess); n != nil {
		toast = &render.Toast{Message: n.Message, Level: string(n.Level)}
	}

	response.HTML(w, http.StatusOK, func(out io.Writer) error {
		return h.renderer.Notification(out, toast)
	})
}

// ProductDetailFragment handles GET /fragments/products/{id}
func (h *UIHandler) ProductDetailFragment(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	product, err := h.catalog.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status := response.StatusFor(err)
		response.HTML(w, status, func(out io.Writer) error {
			return h.renderer.ProductDetail(out, nil)
		})
		return
	}
	card := dto.NewProductCard(*product, sess.InWishlist(product.ID))

	response.HTML(w, http.StatusOK, func(out io.Writer) error {
		return h.renderer.ProductDetail(out, &card)
	})
}
