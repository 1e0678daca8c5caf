package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/moka-storefront/internal/app/dto"
	"github.com/mrops-br/moka-storefront/internal/app/service"
	"github.com/mrops-br/moka-storefront/internal/app/session"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/http/middleware"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/http/response"
)

// ShopHandler serves the listing controls, product lookups and the wishlist
type ShopHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

// NewShopHandler creates a new shop handler
func NewShopHandler(catalog *service.CatalogService, logger *slog.Logger) *ShopHandler {
	return &ShopHandler{catalog: catalog, logger: logger}
}

// ProductDetailResponse is a single product with its card fields
type ProductDetailResponse struct {
	Product dto.ProductCard `json:"product"`
}

// SearchResponse is the search overlay result list
type SearchResponse struct {
	Query   string            `json:"query"`
	Results []dto.ProductCard `json:"results"`
}

// WishlistResponse reports the wishlist state of one product
type WishlistResponse struct {
	ProductID    string                `json:"product_id"`
	InWishlist   bool                  `json:"in_wishlist"`
	Notification *session.Notification `json:"notification,omitempty"`
}

// NotificationResponse carries the toast raised by an action
type NotificationResponse struct {
	Notification *session.Notification `json:"notification,omitempty"`
}

func shopView(sess *session.Session, v service.BrowseView) dto.ShopView {
	return dto.NewShopView(v.Filters, v.Page, sess.InWishlist)
}

func currentNotification(sess *session.Session) *session.Notification {
	if n, ok := sess.Notifications.Current(); ok {
		return &n
	}
	return nil
}

// GetShop handles GET /api/shop
func (h *ShopHandler) GetShop(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	response.JSON(w, http.StatusOK, shopView(sess, sess.Browser.View()))
}

// SetFilters handles POST /api/shop/filters
func (h *ShopHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	var update service.FilterUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode filter update",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	response.JSON(w, http.StatusOK, shopView(sess, sess.Browser.SetFilters(update)))
}

// ClearFilters handles POST /api/shop/filters/clear
func (h *ShopHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	response.JSON(w, http.StatusOK, shopView(sess, sess.Browser.ClearFilters()))
}

// GoToPage handles POST /api/shop/page/{page}
func (h *ShopHandler) GoToPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 1 {
		response.Error(w, http.StatusBadRequest, errors.New("page must be a positive integer"))
		return
	}

	response.JSON(w, http.StatusOK, shopView(sess, sess.Browser.GoToPage(page)))
}

// Featured handles GET /api/featured
func (h *ShopHandler) Featured(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	response.JSON(w, http.StatusOK, dto.NewProductCards(sess.Browser.Featured(), sess.InWishlist))
}

// Search handles GET /api/search?q=
func (h *ShopHandler) Search(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	query := r.URL.Query().Get("q")

	response.JSON(w, http.StatusOK, SearchResponse{
		Query:   query,
		Results: dto.NewProductCards(sess.Browser.Search(query), sess.InWishlist),
	})
}

// GetProduct handles GET /api/products/{id}
func (h *ShopHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	product, err := h.catalog.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, ProductDetailResponse{
		Product: dto.NewProductCard(*product, sess.InWishlist(product.ID)),
	})
}

// ToggleWishlist handles POST /api/wishlist/{id}
func (h *ShopHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")

	listed := sess.ToggleWishlist(id)
	response.JSON(w, http.StatusOK, WishlistResponse{
		ProductID:    id,
		InWishlist:   listed,
		Notification: currentNotification(sess),
	})
}

// Subscribe handles POST /api/newsletter
func (h *ShopHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	var req dto.NewsletterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	if err := sess.SubscribeNewsletter(req.Email); err != nil {
		response.JSON(w, response.StatusFor(err), NotificationResponse{Notification: currentNotification(sess)})
		return
	}
	response.JSON(w, http.StatusOK, NotificationResponse{Notification: currentNotification(sess)})
}
