package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/moka-storefront/internal/app/dto"
	"github.com/mrops-br/moka-storefront/internal/app/service"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/http/response"
)

// ProductHandler serves the product collection the catalog loader reads
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// CreateProduct handles POST /tables/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, product)
}

// GetProduct handles GET /tables/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// ListProducts handles GET /tables/products?page=&limit=&search=&sort=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r.URL.Query())
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	products, err := h.service.ListProducts(r.Context(), query)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

func parseListQuery(values url.Values) (dto.ListProductsQuery, error) {
	q := dto.ListProductsQuery{
		Search: strings.TrimSpace(values.Get("search")),
		Sort:   values.Get("sort"),
	}

	var err error
	if q.Page, err = optionalInt(values, "page"); err != nil {
		return q, err
	}
	if q.Limit, err = optionalInt(values, "limit"); err != nil {
		return q, err
	}
	if q.Page < 0 || q.Limit < 0 {
		return q, errors.New("page and limit must not be negative")
	}
	return q, nil
}

func optionalInt(values url.Values, key string) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}
