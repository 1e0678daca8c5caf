package response

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mrops-br/moka-storefront/internal/app/session"
	"github.com/mrops-br/moka-storefront/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// HTML renders a fragment into a buffer first so template failures become a 500
func HTML(w http.ResponseWriter, status int, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		Error(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// StatusClientClosedRequest is logged when the client disconnects mid-request
const StatusClientClosedRequest = 499

// StatusFor maps domain errors to HTTP status codes
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCheckoutForm),
		errors.Is(err, domain.ErrInvalidProductName),
		errors.Is(err, domain.ErrInvalidProductPrice),
		errors.Is(err, domain.ErrInvalidProductRating),
		errors.Is(err, domain.ErrUnknownShade),
		errors.Is(err, domain.ErrQuantityLimit),
		errors.Is(err, session.ErrInvalidEmail):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrProductOutOfStock),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrProductExists),
		errors.Is(err, session.ErrOrderInProgress),
		errors.Is(err, domain.ErrCartLocked):
		return http.StatusConflict
	case errors.Is(err, session.ErrUnknownModal):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, err error) {
	errorType := "error"
	switch status {
	case http.StatusNotFound:
		errorType = "not_found"
	case http.StatusBadRequest:
		errorType = "bad_request"
	case http.StatusConflict:
		errorType = "conflict"
	case http.StatusUnprocessableEntity:
		errorType = "validation_failed"
	case http.StatusInternalServerError:
		errorType = "internal_server_error"
	}

	JSON(w, status, ErrorResponse{
		Error:   errorType,
		Message: err.Error(),
	})
}

// FromError sends err with the status StatusFor picks
func FromError(w http.ResponseWriter, err error) {
	Error(w, StatusFor(err), err)
}
