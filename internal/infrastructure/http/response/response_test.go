package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mrops-br/moka-storefront/internal/app/session"
	"github.com/mrops-br/moka-storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", domain.ErrProductNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", domain.ErrProductNotFound), http.StatusNotFound},
		{"unknown modal", session.ErrUnknownModal, http.StatusNotFound},
		{"invalid form", errors.Join(domain.ErrInvalidCheckoutForm, errors.New("email is required")), http.StatusUnprocessableEntity},
		{"unknown shade", domain.ErrUnknownShade, http.StatusUnprocessableEntity},
		{"quantity limit", domain.ErrQuantityLimit, http.StatusUnprocessableEntity},
		{"invalid email", session.ErrInvalidEmail, http.StatusUnprocessableEntity},
		{"out of stock", domain.ErrProductOutOfStock, http.StatusConflict},
		{"empty cart", domain.ErrEmptyCart, http.StatusConflict},
		{"duplicate product", domain.ErrProductExists, http.StatusConflict},
		{"order in progress", session.ErrOrderInProgress, http.StatusConflict},
		{"cart locked", domain.ErrCartLocked, http.StatusConflict},
		{"client gone", context.Canceled, StatusClientClosedRequest},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"anything else", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestFromError(t *testing.T) {
	rec := httptest.NewRecorder()

	FromError(rec, domain.ErrEmptyCart)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "conflict", body.Error)
	assert.Equal(t, domain.ErrEmptyCart.Error(), body.Message)
}

func TestHTML(t *testing.T) {
	t.Run("writes rendered fragment", func(t *testing.T) {
		rec := httptest.NewRecorder()

		HTML(rec, http.StatusOK, func(w io.Writer) error {
			_, err := io.WriteString(w, "<p>hi</p>")
			return err
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "<p>hi</p>", rec.Body.String())
	})

	t.Run("render failure discards partial output", func(t *testing.T) {
		rec := httptest.NewRecorder()

		HTML(rec, http.StatusOK, func(w io.Writer) error {
			_, _ = io.WriteString(w, "<p>half")
			return errors.New("template exploded")
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "<p>half")
	})
}
