package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeCart(t *testing.T) {
	t.Run("single lipstick pays tax and flat shipping", func(t *testing.T) {
		s := SummarizeCart([]CartLineItem{lipstick(1)})

		assert.Equal(t, "85.00", s.Subtotal.StringFixed(2))
		assert.Equal(t, "6.80", s.Tax.StringFixed(2))
		assert.Equal(t, "15.00", s.Shipping.StringFixed(2))
		assert.Equal(t, "106.80", s.Total.StringFixed(2))
		assert.False(t, s.FreeShipping())
	})

	t.Run("subtotal of exactly 100 still pays shipping", func(t *testing.T) {
		item := CartLineItem{ID: "x", Shade: DefaultShade, Price: decimal.NewFromInt(50), Quantity: 2}
		s := SummarizeCart([]CartLineItem{item})
		assert.Equal(t, "15.00", s.Shipping.StringFixed(2))
	})

	t.Run("above 100 ships free", func(t *testing.T) {
		s := SummarizeCart([]CartLineItem{lipstick(2)})
		assert.True(t, s.FreeShipping())
		assert.Equal(t, "183.60", s.Total.StringFixed(2))
		require.Len(t, s.Lines, 1)
		assert.Equal(t, "170.00", s.Lines[0].Total.StringFixed(2))
	})
}

func TestOrderNumber(t *testing.T) {
	now := time.UnixMilli(1718000123456)
	assert.Equal(t, "MKA123456", OrderNumber(now))
}

func validForm() CheckoutForm {
	return CheckoutForm{
		Email:      "ana@example.com",
		FirstName:  "Ana",
		LastName:   "Moka",
		Address:    "1 Rue de la Paix",
		City:       "Paris",
		ZipCode:    "75002",
		CardNumber: "4242 4242 4242 4242",
		ExpiryDate: "12/30",
		CVV:        "123",
	}
}

func TestCheckoutFormValidate(t *testing.T) {
	assert.NoError(t, validForm().Validate())

	t.Run("missing field", func(t *testing.T) {
		f := validForm()
		f.City = "  "
		err := f.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidCheckoutForm))
		assert.Contains(t, err.Error(), "city is required")
	})

	t.Run("bad email", func(t *testing.T) {
		f := validForm()
		f.Email = "not-an-email"
		assert.ErrorIs(t, f.Validate(), ErrInvalidCheckoutForm)
	})
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "4242 4242 4242 42", FormatCardNumber("4242-4242 424242"))
	assert.Equal(t, "12/3", FormatExpiry("123"))
	assert.Equal(t, "12/30", FormatExpiry("12/3099"))
	assert.Equal(t, "1", FormatExpiry("1"))
	assert.Equal(t, "123", FormatCVV("1a2b34"))

	f := CheckoutForm{CardNumber: "4242424242424242", ExpiryDate: "1230", CVV: "9999"}.Normalize()
	assert.Equal(t, "4242 4242 4242 4242", f.CardNumber)
	assert.Equal(t, "12/30", f.ExpiryDate)
	assert.Equal(t, "999", f.CVV)
}
