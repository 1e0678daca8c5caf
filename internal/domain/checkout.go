package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidCheckoutForm = errors.New("please fill in all required fields correctly")
)

var (
	TaxRate               = decimal.RequireFromString("0.08")
	FreeShippingThreshold = decimal.NewFromInt(100)
	FlatShipping          = decimal.NewFromInt(15)
)

// OrderNumberPrefix starts every simulated order number.
const OrderNumberPrefix = "MKA"

// CheckoutLine is one row of the order summary.
type CheckoutLine struct {
	ID       string
	Name     string
	Shade    string
	Quantity int
	Total    decimal.Decimal
}

// CheckoutSummary holds the order totals shown before placing an order.
type CheckoutSummary struct {
	Lines    []CheckoutLine
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// FreeShipping reports whether the summary ships for free.
func (s CheckoutSummary) FreeShipping() bool {
	return s.Shipping.IsZero()
}

// SummarizeCart prices the cart: 8% tax, free shipping strictly above 100, else a flat fee.
func SummarizeCart(items []CartLineItem) CheckoutSummary {
	lines := make([]CheckoutLine, 0, len(items))
	subtotal := decimal.Zero
	for _, it := range items {
		total := it.LineTotal()
		subtotal = subtotal.Add(total)
		lines = append(lines, CheckoutLine{
			ID:       it.ID,
			Name:     it.Name,
			Shade:    it.Shade,
			Quantity: it.Quantity,
			Total:    total,
		})
	}

	tax := subtotal.Mul(TaxRate)
	shipping := FlatShipping
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	return CheckoutSummary{
		Lines:    lines,
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}

// OrderNumber is the prefix followed by the last six digits of the epoch milliseconds.
func OrderNumber(now time.Time) string {
	ms := fmt.Sprintf("%d", now.UnixMilli())
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return OrderNumberPrefix + ms
}

// Order is the outcome of a simulated checkout.
type Order struct {
	Number   string
	Email    string
	Summary  CheckoutSummary
	PlacedAt time.Time
}

// CheckoutForm is the customer information collected by the checkout modal.
type CheckoutForm struct {
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	ZipCode    string `json:"zipCode"`
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

var nonDigits = regexp.MustCompile(`\D`)

// FormatCardNumber keeps digits and groups them by four.
func FormatCardNumber(v string) string {
	digits := nonDigits.ReplaceAllString(v, "")
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry keeps digits and inserts a slash after the month.
func FormatExpiry(v string) string {
	digits := nonDigits.ReplaceAllString(v, "")
	if len(digits) >= 2 {
		end := min(len(digits), 4)
		return digits[:2] + "/" + digits[2:end]
	}
	return digits
}

// FormatCVV keeps at most three digits.
func FormatCVV(v string) string {
	digits := nonDigits.ReplaceAllString(v, "")
	if len(digits) > 3 {
		digits = digits[:3]
	}
	return digits
}

// Normalize applies the input formatters to the payment fields.
func (f CheckoutForm) Normalize() CheckoutForm {
	f.CardNumber = FormatCardNumber(f.CardNumber)
	f.ExpiryDate = FormatExpiry(f.ExpiryDate)
	f.CVV = FormatCVV(f.CVV)
	return f
}

// Validate checks that every field is present and the email parses.
// Field problems are joined under ErrInvalidCheckoutForm.
func (f CheckoutForm) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"email", f.Email},
		{"firstName", f.FirstName},
		{"lastName", f.LastName},
		{"address", f.Address},
		{"city", f.City},
		{"zipCode", f.ZipCode},
		{"cardNumber", f.CardNumber},
		{"expiryDate", f.ExpiryDate},
		{"cvv", f.CVV},
	}

	var problems []error
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			problems = append(problems, fmt.Errorf("%s is required", field.name))
		}
	}
	if strings.TrimSpace(f.Email) != "" {
		if _, err := mail.ParseAddress(f.Email); err != nil {
			problems = append(problems, fmt.Errorf("email is invalid: %w", err))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidCheckoutForm}, problems...)...)
}
