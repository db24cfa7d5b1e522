package types

import (
	"github.com/shopspring/decimal"

	ierr "github.com/courseforge/monetize/internal/errors"
)

// Money is a fixed-point currency amount paired with its currency code.
// Amounts are never negative; discount magnitudes are stored positive and
// subtracted at the point of use.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney creates a Money value with a normalized currency code
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{
		Amount:   amount,
		Currency: NormalizeCurrency(currency),
	}
}

// ZeroMoney returns a zero amount in the given currency
func ZeroMoney(currency string) Money {
	return NewMoney(decimal.Zero, currency)
}

// Add returns m plus other. Both values are expected to share a currency;
// the receiver's currency is kept.
func (m Money) Add(other Money) Money {
	return Money{
		Amount:   m.Amount.Add(other.Amount),
		Currency: m.Currency,
	}
}

// Sub returns m minus other, floored at zero so a deduction can never
// produce a negative amount.
func (m Money) Sub(other Money) Money {
	result := m.Amount.Sub(other.Amount)
	if result.IsNegative() {
		result = decimal.Zero
	}
	return Money{
		Amount:   result,
		Currency: m.Currency,
	}
}

// MulPercent returns pct percent of m, e.g. MulPercent(20) is a fifth of m
func (m Money) MulPercent(pct decimal.Decimal) Money {
	return Money{
		Amount:   m.Amount.Mul(pct).Div(decimal.NewFromInt(100)),
		Currency: m.Currency,
	}
}

// MulInt returns m multiplied by an integer count
func (m Money) MulInt(n int) Money {
	return Money{
		Amount:   m.Amount.Mul(decimal.NewFromInt(int64(n))),
		Currency: m.Currency,
	}
}

func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// Validate checks the Money invariants: non-negative amount and a
// supported currency code
func (m Money) Validate() error {
	if m.Amount.IsNegative() {
		return ierr.NewError("amount cannot be negative").
			WithHint("Please provide a non-negative amount").
			WithReportableDetails(map[string]any{
				"amount": m.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return ValidateCurrencyCode(m.Currency)
}
