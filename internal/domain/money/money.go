// Package money holds integer minor-unit amounts and their display formatting.
package money

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used whenever a currency code is empty or unknown.
const DefaultCurrency = "USD"

// ErrCurrencyMismatch is returned when amounts in different currencies are combined.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Amount is a number of minor currency units (cents for USD) in a single currency.
type Amount struct {
	Value    int64
	Currency string
}

// New returns an Amount of v minor units in the given currency. The code is
// upper-cased and trimmed.
func New(v int64, currency string) Amount {
	return Amount{Value: v, Currency: normalizeCode(currency)}
}

// Zero returns a zero Amount in the given currency.
func Zero(currency string) Amount {
	return New(0, currency)
}

// IsZero reports whether the amount holds no minor units.
func (a Amount) IsZero() bool {
	return a.Value == 0
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a.Value < 0
}

// Add sums two amounts. An amount without a currency code adopts the other's
// code. Codes are compared case-insensitively.
func (a Amount) Add(b Amount) (Amount, error) {
	a.Currency, b.Currency = normalizeCode(a.Currency), normalizeCode(b.Currency)
	switch {
	case a.Currency == "":
		a.Currency = b.Currency
	case b.Currency != "" && a.Currency != b.Currency:
		return Amount{}, errors.Wrapf(ErrCurrencyMismatch, "%s vs %s", a.Currency, b.Currency)
	}
	return Amount{Value: a.Value + b.Value, Currency: a.Currency}, nil
}

// Decimal returns the amount in major units, e.g. 2550 USD -> 25.50.
func (a Amount) Decimal() decimal.Decimal {
	c := Default.Lookup(a.Currency)
	return decimal.New(a.Value, -c.Precision)
}

// String formats the amount for display with the default currency table.
func (a Amount) String() string {
	return Default.Format(a.Value, a.Currency)
}
