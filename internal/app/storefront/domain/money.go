package domain

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// Money represents a monetary amount as returned by the Storefront API (MoneyV2).
// The amount is kept as a big.Rat so sums of line prices never drift.
type Money struct {
	rat      *big.Rat
	currency string
}

// MoneyV2 is the wire shape of a monetary amount.
type MoneyV2 struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// NewMoney parses a decimal amount string such as "12.50".
func NewMoney(amount, currency string) (*Money, error) {
	if amount == "" {
		return nil, ErrInvalidAmount
	}

	rat, ok := new(big.Rat).SetString(amount)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}

	return &Money{rat: rat, currency: currency}, nil
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency string) *Money {
	return &Money{rat: new(big.Rat), currency: currency}
}

// MoneyFromV2 converts a wire amount, returning nil for a nil or empty value.
func MoneyFromV2(v *MoneyV2) *Money {
	if v == nil || v.Amount == "" {
		return nil
	}
	m, err := NewMoney(v.Amount, v.CurrencyCode)
	if err != nil {
		return nil
	}
	return m
}

// Currency returns the ISO currency code.
func (m *Money) Currency() string {
	return m.currency
}

// Add adds two Money values and returns a new Money instance.
// The receiver's currency wins.
func (m *Money) Add(other *Money) *Money {
	if other == nil {
		return m.Copy()
	}
	return &Money{rat: new(big.Rat).Add(m.rat, other.rat), currency: m.currency}
}

// Times multiplies the amount by an integer quantity.
func (m *Money) Times(quantity int) *Money {
	return &Money{rat: new(big.Rat).Mul(m.rat, big.NewRat(int64(quantity), 1)), currency: m.currency}
}

// IsZero returns true if the money value is zero.
func (m *Money) IsZero() bool {
	return m.rat.Sign() == 0
}

// Equals returns true if both amount and currency match.
func (m *Money) Equals(other *Money) bool {
	if other == nil {
		return false
	}
	return m.currency == other.currency && m.rat.Cmp(other.rat) == 0
}

// String returns the amount with two decimals.
func (m *Money) String() string {
	return m.rat.FloatString(2)
}

// Format renders the amount for display, e.g. "$12.50" or "12.50 SEK".
func (m *Money) Format() string {
	if symbol, ok := currencySymbols[m.currency]; ok {
		if m.rat.Sign() < 0 {
			return "-" + symbol + new(big.Rat).Neg(m.rat).FloatString(2)
		}
		return symbol + m.String()
	}
	if m.currency == "" {
		return m.String()
	}
	return m.String() + " " + m.currency
}

// V2 converts back to the wire shape.
func (m *Money) V2() MoneyV2 {
	return MoneyV2{Amount: m.String(), CurrencyCode: m.currency}
}

// MarshalJSON encodes the amount in the MoneyV2 shape.
func (m *Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.V2())
}

// UnmarshalJSON decodes a MoneyV2 object.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v MoneyV2
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewMoney(v.Amount, v.CurrencyCode)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

// Copy creates a deep copy of this Money instance.
func (m *Money) Copy() *Money {
	return &Money{rat: new(big.Rat).Set(m.rat), currency: m.currency}
}

var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "CA$",
	"AUD": "A$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"MXN": "MX$",
}
