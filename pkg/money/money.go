package money

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency is an ISO 4217 currency code.
type Currency struct {
	code string
}

// NewCurrency creates a Currency after validating the code is exactly 3 uppercase letters.
func NewCurrency(code string) (Currency, error) {
	if !currencyCodeRe.MatchString(code) {
		return Currency{}, fmt.Errorf("invalid currency code %q: must be exactly 3 uppercase letters", code)
	}
	return Currency{code: code}, nil
}

// MustCurrency creates a Currency and panics on error. Intended for package-level variable
// initialization only.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string {
	return c.code
}

// String returns the currency code.
func (c Currency) String() string {
	return c.code
}

// Common currencies.
var (
	USD = MustCurrency("USD")
	EUR = MustCurrency("EUR")
	PHP = MustCurrency("PHP")
)

// exponent is the number of decimal places in a minor unit. All supported
// currencies use two (cents, centavos).
const exponent = 2

// Money is an immutable monetary amount held as integer minor units plus a
// currency. Arithmetic never leaves minor units; decimal input is rounded
// half-even at the boundary so binary floating point never touches a balance.
type Money struct {
	units    int64
	currency Currency
}

// FromMinorUnits creates a Money value from integer minor units (e.g. cents).
func FromMinorUnits(units int64, currency Currency) Money {
	return Money{units: units, currency: currency}
}

// FromDecimal converts a decimal amount in major units to Money, rounding
// half-even to the currency exponent.
func FromDecimal(amount decimal.Decimal, currency Currency) Money {
	rounded := amount.RoundBank(exponent)
	return Money{units: rounded.Shift(exponent).IntPart(), currency: currency}
}

// NewFromString parses an amount string in major units (e.g. "12.50") and a
// currency code into a Money value.
func NewFromString(amount string, currency string) (Money, error) {
	cur, err := NewCurrency(currency)
	if err != nil {
		return Money{}, fmt.Errorf("invalid currency: %w", err)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return FromDecimal(d, cur), nil
}

// Zero returns a Money value of zero in the given currency.
func Zero(currency Currency) Money {
	return Money{units: 0, currency: currency}
}

// Units returns the amount in integer minor units.
func (m Money) Units() int64 {
	return m.units
}

// Decimal returns the amount in major units as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.units, -exponent)
}

// Currency returns the currency.
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.units == 0
}

// IsPositive returns true if the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.units > 0
}

// IsNegative returns true if the amount is strictly less than zero.
func (m Money) IsNegative() bool {
	return m.units < 0
}

// Add returns the sum of m and other. Returns an error if the currencies do not match.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: cannot add %s to %s", other.currency, m.currency)
	}
	return Money{units: m.units + other.units, currency: m.currency}, nil
}

// Subtract returns the difference of m minus other. Returns an error if the currencies do not match.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: cannot subtract %s from %s", other.currency, m.currency)
	}
	return Money{units: m.units - other.units, currency: m.currency}, nil
}

// Multiply returns m multiplied by the given decimal factor, rounded half-even
// back to minor units.
func (m Money) Multiply(factor decimal.Decimal) Money {
	return FromDecimal(m.Decimal().Mul(factor), m.currency)
}

// Negate returns m with the sign of the amount flipped.
func (m Money) Negate() Money {
	return Money{units: -m.units, currency: m.currency}
}

// Abs returns m with the absolute value of the amount.
func (m Money) Abs() Money {
	if m.units < 0 {
		return m.Negate()
	}
	return m
}

// Min returns the smaller of m and other, assuming matching currencies.
func (m Money) Min(other Money) Money {
	if other.units < m.units {
		return other
	}
	return m
}

// Equal returns true if both the amount and currency of m and other are equal.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.units == other.units
}

// GreaterThan returns true if m is strictly greater than other, ignoring currency.
func (m Money) GreaterThan(other Money) bool {
	return m.units > other.units
}

// LessThan returns true if m is strictly less than other, ignoring currency.
func (m Money) LessThan(other Money) bool {
	return m.units < other.units
}

// String formats the Money value as "<amount> <currency>", for example "100.00 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(exponent), m.currency.Code())
}
