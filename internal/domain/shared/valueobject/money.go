package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	USD Currency = "USD" // US Dollar (default)
	CAD Currency = "CAD" // Canadian Dollar
	MXN Currency = "MXN" // Mexican Peso
	GBP Currency = "GBP" // British Pound
	NOK Currency = "NOK" // Norwegian Krone
	EUR Currency = "EUR" // Euro
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = USD

// MaxMoneyMagnitude is the largest absolute amount Money will accept.
var MaxMoneyMagnitude = decimal.New(1, 12) // 10^12

// moneyPlaces is the number of decimal places Money is stored with.
// Every constructor and arithmetic result is rounded to this precision
// so repeated operations cannot accumulate drift beyond one cent each.
const moneyPlaces = 2

// IsWellFormed returns true if the currency is a 3-letter uppercase code
func (c Currency) IsWellFormed() bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// IsRecognized returns true if the currency is one the system knows about.
// Well-formed but unrecognized codes are still accepted by NewMoney;
// callers may warn on them but must not reject them.
func (c Currency) IsRecognized() bool {
	switch c {
	case USD, CAD, MXN, GBP, NOK, EUR:
		return true
	}
	return false
}

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}

// Money is a value object representing monetary amounts.
// It is immutable - all operations return new Money instances.
// The amount is always stored rounded to the cent.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency.
// The amount is rounded to two decimal places and must not exceed
// MaxMoneyMagnitude in absolute value.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	if !currency.IsWellFormed() {
		return Money{}, fmt.Errorf("currency must be a 3-letter uppercase code, got %q", currency)
	}
	if amount.Abs().GreaterThan(MaxMoneyMagnitude) {
		return Money{}, fmt.Errorf("amount %s exceeds maximum magnitude %s", amount, MaxMoneyMagnitude)
	}
	return Money{
		amount:   amount.Round(moneyPlaces),
		currency: currency,
	}, nil
}

// NewMoneyFromFloat creates Money from a float64 value.
// Rejects NaN and infinite values.
func NewMoneyFromFloat(amount float64, currency Currency) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, fmt.Errorf("amount must be a finite number, got %v", amount)
	}
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// NewMoneyFromCents creates Money from an integer minor-unit count
func NewMoneyFromCents(cents int64, currency Currency) (Money, error) {
	return NewMoney(decimal.New(cents, -2), currency)
}

// NewMoneyFromString creates Money from a plain decimal string
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// ParseMoney creates Money from a formatted amount string such as
// "$1,500,000.50" or "1 250.00 USD". Currency symbols, thousands
// separators and whitespace are stripped; a trailing or leading 3-letter
// code selects the currency, otherwise it defaults to USD.
func ParseMoney(formatted string) (Money, error) {
	s := strings.TrimSpace(formatted)
	if s == "" {
		return Money{}, errors.New("amount string cannot be empty")
	}

	currency := DefaultCurrency
	upper := strings.ToUpper(s)
	if len(upper) > 3 {
		if prefix := Currency(upper[:3]); prefix.IsWellFormed() && !strings.ContainsAny(upper[:3], "0123456789") {
			currency = prefix
			s = s[3:]
		} else if suffix := Currency(upper[len(upper)-3:]); suffix.IsWellFormed() && !strings.ContainsAny(upper[len(upper)-3:], "0123456789") {
			currency = suffix
			s = s[:len(s)-3]
		}
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == '$' || r == ',' || r == ' ' || r == '\u00a0':
			// formatting characters, skip
		default:
			return Money{}, fmt.Errorf("unexpected character %q in amount %q", r, formatted)
		}
	}
	if b.Len() == 0 {
		return Money{}, fmt.Errorf("no numeric amount in %q", formatted)
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", formatted, err)
	}
	return NewMoney(d, currency)
}

// NewMoneyUSD creates Money in USD, rounded to the cent
func NewMoneyUSD(amount decimal.Decimal) Money {
	return Money{amount: amount.Round(moneyPlaces), currency: USD}
}

// NewMoneyUSDFromFloat creates Money in USD from float64.
// Panics on NaN, infinite, or out-of-range amounts; use
// NewMoneyFromFloat when the input is not known to be valid.
func NewMoneyUSDFromFloat(amount float64) Money {
	m, err := NewMoneyFromFloat(amount, USD)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// ZeroUSD returns a zero-value Money in USD
func ZeroUSD() Money {
	return Zero(USD)
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns a new Money with the sum of both amounts
// Returns error if currencies don't match
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{
		amount:   m.amount.Add(other.amount).Round(moneyPlaces),
		currency: m.currency,
	}, nil
}

// MustAdd adds two Money values, panics if currencies don't match
func (m Money) MustAdd(other Money) Money {
	result, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Subtract returns a new Money with the difference
// Returns error if currencies don't match
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot subtract money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{
		amount:   m.amount.Sub(other.amount).Round(moneyPlaces),
		currency: m.currency,
	}, nil
}

// MustSubtract subtracts two Money values, panics if currencies don't match
func (m Money) MustSubtract(other Money) Money {
	result, err := m.Subtract(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Multiply returns a new Money multiplied by the given factor,
// rounded to the cent
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{
		amount:   m.amount.Mul(factor).Round(moneyPlaces),
		currency: m.currency,
	}
}

// MultiplyByFloat returns a new Money multiplied by a float scalar.
// Rejects NaN and infinite factors.
func (m Money) MultiplyByFloat(factor float64) (Money, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return Money{}, fmt.Errorf("factor must be a finite number, got %v", factor)
	}
	return m.Multiply(decimal.NewFromFloat(factor)), nil
}

// Divide returns a new Money divided by the given divisor, rounded to
// the cent. Returns error if divisor is zero.
func (m Money) Divide(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, errors.New("cannot divide by zero")
	}
	return Money{
		amount:   m.amount.Div(divisor).Round(moneyPlaces),
		currency: m.currency,
	}, nil
}

// Percentage returns the given percentage of this Money
func (m Money) Percentage(percent decimal.Decimal) Money {
	return Money{
		amount:   m.amount.Mul(percent).Div(decimal.NewFromInt(100)).Round(moneyPlaces),
		currency: m.currency,
	}
}

// Negate returns a new Money with the sign reversed
func (m Money) Negate() Money {
	return Money{
		amount:   m.amount.Neg(),
		currency: m.currency,
	}
}

// Abs returns a new Money with the absolute value
func (m Money) Abs() Money {
	return Money{
		amount:   m.amount.Abs(),
		currency: m.currency,
	}
}

// Equals returns true if both Money values are equal (same amount and currency)
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// LessThan returns true if this Money is less than the other
// Returns error if currencies don't match
func (m Money) LessThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, fmt.Errorf("cannot compare money with different currencies: %s and %s", m.currency, other.currency)
	}
	return m.amount.LessThan(other.amount), nil
}

// LessThanOrEqual returns true if this Money is less than or equal to the other
func (m Money) LessThanOrEqual(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, fmt.Errorf("cannot compare money with different currencies: %s and %s", m.currency, other.currency)
	}
	return m.amount.LessThanOrEqual(other.amount), nil
}

// GreaterThan returns true if this Money is greater than the other
func (m Money) GreaterThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, fmt.Errorf("cannot compare money with different currencies: %s and %s", m.currency, other.currency)
	}
	return m.amount.GreaterThan(other.amount), nil
}

// GreaterThanOrEqual returns true if this Money is greater than or equal to the other
func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, fmt.Errorf("cannot compare money with different currencies: %s and %s", m.currency, other.currency)
	}
	return m.amount.GreaterThanOrEqual(other.amount), nil
}

// String returns a string representation of the Money
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(moneyPlaces), m.currency)
}

// StringFixed returns the amount as a string with two decimal places
func (m Money) StringFixed() string {
	return m.amount.StringFixed(moneyPlaces)
}

// Float64 returns the amount as a float64 (may lose precision)
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}{
		Amount:   m.amount.StringFixed(moneyPlaces),
		Currency: m.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The full NewMoney
// validation applies, so malformed currencies or out-of-range amounts
// fail instead of being coerced.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	parsed, err := NewMoney(amount, v.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer for database storage.
// Stores the amount as a decimal string (never a float) to avoid
// serialization drift.
func (m Money) Value() (driver.Value, error) {
	return m.amount.StringFixed(moneyPlaces), nil
}

// Scan implements sql.Scanner for database retrieval.
// Only the amount is scanned; currency defaults to DefaultCurrency
// unless already set by the caller (models store currency in its own
// column and set it after scanning).
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		if m.currency == "" {
			m.currency = DefaultCurrency
		}
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	case float64:
		strVal = decimal.NewFromFloat(v).String()
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	amount, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	m.amount = amount.Round(moneyPlaces)
	if m.currency == "" {
		m.currency = DefaultCurrency
	}
	return nil
}
