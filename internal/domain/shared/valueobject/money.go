package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	USD Currency = "USD" // US Dollar (default)
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	CAD Currency = "CAD" // Canadian Dollar
	AUD Currency = "AUD" // Australian Dollar
)

// DefaultCurrency is the default currency for the store
const DefaultCurrency = USD

// currencySymbols maps currency codes to display symbols
var currencySymbols = map[Currency]string{
	USD: "$",
	EUR: "€",
	GBP: "£",
	CAD: "$",
	AUD: "$",
}

// Money is a value object representing monetary amounts
// It is immutable - all operations return new Money instances
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// NewMoneyFromFloat creates Money from a float64 value
func NewMoneyFromFloat(amount float64, currency Currency) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// NewMoneyUSD creates Money in USD
func NewMoneyUSD(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: USD}
}

// NewMoneyUSDFromFloat creates Money in USD from float64
func NewMoneyUSDFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount), currency: USD}
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
	if m.currency == "" {
		return DefaultCurrency
	}
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
	if m.Currency() != other.Currency() {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency(), other.Currency())
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.Currency()}, nil
}

// MustAdd adds two Money values, panicking on currency mismatch
// Only use when currencies are known to match
func (m Money) MustAdd(other Money) Money {
	result, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Subtract returns a new Money with the difference of both amounts
func (m Money) Subtract(other Money) (Money, error) {
	if m.Currency() != other.Currency() {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency(), other.Currency())
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.Currency()}, nil
}

// Multiply returns a new Money multiplied by the factor
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.Currency()}
}

// MultiplyByInt returns a new Money multiplied by an integer factor
func (m Money) MultiplyByInt(factor int64) Money {
	return m.Multiply(decimal.NewFromInt(factor))
}

// Negate returns a new Money with the negated amount
func (m Money) Negate() Money {
	return Money{amount: m.amount.Neg(), currency: m.Currency()}
}

// Abs returns a new Money with the absolute amount
func (m Money) Abs() Money {
	return Money{amount: m.amount.Abs(), currency: m.Currency()}
}

// Round returns a new Money rounded to the given decimal places
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places), currency: m.Currency()}
}

// Equals returns true if both amount and currency match
func (m Money) Equals(other Money) bool {
	return m.Currency() == other.Currency() && m.amount.Equal(other.amount)
}

// LessThan compares amounts, returning error on currency mismatch
func (m Money) LessThan(other Money) (bool, error) {
	if m.Currency() != other.Currency() {
		return false, fmt.Errorf("currency mismatch: %s vs %s", m.Currency(), other.Currency())
	}
	return m.amount.LessThan(other.amount), nil
}

// GreaterThan compares amounts, returning error on currency mismatch
func (m Money) GreaterThan(other Money) (bool, error) {
	if m.Currency() != other.Currency() {
		return false, fmt.Errorf("currency mismatch: %s vs %s", m.Currency(), other.Currency())
	}
	return m.amount.GreaterThan(other.amount), nil
}

// String returns the plain decimal representation
func (m Money) String() string {
	return m.amount.String()
}

// StringFixed returns the amount with a fixed number of decimal places
func (m Money) StringFixed(places int32) string {
	return m.amount.StringFixed(places)
}

// Display returns the customer-facing representation, e.g. "$1,234.50"
// Negative amounts render as "-$5.00"
func (m Money) Display() string {
	symbol, ok := currencySymbols[m.Currency()]
	if !ok {
		symbol = string(m.Currency()) + " "
	}

	amount := m.amount.Round(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	fixed := amount.StringFixed(2)
	parts := strings.SplitN(fixed, ".", 2)
	return sign + symbol + groupThousands(parts[0]) + "." + parts[1]
}

// groupThousands inserts comma separators into a digit string
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// moneyJSON is the JSON wire representation of Money
type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
	Display  string   `json:"display"`
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{
		Amount:   m.amount.StringFixed(2),
		Currency: m.Currency(),
		Display:  m.Display(),
	})
}

// UnmarshalJSON implements json.Unmarshaler
// Accepts either the object form or a bare decimal string/number
func (m *Money) UnmarshalJSON(data []byte) error {
	var obj moneyJSON
	if err := json.Unmarshal(data, &obj); err == nil && obj.Amount != "" {
		d, err := decimal.NewFromString(obj.Amount)
		if err != nil {
			return fmt.Errorf("invalid money amount: %w", err)
		}
		m.amount = d
		m.currency = obj.Currency
		if m.currency == "" {
			m.currency = DefaultCurrency
		}
		return nil
	}

	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("invalid money value: %w", err)
	}
	m.amount = d
	m.currency = DefaultCurrency
	return nil
}

// Value implements driver.Valuer for database storage
// Money is stored as its decimal amount; currency is store-wide
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		m.currency = DefaultCurrency
		return nil
	}

	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("failed to scan money: %w", err)
	}
	m.amount = d
	m.currency = DefaultCurrency
	return nil
}
