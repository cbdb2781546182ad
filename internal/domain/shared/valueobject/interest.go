package valueobject

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// WorkingInterest is a value object representing a partner's fractional
// ownership share in a well, expressed as a decimal in [0, 1].
// It is immutable - all operations return new instances.
type WorkingInterest struct {
	fraction decimal.Decimal
}

var one = decimal.NewFromInt(1)

// NewWorkingInterest creates a WorkingInterest from a decimal fraction.
// The fraction must lie in [0, 1].
func NewWorkingInterest(fraction decimal.Decimal) (WorkingInterest, error) {
	if fraction.IsNegative() || fraction.GreaterThan(one) {
		return WorkingInterest{}, fmt.Errorf("working interest must be between 0 and 1, got %s", fraction)
	}
	return WorkingInterest{fraction: fraction}, nil
}

// NewWorkingInterestFromFloat creates a WorkingInterest from a float64
func NewWorkingInterestFromFloat(fraction float64) (WorkingInterest, error) {
	return NewWorkingInterest(decimal.NewFromFloat(fraction))
}

// NewWorkingInterestFromString creates a WorkingInterest from a decimal string
func NewWorkingInterestFromString(fraction string) (WorkingInterest, error) {
	d, err := decimal.NewFromString(fraction)
	if err != nil {
		return WorkingInterest{}, fmt.Errorf("invalid working interest string: %w", err)
	}
	return NewWorkingInterest(d)
}

// MustNewWorkingInterest creates a WorkingInterest and panics on error
func MustNewWorkingInterest(fraction decimal.Decimal) WorkingInterest {
	wi, err := NewWorkingInterest(fraction)
	if err != nil {
		panic(err)
	}
	return wi
}

// ZeroWorkingInterest returns a zero interest share
func ZeroWorkingInterest() WorkingInterest {
	return WorkingInterest{fraction: decimal.Zero}
}

// FullWorkingInterest returns a 100% interest share
func FullWorkingInterest() WorkingInterest {
	return WorkingInterest{fraction: one}
}

// Fraction returns the decimal fraction
func (w WorkingInterest) Fraction() decimal.Decimal {
	return w.fraction
}

// IsZero returns true if the interest is zero
func (w WorkingInterest) IsZero() bool {
	return w.fraction.IsZero()
}

// Add returns the sum of two interests.
// Fails if the sum exceeds 100%.
func (w WorkingInterest) Add(other WorkingInterest) (WorkingInterest, error) {
	return NewWorkingInterest(w.fraction.Add(other.fraction))
}

// AtLeast returns true if the interest is greater than or equal to the
// given fraction
func (w WorkingInterest) AtLeast(fraction decimal.Decimal) bool {
	return w.fraction.GreaterThanOrEqual(fraction)
}

// Percent returns the interest expressed as a percentage
func (w WorkingInterest) Percent() decimal.Decimal {
	return w.fraction.Mul(decimal.NewFromInt(100))
}

// String returns the interest as a percentage string
func (w WorkingInterest) String() string {
	return fmt.Sprintf("%s%%", w.Percent().StringFixed(2))
}

// Value implements driver.Valuer for database storage
func (w WorkingInterest) Value() (driver.Value, error) {
	return w.fraction.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (w *WorkingInterest) Scan(value any) error {
	if value == nil {
		w.fraction = decimal.Zero
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
		return fmt.Errorf("cannot scan %T into WorkingInterest", value)
	}
	fraction, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	w.fraction = fraction
	return nil
}
