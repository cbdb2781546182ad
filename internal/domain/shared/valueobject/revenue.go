package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RevenueAmount is a value object representing a gross/deduction/net
// revenue triple. Net is always derived as gross minus deductions and
// all three components share one currency. It is immutable - operations
// return new instances and re-validate the invariants.
type RevenueAmount struct {
	gross      Money
	deductions Money
	net        Money
}

// NewRevenueAmount creates a RevenueAmount from gross and deductions.
// Deductions must be non-negative, must not exceed gross, and must share
// the gross currency.
func NewRevenueAmount(gross, deductions Money) (RevenueAmount, error) {
	if gross.Currency() != deductions.Currency() {
		return RevenueAmount{}, fmt.Errorf("gross currency %s does not match deductions currency %s",
			gross.Currency(), deductions.Currency())
	}
	if deductions.IsNegative() {
		return RevenueAmount{}, fmt.Errorf("deductions cannot be negative, got %s", deductions)
	}
	if exceeds, _ := deductions.GreaterThan(gross); exceeds {
		return RevenueAmount{}, fmt.Errorf("deductions %s exceed gross %s", deductions, gross)
	}
	net, err := gross.Subtract(deductions)
	if err != nil {
		return RevenueAmount{}, err
	}
	return RevenueAmount{gross: gross, deductions: deductions, net: net}, nil
}

// NewGrossRevenueAmount creates a RevenueAmount with zero deductions
func NewGrossRevenueAmount(gross Money) (RevenueAmount, error) {
	return NewRevenueAmount(gross, Zero(gross.Currency()))
}

// ZeroRevenueAmount returns a zero-valued RevenueAmount in the given currency
func ZeroRevenueAmount(currency Currency) RevenueAmount {
	z := Zero(currency)
	return RevenueAmount{gross: z, deductions: z, net: z}
}

// Gross returns the gross component
func (r RevenueAmount) Gross() Money {
	return r.gross
}

// Deductions returns the deductions component
func (r RevenueAmount) Deductions() Money {
	return r.deductions
}

// Net returns the derived net component (gross minus deductions)
func (r RevenueAmount) Net() Money {
	return r.net
}

// Currency returns the shared currency of all three components
func (r RevenueAmount) Currency() Currency {
	return r.gross.Currency()
}

// IsZero returns true if gross is zero
func (r RevenueAmount) IsZero() bool {
	return r.gross.IsZero()
}

// Add returns the component-wise sum of two RevenueAmounts
func (r RevenueAmount) Add(other RevenueAmount) (RevenueAmount, error) {
	gross, err := r.gross.Add(other.gross)
	if err != nil {
		return RevenueAmount{}, err
	}
	deductions, err := r.deductions.Add(other.deductions)
	if err != nil {
		return RevenueAmount{}, err
	}
	return NewRevenueAmount(gross, deductions)
}

// Subtract returns the component-wise difference of two RevenueAmounts
func (r RevenueAmount) Subtract(other RevenueAmount) (RevenueAmount, error) {
	gross, err := r.gross.Subtract(other.gross)
	if err != nil {
		return RevenueAmount{}, err
	}
	deductions, err := r.deductions.Subtract(other.deductions)
	if err != nil {
		return RevenueAmount{}, err
	}
	return NewRevenueAmount(gross, deductions)
}

// MultiplyByScalar scales gross and deductions by the given factor
func (r RevenueAmount) MultiplyByScalar(factor decimal.Decimal) (RevenueAmount, error) {
	return NewRevenueAmount(r.gross.Multiply(factor), r.deductions.Multiply(factor))
}

// ApplyDecimalInterest scales gross and deductions by a partner's
// ownership fraction. The fraction must lie in [0, 1].
func (r RevenueAmount) ApplyDecimalInterest(fraction decimal.Decimal) (RevenueAmount, error) {
	if fraction.IsNegative() || fraction.GreaterThan(decimal.NewFromInt(1)) {
		return RevenueAmount{}, fmt.Errorf("decimal interest must be between 0 and 1, got %s", fraction)
	}
	return NewRevenueAmount(r.gross.Multiply(fraction), r.deductions.Multiply(fraction))
}

// String returns a readable representation of the triple
func (r RevenueAmount) String() string {
	return fmt.Sprintf("gross %s, deductions %s, net %s", r.gross, r.deductions, r.net)
}
