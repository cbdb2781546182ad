package models

import (
	"github.com/shopspring/decimal"
	"github.com/wellfield/backend/internal/domain/shared/valueobject"
)

// moneyFromColumns rebuilds a Money value object from its stored amount
// and currency columns. Stored values were validated on write, so the
// constructor error path is unreachable here.
func moneyFromColumns(amount decimal.Decimal, currency valueobject.Currency) valueobject.Money {
	m, _ := valueobject.NewMoney(amount, currency)
	return m
}

// revenueFromColumns rebuilds a RevenueAmount from stored gross and
// deduction columns sharing one currency.
func revenueFromColumns(gross, deductions decimal.Decimal, currency valueobject.Currency) valueobject.RevenueAmount {
	r, _ := valueobject.NewRevenueAmount(
		moneyFromColumns(gross, currency),
		moneyFromColumns(deductions, currency),
	)
	return r
}

// interestFromColumn rebuilds a WorkingInterest from its stored fraction
func interestFromColumn(fraction decimal.Decimal) valueobject.WorkingInterest {
	return valueobject.MustNewWorkingInterest(fraction)
}
