package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wellfield/backend/internal/domain/lease"
	"github.com/wellfield/backend/internal/domain/shared/valueobject"
)

// LeaseStatementModel is the persistence model for the
// LeaseOperatingStatement aggregate root.
type LeaseStatementModel struct {
	OrganizationAggregateModel
	LeaseID       uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_statement_lease_period,priority:1"`
	LeaseName     string                `gorm:"type:varchar(200);not null"`
	PeriodYear    int                   `gorm:"not null;uniqueIndex:idx_statement_lease_period,priority:2"`
	PeriodMonth   int                   `gorm:"not null;uniqueIndex:idx_statement_lease_period,priority:3"`
	Currency      string                `gorm:"type:varchar(3);not null"`
	Status        lease.StatementStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Lines         []ExpenseLineModel    `gorm:"foreignKey:StatementID;references:ID"`
	ReviewedAt    *time.Time
	FinalizedAt   *time.Time
	DistributedAt *time.Time
	Remark        string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LeaseStatementModel) TableName() string {
	return "lease_operating_statements"
}

// ExpenseLineModel is the persistence model for statement expense lines.
type ExpenseLineModel struct {
	ID          uuid.UUID             `gorm:"type:uuid;primary_key"`
	StatementID uuid.UUID             `gorm:"type:uuid;not null;index"`
	Category    lease.ExpenseCategory `gorm:"type:varchar(30);not null"`
	Description string                `gorm:"type:varchar(500);not null"`
	Amount      decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	Currency    string                `gorm:"type:varchar(3);not null"`
	IncurredAt  time.Time             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExpenseLineModel) TableName() string {
	return "expense_lines"
}

// ToDomain converts the persistence model to a domain LeaseOperatingStatement entity.
func (m *LeaseStatementModel) ToDomain() *lease.LeaseOperatingStatement {
	los := &lease.LeaseOperatingStatement{
		LeaseID:       m.LeaseID,
		LeaseName:     m.LeaseName,
		PeriodYear:    m.PeriodYear,
		PeriodMonth:   m.PeriodMonth,
		Currency:      valueobject.Currency(m.Currency),
		Status:        m.Status,
		ReviewedAt:    m.ReviewedAt,
		FinalizedAt:   m.FinalizedAt,
		DistributedAt: m.DistributedAt,
		Remark:        m.Remark,
	}
	m.PopulateOrganizationAggregateRoot(&los.OrganizationAggregateRoot)
	for _, line := range m.Lines {
		los.Lines = append(los.Lines, lease.ExpenseLine{
			ID:          line.ID,
			StatementID: line.StatementID,
			Category:    line.Category,
			Description: line.Description,
			Amount:      moneyFromColumns(line.Amount, valueobject.Currency(line.Currency)),
			IncurredAt:  line.IncurredAt,
		})
	}
	return los
}

// FromDomain populates the persistence model from a domain LeaseOperatingStatement entity.
func (m *LeaseStatementModel) FromDomain(los *lease.LeaseOperatingStatement) {
	m.FromDomainOrganizationAggregateRoot(los.OrganizationAggregateRoot)
	m.LeaseID = los.LeaseID
	m.LeaseName = los.LeaseName
	m.PeriodYear = los.PeriodYear
	m.PeriodMonth = los.PeriodMonth
	m.Currency = los.Currency.String()
	m.Status = los.Status
	m.ReviewedAt = los.ReviewedAt
	m.FinalizedAt = los.FinalizedAt
	m.DistributedAt = los.DistributedAt
	m.Remark = los.Remark

	m.Lines = make([]ExpenseLineModel, 0, len(los.Lines))
	for _, line := range los.Lines {
		m.Lines = append(m.Lines, ExpenseLineModel{
			ID:          line.ID,
			StatementID: line.StatementID,
			Category:    line.Category,
			Description: line.Description,
			Amount:      line.Amount.Amount(),
			Currency:    line.Amount.Currency().String(),
			IncurredAt:  line.IncurredAt,
		})
	}
}

// LeaseStatementModelFromDomain creates a new persistence model from a
// domain LeaseOperatingStatement.
func LeaseStatementModelFromDomain(los *lease.LeaseOperatingStatement) *LeaseStatementModel {
	m := &LeaseStatementModel{}
	m.FromDomain(los)
	return m
}
