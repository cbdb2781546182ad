package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wellfield/backend/internal/domain/revenue"
	"github.com/wellfield/backend/internal/domain/shared/valueobject"
)

// RevenueDistributionModel is the persistence model for the
// RevenueDistribution aggregate root.
type RevenueDistributionModel struct {
	OrganizationAggregateModel
	WellID        uuid.UUID                  `gorm:"type:uuid;not null;uniqueIndex:idx_distribution_well_period,priority:1"`
	WellName      string                     `gorm:"type:varchar(200);not null"`
	PeriodYear    int                        `gorm:"not null;uniqueIndex:idx_distribution_well_period,priority:2"`
	PeriodMonth   int                        `gorm:"not null;uniqueIndex:idx_distribution_well_period,priority:3"`
	Gross         decimal.Decimal            `gorm:"type:decimal(18,2);not null"`
	Deductions    decimal.Decimal            `gorm:"type:decimal(18,2);not null"`
	Currency      string                     `gorm:"type:varchar(3);not null"`
	Status        revenue.DistributionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Lines         []DistributionLineModel    `gorm:"foreignKey:DistributionID;references:ID"`
	CalculatedAt  *time.Time
	DistributedAt *time.Time
	VoidedAt      *time.Time
	VoidReason    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (RevenueDistributionModel) TableName() string {
	return "revenue_distributions"
}

// DistributionLineModel is the persistence model for per-partner
// distribution lines.
type DistributionLineModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	DistributionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartnerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartnerName    string          `gorm:"type:varchar(200);not null"`
	Interest       decimal.Decimal `gorm:"type:decimal(9,8);not null"`
	Gross          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Deductions     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency       string          `gorm:"type:varchar(3);not null"`
}

// TableName returns the table name for GORM
func (DistributionLineModel) TableName() string {
	return "distribution_lines"
}

// ToDomain converts the persistence model to a domain RevenueDistribution entity.
func (m *RevenueDistributionModel) ToDomain() *revenue.RevenueDistribution {
	currency := valueobject.Currency(m.Currency)
	d := &revenue.RevenueDistribution{
		WellID:        m.WellID,
		WellName:      m.WellName,
		PeriodYear:    m.PeriodYear,
		PeriodMonth:   m.PeriodMonth,
		WellRevenue:   revenueFromColumns(m.Gross, m.Deductions, currency),
		Status:        m.Status,
		CalculatedAt:  m.CalculatedAt,
		DistributedAt: m.DistributedAt,
		VoidedAt:      m.VoidedAt,
		VoidReason:    m.VoidReason,
	}
	m.PopulateOrganizationAggregateRoot(&d.OrganizationAggregateRoot)
	for _, line := range m.Lines {
		lineCurrency := valueobject.Currency(line.Currency)
		d.Lines = append(d.Lines, revenue.DistributionLine{
			ID:             line.ID,
			DistributionID: line.DistributionID,
			PartnerID:      line.PartnerID,
			PartnerName:    line.PartnerName,
			Interest:       interestFromColumn(line.Interest),
			Amount:         revenueFromColumns(line.Gross, line.Deductions, lineCurrency),
		})
	}
	return d
}

// FromDomain populates the persistence model from a domain RevenueDistribution entity.
func (m *RevenueDistributionModel) FromDomain(d *revenue.RevenueDistribution) {
	m.FromDomainOrganizationAggregateRoot(d.OrganizationAggregateRoot)
	m.WellID = d.WellID
	m.WellName = d.WellName
	m.PeriodYear = d.PeriodYear
	m.PeriodMonth = d.PeriodMonth
	m.Gross = d.WellRevenue.Gross().Amount()
	m.Deductions = d.WellRevenue.Deductions().Amount()
	m.Currency = d.WellRevenue.Currency().String()
	m.Status = d.Status
	m.CalculatedAt = d.CalculatedAt
	m.DistributedAt = d.DistributedAt
	m.VoidedAt = d.VoidedAt
	m.VoidReason = d.VoidReason

	m.Lines = make([]DistributionLineModel, 0, len(d.Lines))
	for _, line := range d.Lines {
		m.Lines = append(m.Lines, DistributionLineModel{
			ID:             line.ID,
			DistributionID: line.DistributionID,
			PartnerID:      line.PartnerID,
			PartnerName:    line.PartnerName,
			Interest:       line.Interest.Fraction(),
			Gross:          line.Amount.Gross().Amount(),
			Deductions:     line.Amount.Deductions().Amount(),
			Currency:       line.Amount.Currency().String(),
		})
	}
}

// RevenueDistributionModelFromDomain creates a new persistence model
// from a domain RevenueDistribution.
func RevenueDistributionModelFromDomain(d *revenue.RevenueDistribution) *RevenueDistributionModel {
	m := &RevenueDistributionModel{}
	m.FromDomain(d)
	return m
}
