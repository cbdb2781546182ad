package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wellfield/backend/internal/domain/afe"
	"github.com/wellfield/backend/internal/domain/shared/valueobject"
)

// AfeModel is the persistence model for the Afe aggregate root.
type AfeModel struct {
	OrganizationAggregateModel
	AfeNumber       string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_afe_org_number,priority:2"`
	WellID          uuid.UUID        `gorm:"type:uuid;not null;index"`
	WellName        string           `gorm:"type:varchar(200);not null"`
	Category        afe.AfeCategory  `gorm:"type:varchar(20);not null"`
	Description     string           `gorm:"type:text"`
	EstimatedCost   decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	ApprovedAmount  *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Currency        string           `gorm:"type:varchar(3);not null"`
	Status          afe.AfeStatus    `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	SubmittedAt     *time.Time       `gorm:"index"`
	ApprovedAt      *time.Time
	RejectedAt      *time.Time
	ClosedAt        *time.Time
	RejectionReason string `gorm:"type:varchar(500)"`
	Remark          string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AfeModel) TableName() string {
	return "afes"
}

// ToDomain converts the persistence model to a domain Afe entity.
func (m *AfeModel) ToDomain() *afe.Afe {
	currency := valueobject.Currency(m.Currency)
	a := &afe.Afe{
		AfeNumber:       m.AfeNumber,
		WellID:          m.WellID,
		WellName:        m.WellName,
		Category:        m.Category,
		Description:     m.Description,
		EstimatedCost:   moneyFromColumns(m.EstimatedCost, currency),
		Status:          m.Status,
		SubmittedAt:     m.SubmittedAt,
		ApprovedAt:      m.ApprovedAt,
		RejectedAt:      m.RejectedAt,
		ClosedAt:        m.ClosedAt,
		RejectionReason: m.RejectionReason,
		Remark:          m.Remark,
	}
	m.PopulateOrganizationAggregateRoot(&a.OrganizationAggregateRoot)
	if m.ApprovedAmount != nil {
		approved := moneyFromColumns(*m.ApprovedAmount, currency)
		a.ApprovedAmount = &approved
	}
	return a
}

// FromDomain populates the persistence model from a domain Afe entity.
func (m *AfeModel) FromDomain(a *afe.Afe) {
	m.FromDomainOrganizationAggregateRoot(a.OrganizationAggregateRoot)
	m.AfeNumber = a.AfeNumber
	m.WellID = a.WellID
	m.WellName = a.WellName
	m.Category = a.Category
	m.Description = a.Description
	m.EstimatedCost = a.EstimatedCost.Amount()
	m.Currency = a.EstimatedCost.Currency().String()
	m.Status = a.Status
	m.SubmittedAt = a.SubmittedAt
	m.ApprovedAt = a.ApprovedAt
	m.RejectedAt = a.RejectedAt
	m.ClosedAt = a.ClosedAt
	m.RejectionReason = a.RejectionReason
	m.Remark = a.Remark
	if a.ApprovedAmount != nil {
		approved := a.ApprovedAmount.Amount()
		m.ApprovedAmount = &approved
	} else {
		m.ApprovedAmount = nil
	}
}

// AfeModelFromDomain creates a new persistence model from a domain Afe.
func AfeModelFromDomain(a *afe.Afe) *AfeModel {
	m := &AfeModel{}
	m.FromDomain(a)
	return m
}

// PartnerApprovalModel is the persistence model for partner approval records.
type PartnerApprovalModel struct {
	OrganizationAggregateModel
	AfeID          uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_approval_afe_partner,priority:1"`
	PartnerID      uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_approval_afe_partner,priority:2"`
	PartnerName    string             `gorm:"type:varchar(200);not null"`
	Interest       decimal.Decimal    `gorm:"type:decimal(9,8);not null"`
	Status         afe.ApprovalStatus `gorm:"type:varchar(20);not null;index"`
	ApprovedAmount *decimal.Decimal   `gorm:"type:decimal(18,2)"`
	Currency       string             `gorm:"type:varchar(3)"`
	Comments       string             `gorm:"type:text"`
	RespondedAt    *time.Time
}

// TableName returns the table name for GORM
func (PartnerApprovalModel) TableName() string {
	return "partner_approvals"
}

// ToDomain converts the persistence model to a domain PartnerApproval entity.
func (m *PartnerApprovalModel) ToDomain() *afe.PartnerApproval {
	pa := &afe.PartnerApproval{
		AfeID:       m.AfeID,
		PartnerID:   m.PartnerID,
		PartnerName: m.PartnerName,
		Interest:    interestFromColumn(m.Interest),
		Status:      m.Status,
		Comments:    m.Comments,
		RespondedAt: m.RespondedAt,
	}
	m.PopulateOrganizationAggregateRoot(&pa.OrganizationAggregateRoot)
	if m.ApprovedAmount != nil {
		currency := valueobject.Currency(m.Currency)
		if m.Currency == "" {
			currency = valueobject.DefaultCurrency
		}
		approved := moneyFromColumns(*m.ApprovedAmount, currency)
		pa.ApprovedAmount = &approved
	}
	return pa
}

// FromDomain populates the persistence model from a domain PartnerApproval entity.
func (m *PartnerApprovalModel) FromDomain(pa *afe.PartnerApproval) {
	m.FromDomainOrganizationAggregateRoot(pa.OrganizationAggregateRoot)
	m.AfeID = pa.AfeID
	m.PartnerID = pa.PartnerID
	m.PartnerName = pa.PartnerName
	m.Interest = pa.Interest.Fraction()
	m.Status = pa.Status
	m.Comments = pa.Comments
	m.RespondedAt = pa.RespondedAt
	if pa.ApprovedAmount != nil {
		approved := pa.ApprovedAmount.Amount()
		m.ApprovedAmount = &approved
		m.Currency = pa.ApprovedAmount.Currency().String()
	} else {
		m.ApprovedAmount = nil
	}
}

// PartnerApprovalModelFromDomain creates a new persistence model from a
// domain PartnerApproval.
func PartnerApprovalModelFromDomain(pa *afe.PartnerApproval) *PartnerApprovalModel {
	m := &PartnerApprovalModel{}
	m.FromDomain(pa)
	return m
}
