package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wellfield/backend/internal/domain/partner"
)

// PartnerModel is the persistence model for the Partner aggregate root.
type PartnerModel struct {
	OrganizationAggregateModel
	Name         string                `gorm:"type:varchar(200);not null"`
	Code         string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_partner_org_code,priority:2"`
	ContactName  string                `gorm:"type:varchar(200)"`
	ContactEmail string                `gorm:"type:varchar(254)"`
	Status       partner.PartnerStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	Remark       string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the persistence model to a domain Partner entity.
func (m *PartnerModel) ToDomain() *partner.Partner {
	p := &partner.Partner{
		Name:         m.Name,
		Code:         m.Code,
		ContactName:  m.ContactName,
		ContactEmail: m.ContactEmail,
		Status:       m.Status,
		Remark:       m.Remark,
	}
	m.PopulateOrganizationAggregateRoot(&p.OrganizationAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Partner entity.
func (m *PartnerModel) FromDomain(p *partner.Partner) {
	m.FromDomainOrganizationAggregateRoot(p.OrganizationAggregateRoot)
	m.Name = p.Name
	m.Code = p.Code
	m.ContactName = p.ContactName
	m.ContactEmail = p.ContactEmail
	m.Status = p.Status
	m.Remark = p.Remark
}

// PartnerModelFromDomain creates a new persistence model from a domain Partner.
func PartnerModelFromDomain(p *partner.Partner) *PartnerModel {
	m := &PartnerModel{}
	m.FromDomain(p)
	return m
}

// WellInterestModel is the persistence model for working-interest assignments.
type WellInterestModel struct {
	OrganizationAggregateModel
	WellID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_interest_org_well"`
	WellName      string          `gorm:"type:varchar(200);not null"`
	PartnerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartnerName   string          `gorm:"type:varchar(200);not null"`
	Interest      decimal.Decimal `gorm:"type:decimal(9,8);not null"`
	EffectiveDate time.Time       `gorm:"not null;index"`
	EndDate       *time.Time      `gorm:"index"`
}

// TableName returns the table name for GORM
func (WellInterestModel) TableName() string {
	return "well_interests"
}

// ToDomain converts the persistence model to a domain WellInterest entity.
func (m *WellInterestModel) ToDomain() *partner.WellInterest {
	wi := &partner.WellInterest{
		WellID:        m.WellID,
		WellName:      m.WellName,
		PartnerID:     m.PartnerID,
		PartnerName:   m.PartnerName,
		Interest:      interestFromColumn(m.Interest),
		EffectiveDate: m.EffectiveDate,
		EndDate:       m.EndDate,
	}
	m.PopulateOrganizationAggregateRoot(&wi.OrganizationAggregateRoot)
	return wi
}

// FromDomain populates the persistence model from a domain WellInterest entity.
func (m *WellInterestModel) FromDomain(wi *partner.WellInterest) {
	m.FromDomainOrganizationAggregateRoot(wi.OrganizationAggregateRoot)
	m.WellID = wi.WellID
	m.WellName = wi.WellName
	m.PartnerID = wi.PartnerID
	m.PartnerName = wi.PartnerName
	m.Interest = wi.Interest.Fraction()
	m.EffectiveDate = wi.EffectiveDate
	m.EndDate = wi.EndDate
}

// WellInterestModelFromDomain creates a new persistence model from a
// domain WellInterest.
func WellInterestModelFromDomain(wi *partner.WellInterest) *WellInterestModel {
	m := &WellInterestModel{}
	m.FromDomain(wi)
	return m
}
