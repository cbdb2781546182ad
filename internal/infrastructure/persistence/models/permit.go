package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/permit"
)

// PermitModel is the persistence model for the Permit aggregate root.
type PermitModel struct {
	OrganizationAggregateModel
	WellID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	WellName       string              `gorm:"type:varchar(200);not null"`
	Type           permit.PermitType   `gorm:"type:varchar(30);not null"`
	Agency         string              `gorm:"type:varchar(200);not null"`
	PermitNumber   string              `gorm:"type:varchar(50);index"`
	Status         permit.PermitStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	FiledAt        *time.Time
	ApprovedAt     *time.Time
	DeniedAt       *time.Time
	ExpiredAt      *time.Time
	ExpirationDate *time.Time `gorm:"index"`
	DenialReason   string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PermitModel) TableName() string {
	return "permits"
}

// ToDomain converts the persistence model to a domain Permit entity.
func (m *PermitModel) ToDomain() *permit.Permit {
	p := &permit.Permit{
		WellID:         m.WellID,
		WellName:       m.WellName,
		Type:           m.Type,
		Agency:         m.Agency,
		PermitNumber:   m.PermitNumber,
		Status:         m.Status,
		FiledAt:        m.FiledAt,
		ApprovedAt:     m.ApprovedAt,
		DeniedAt:       m.DeniedAt,
		ExpiredAt:      m.ExpiredAt,
		ExpirationDate: m.ExpirationDate,
		DenialReason:   m.DenialReason,
	}
	m.PopulateOrganizationAggregateRoot(&p.OrganizationAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Permit entity.
func (m *PermitModel) FromDomain(p *permit.Permit) {
	m.FromDomainOrganizationAggregateRoot(p.OrganizationAggregateRoot)
	m.WellID = p.WellID
	m.WellName = p.WellName
	m.Type = p.Type
	m.Agency = p.Agency
	m.PermitNumber = p.PermitNumber
	m.Status = p.Status
	m.FiledAt = p.FiledAt
	m.ApprovedAt = p.ApprovedAt
	m.DeniedAt = p.DeniedAt
	m.ExpiredAt = p.ExpiredAt
	m.ExpirationDate = p.ExpirationDate
	m.DenialReason = p.DenialReason
}

// PermitModelFromDomain creates a new persistence model from a domain Permit.
func PermitModelFromDomain(p *permit.Permit) *PermitModel {
	m := &PermitModel{}
	m.FromDomain(p)
	return m
}
