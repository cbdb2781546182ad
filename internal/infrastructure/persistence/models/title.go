package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/title"
)

// CurativeItemModel is the persistence model for the CurativeItem aggregate root.
type CurativeItemModel struct {
	OrganizationAggregateModel
	LeaseID         uuid.UUID              `gorm:"type:uuid;not null;index"`
	LeaseName       string                 `gorm:"type:varchar(200);not null"`
	DefectType      string                 `gorm:"type:varchar(100);not null"`
	Description     string                 `gorm:"type:text;not null"`
	Severity        title.CurativeSeverity `gorm:"type:varchar(20);not null;index"`
	Status          title.CurativeStatus   `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	AssignedTo      *uuid.UUID             `gorm:"type:uuid;index"`
	StartedAt       *time.Time
	ResolvedAt      *time.Time
	WaivedAt        *time.Time
	ResolutionNotes string `gorm:"type:text"`
	WaiverReason    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (CurativeItemModel) TableName() string {
	return "curative_items"
}

// ToDomain converts the persistence model to a domain CurativeItem entity.
func (m *CurativeItemModel) ToDomain() *title.CurativeItem {
	ci := &title.CurativeItem{
		LeaseID:         m.LeaseID,
		LeaseName:       m.LeaseName,
		DefectType:      m.DefectType,
		Description:     m.Description,
		Severity:        m.Severity,
		Status:          m.Status,
		AssignedTo:      m.AssignedTo,
		StartedAt:       m.StartedAt,
		ResolvedAt:      m.ResolvedAt,
		WaivedAt:        m.WaivedAt,
		ResolutionNotes: m.ResolutionNotes,
		WaiverReason:    m.WaiverReason,
	}
	m.PopulateOrganizationAggregateRoot(&ci.OrganizationAggregateRoot)
	return ci
}

// FromDomain populates the persistence model from a domain CurativeItem entity.
func (m *CurativeItemModel) FromDomain(ci *title.CurativeItem) {
	m.FromDomainOrganizationAggregateRoot(ci.OrganizationAggregateRoot)
	m.LeaseID = ci.LeaseID
	m.LeaseName = ci.LeaseName
	m.DefectType = ci.DefectType
	m.Description = ci.Description
	m.Severity = ci.Severity
	m.Status = ci.Status
	m.AssignedTo = ci.AssignedTo
	m.StartedAt = ci.StartedAt
	m.ResolvedAt = ci.ResolvedAt
	m.WaivedAt = ci.WaivedAt
	m.ResolutionNotes = ci.ResolutionNotes
	m.WaiverReason = ci.WaiverReason
}

// CurativeItemModelFromDomain creates a new persistence model from a
// domain CurativeItem.
func CurativeItemModelFromDomain(ci *title.CurativeItem) *CurativeItemModel {
	m := &CurativeItemModel{}
	m.FromDomain(ci)
	return m
}
