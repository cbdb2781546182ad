package permit

import (
	"time"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/shared"
)

// PermitCreatedEvent is raised when a permit application is created
type PermitCreatedEvent struct {
	shared.BaseDomainEvent
	PermitID uuid.UUID  `json:"permit_id"`
	WellID   uuid.UUID  `json:"well_id"`
	Type     PermitType `json:"type"`
	Agency   string     `json:"agency"`
}

// EventType returns the event type name
func (e *PermitCreatedEvent) EventType() string {
	return "PermitCreated"
}

// NewPermitCreatedEvent creates a new PermitCreatedEvent
func NewPermitCreatedEvent(p *Permit) *PermitCreatedEvent {
	return &PermitCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PermitCreated", "Permit", p.ID, p.OrganizationID),
		PermitID:        p.ID,
		WellID:          p.WellID,
		Type:            p.Type,
		Agency:          p.Agency,
	}
}

// PermitFiledEvent is raised when the application is submitted
type PermitFiledEvent struct {
	shared.BaseDomainEvent
	PermitID     uuid.UUID `json:"permit_id"`
	WellID       uuid.UUID `json:"well_id"`
	PermitNumber string    `json:"permit_number"`
	FiledAt      time.Time `json:"filed_at"`
}

// EventType returns the event type name
func (e *PermitFiledEvent) EventType() string {
	return "PermitFiled"
}

// NewPermitFiledEvent creates a new PermitFiledEvent
func NewPermitFiledEvent(p *Permit) *PermitFiledEvent {
	filedAt := time.Now()
	if p.FiledAt != nil {
		filedAt = *p.FiledAt
	}
	return &PermitFiledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PermitFiled", "Permit", p.ID, p.OrganizationID),
		PermitID:        p.ID,
		WellID:          p.WellID,
		PermitNumber:    p.PermitNumber,
		FiledAt:         filedAt,
	}
}

// PermitApprovedEvent is raised when the agency grants the permit
type PermitApprovedEvent struct {
	shared.BaseDomainEvent
	PermitID       uuid.UUID `json:"permit_id"`
	WellID         uuid.UUID `json:"well_id"`
	PermitNumber   string    `json:"permit_number"`
	ExpirationDate time.Time `json:"expiration_date"`
}

// EventType returns the event type name
func (e *PermitApprovedEvent) EventType() string {
	return "PermitApproved"
}

// NewPermitApprovedEvent creates a new PermitApprovedEvent
func NewPermitApprovedEvent(p *Permit) *PermitApprovedEvent {
	var expiration time.Time
	if p.ExpirationDate != nil {
		expiration = *p.ExpirationDate
	}
	return &PermitApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PermitApproved", "Permit", p.ID, p.OrganizationID),
		PermitID:        p.ID,
		WellID:          p.WellID,
		PermitNumber:    p.PermitNumber,
		ExpirationDate:  expiration,
	}
}

// PermitDeniedEvent is raised when the agency denies the permit
type PermitDeniedEvent struct {
	shared.BaseDomainEvent
	PermitID     uuid.UUID `json:"permit_id"`
	WellID       uuid.UUID `json:"well_id"`
	PermitNumber string    `json:"permit_number"`
	DenialReason string    `json:"denial_reason"`
}

// EventType returns the event type name
func (e *PermitDeniedEvent) EventType() string {
	return "PermitDenied"
}

// NewPermitDeniedEvent creates a new PermitDeniedEvent
func NewPermitDeniedEvent(p *Permit) *PermitDeniedEvent {
	return &PermitDeniedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PermitDenied", "Permit", p.ID, p.OrganizationID),
		PermitID:        p.ID,
		WellID:          p.WellID,
		PermitNumber:    p.PermitNumber,
		DenialReason:    p.DenialReason,
	}
}

// PermitExpiredEvent is raised when an approved permit lapses
type PermitExpiredEvent struct {
	shared.BaseDomainEvent
	PermitID     uuid.UUID `json:"permit_id"`
	WellID       uuid.UUID `json:"well_id"`
	PermitNumber string    `json:"permit_number"`
	ExpiredAt    time.Time `json:"expired_at"`
}

// EventType returns the event type name
func (e *PermitExpiredEvent) EventType() string {
	return "PermitExpired"
}

// NewPermitExpiredEvent creates a new PermitExpiredEvent
func NewPermitExpiredEvent(p *Permit) *PermitExpiredEvent {
	expiredAt := time.Now()
	if p.ExpiredAt != nil {
		expiredAt = *p.ExpiredAt
	}
	return &PermitExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PermitExpired", "Permit", p.ID, p.OrganizationID),
		PermitID:        p.ID,
		WellID:          p.WellID,
		PermitNumber:    p.PermitNumber,
		ExpiredAt:       expiredAt,
	}
}
