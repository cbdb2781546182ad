package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wellfield/backend/internal/domain/shared"
)

// PartnerCreatedEvent is raised when a new partner is created
type PartnerCreatedEvent struct {
	shared.BaseDomainEvent
	PartnerID uuid.UUID `json:"partner_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
}

// EventType returns the event type name
func (e *PartnerCreatedEvent) EventType() string {
	return "PartnerCreated"
}

// NewPartnerCreatedEvent creates a new PartnerCreatedEvent
func NewPartnerCreatedEvent(p *Partner) *PartnerCreatedEvent {
	return &PartnerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PartnerCreated", "Partner", p.ID, p.OrganizationID),
		PartnerID:       p.ID,
		Name:            p.Name,
		Code:            p.Code,
	}
}

// PartnerDeactivatedEvent is raised when a partner is deactivated
type PartnerDeactivatedEvent struct {
	shared.BaseDomainEvent
	PartnerID uuid.UUID `json:"partner_id"`
	Name      string    `json:"name"`
}

// EventType returns the event type name
func (e *PartnerDeactivatedEvent) EventType() string {
	return "PartnerDeactivated"
}

// NewPartnerDeactivatedEvent creates a new PartnerDeactivatedEvent
func NewPartnerDeactivatedEvent(p *Partner) *PartnerDeactivatedEvent {
	return &PartnerDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PartnerDeactivated", "Partner", p.ID, p.OrganizationID),
		PartnerID:       p.ID,
		Name:            p.Name,
	}
}

// WellInterestAssignedEvent is raised when a partner is assigned a
// working interest in a well
type WellInterestAssignedEvent struct {
	shared.BaseDomainEvent
	AssignmentID  uuid.UUID       `json:"assignment_id"`
	WellID        uuid.UUID       `json:"well_id"`
	PartnerID     uuid.UUID       `json:"partner_id"`
	Interest      decimal.Decimal `json:"working_interest"`
	EffectiveDate time.Time       `json:"effective_date"`
}

// EventType returns the event type name
func (e *WellInterestAssignedEvent) EventType() string {
	return "WellInterestAssigned"
}

// NewWellInterestAssignedEvent creates a new WellInterestAssignedEvent
func NewWellInterestAssignedEvent(wi *WellInterest) *WellInterestAssignedEvent {
	return &WellInterestAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("WellInterestAssigned", "WellInterest", wi.ID, wi.OrganizationID),
		AssignmentID:    wi.ID,
		WellID:          wi.WellID,
		PartnerID:       wi.PartnerID,
		Interest:        wi.Interest.Fraction(),
		EffectiveDate:   wi.EffectiveDate,
	}
}
