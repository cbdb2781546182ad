package title

import (
	"time"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/shared"
)

// CurativeItemCreatedEvent is raised when a title defect is logged
type CurativeItemCreatedEvent struct {
	shared.BaseDomainEvent
	ItemID     uuid.UUID        `json:"item_id"`
	LeaseID    uuid.UUID        `json:"lease_id"`
	DefectType string           `json:"defect_type"`
	Severity   CurativeSeverity `json:"severity"`
}

// EventType returns the event type name
func (e *CurativeItemCreatedEvent) EventType() string {
	return "CurativeItemCreated"
}

// NewCurativeItemCreatedEvent creates a new CurativeItemCreatedEvent
func NewCurativeItemCreatedEvent(ci *CurativeItem) *CurativeItemCreatedEvent {
	return &CurativeItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CurativeItemCreated", "CurativeItem", ci.ID, ci.OrganizationID),
		ItemID:          ci.ID,
		LeaseID:         ci.LeaseID,
		DefectType:      ci.DefectType,
		Severity:        ci.Severity,
	}
}

// CurativeItemResolvedEvent is raised when a defect is cured
type CurativeItemResolvedEvent struct {
	shared.BaseDomainEvent
	ItemID          uuid.UUID `json:"item_id"`
	LeaseID         uuid.UUID `json:"lease_id"`
	ResolutionNotes string    `json:"resolution_notes"`
	ResolvedAt      time.Time `json:"resolved_at"`
}

// EventType returns the event type name
func (e *CurativeItemResolvedEvent) EventType() string {
	return "CurativeItemResolved"
}

// NewCurativeItemResolvedEvent creates a new CurativeItemResolvedEvent
func NewCurativeItemResolvedEvent(ci *CurativeItem) *CurativeItemResolvedEvent {
	resolvedAt := time.Now()
	if ci.ResolvedAt != nil {
		resolvedAt = *ci.ResolvedAt
	}
	return &CurativeItemResolvedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CurativeItemResolved", "CurativeItem", ci.ID, ci.OrganizationID),
		ItemID:          ci.ID,
		LeaseID:         ci.LeaseID,
		ResolutionNotes: ci.ResolutionNotes,
		ResolvedAt:      resolvedAt,
	}
}

// CurativeItemWaivedEvent is raised when a defect is accepted as-is
type CurativeItemWaivedEvent struct {
	shared.BaseDomainEvent
	ItemID       uuid.UUID `json:"item_id"`
	LeaseID      uuid.UUID `json:"lease_id"`
	WaiverReason string    `json:"waiver_reason"`
	WaivedAt     time.Time `json:"waived_at"`
}

// EventType returns the event type name
func (e *CurativeItemWaivedEvent) EventType() string {
	return "CurativeItemWaived"
}

// NewCurativeItemWaivedEvent creates a new CurativeItemWaivedEvent
func NewCurativeItemWaivedEvent(ci *CurativeItem) *CurativeItemWaivedEvent {
	waivedAt := time.Now()
	if ci.WaivedAt != nil {
		waivedAt = *ci.WaivedAt
	}
	return &CurativeItemWaivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CurativeItemWaived", "CurativeItem", ci.ID, ci.OrganizationID),
		ItemID:          ci.ID,
		LeaseID:         ci.LeaseID,
		WaiverReason:    ci.WaiverReason,
		WaivedAt:        waivedAt,
	}
}
