package revenue

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wellfield/backend/internal/domain/shared"
)

// DistributionCreatedEvent is raised when a new distribution is created
type DistributionCreatedEvent struct {
	shared.BaseDomainEvent
	DistributionID uuid.UUID       `json:"distribution_id"`
	WellID         uuid.UUID       `json:"well_id"`
	Period         string          `json:"period"`
	GrossRevenue   decimal.Decimal `json:"gross_revenue"`
	NetRevenue     decimal.Decimal `json:"net_revenue"`
	Currency       string          `json:"currency"`
}

// EventType returns the event type name
func (e *DistributionCreatedEvent) EventType() string {
	return "RevenueDistributionCreated"
}

// NewDistributionCreatedEvent creates a new DistributionCreatedEvent
func NewDistributionCreatedEvent(d *RevenueDistribution) *DistributionCreatedEvent {
	return &DistributionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("RevenueDistributionCreated", "RevenueDistribution", d.ID, d.OrganizationID),
		DistributionID:  d.ID,
		WellID:          d.WellID,
		Period:          d.Period(),
		GrossRevenue:    d.WellRevenue.Gross().Amount(),
		NetRevenue:      d.WellRevenue.Net().Amount(),
		Currency:        d.WellRevenue.Currency().String(),
	}
}

// DistributionCalculatedEvent is raised when per-partner lines are computed
type DistributionCalculatedEvent struct {
	shared.BaseDomainEvent
	DistributionID uuid.UUID `json:"distribution_id"`
	WellID         uuid.UUID `json:"well_id"`
	Period         string    `json:"period"`
	LineCount      int       `json:"line_count"`
	CalculatedAt   time.Time `json:"calculated_at"`
}

// EventType returns the event type name
func (e *DistributionCalculatedEvent) EventType() string {
	return "RevenueDistributionCalculated"
}

// NewDistributionCalculatedEvent creates a new DistributionCalculatedEvent
func NewDistributionCalculatedEvent(d *RevenueDistribution) *DistributionCalculatedEvent {
	calculatedAt := time.Now()
	if d.CalculatedAt != nil {
		calculatedAt = *d.CalculatedAt
	}
	return &DistributionCalculatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("RevenueDistributionCalculated", "RevenueDistribution", d.ID, d.OrganizationID),
		DistributionID:  d.ID,
		WellID:          d.WellID,
		Period:          d.Period(),
		LineCount:       len(d.Lines),
		CalculatedAt:    calculatedAt,
	}
}

// DistributionDistributedEvent is raised when partner payments are issued
type DistributionDistributedEvent struct {
	shared.BaseDomainEvent
	DistributionID uuid.UUID `json:"distribution_id"`
	WellID         uuid.UUID `json:"well_id"`
	Period         string    `json:"period"`
	DistributedAt  time.Time `json:"distributed_at"`
}

// EventType returns the event type name
func (e *DistributionDistributedEvent) EventType() string {
	return "RevenueDistributionDistributed"
}

// NewDistributionDistributedEvent creates a new DistributionDistributedEvent
func NewDistributionDistributedEvent(d *RevenueDistribution) *DistributionDistributedEvent {
	distributedAt := time.Now()
	if d.DistributedAt != nil {
		distributedAt = *d.DistributedAt
	}
	return &DistributionDistributedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("RevenueDistributionDistributed", "RevenueDistribution", d.ID, d.OrganizationID),
		DistributionID:  d.ID,
		WellID:          d.WellID,
		Period:          d.Period(),
		DistributedAt:   distributedAt,
	}
}

// DistributionVoidedEvent is raised when a pending distribution is voided
type DistributionVoidedEvent struct {
	shared.BaseDomainEvent
	DistributionID uuid.UUID `json:"distribution_id"`
	WellID         uuid.UUID `json:"well_id"`
	Period         string    `json:"period"`
	VoidReason     string    `json:"void_reason"`
}

// EventType returns the event type name
func (e *DistributionVoidedEvent) EventType() string {
	return "RevenueDistributionVoided"
}

// NewDistributionVoidedEvent creates a new DistributionVoidedEvent
func NewDistributionVoidedEvent(d *RevenueDistribution) *DistributionVoidedEvent {
	return &DistributionVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("RevenueDistributionVoided", "RevenueDistribution", d.ID, d.OrganizationID),
		DistributionID:  d.ID,
		WellID:          d.WellID,
		Period:          d.Period(),
		VoidReason:      d.VoidReason,
	}
}
