package lease

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wellfield/backend/internal/domain/shared"
)

// StatementCreatedEvent is raised when a new statement is created
type StatementCreatedEvent struct {
	shared.BaseDomainEvent
	StatementID uuid.UUID `json:"statement_id"`
	LeaseID     uuid.UUID `json:"lease_id"`
	LeaseName   string    `json:"lease_name"`
	Period      string    `json:"period"`
}

// EventType returns the event type name
func (e *StatementCreatedEvent) EventType() string {
	return "LeaseStatementCreated"
}

// NewStatementCreatedEvent creates a new StatementCreatedEvent
func NewStatementCreatedEvent(los *LeaseOperatingStatement) *StatementCreatedEvent {
	return &StatementCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LeaseStatementCreated", "LeaseOperatingStatement", los.ID, los.OrganizationID),
		StatementID:     los.ID,
		LeaseID:         los.LeaseID,
		LeaseName:       los.LeaseName,
		Period:          los.Period(),
	}
}

// StatementFinalizedEvent is raised when a statement's totals are locked
type StatementFinalizedEvent struct {
	shared.BaseDomainEvent
	StatementID   uuid.UUID       `json:"statement_id"`
	LeaseID       uuid.UUID       `json:"lease_id"`
	Period        string          `json:"period"`
	LineCount     int             `json:"line_count"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Currency      string          `json:"currency"`
	FinalizedAt   time.Time       `json:"finalized_at"`
}

// EventType returns the event type name
func (e *StatementFinalizedEvent) EventType() string {
	return "LeaseStatementFinalized"
}

// NewStatementFinalizedEvent creates a new StatementFinalizedEvent
func NewStatementFinalizedEvent(los *LeaseOperatingStatement) *StatementFinalizedEvent {
	finalizedAt := time.Now()
	if los.FinalizedAt != nil {
		finalizedAt = *los.FinalizedAt
	}
	total := los.TotalExpenses()
	return &StatementFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LeaseStatementFinalized", "LeaseOperatingStatement", los.ID, los.OrganizationID),
		StatementID:     los.ID,
		LeaseID:         los.LeaseID,
		Period:          los.Period(),
		LineCount:       len(los.Lines),
		TotalExpenses:   total.Amount(),
		Currency:        total.Currency().String(),
		FinalizedAt:     finalizedAt,
	}
}

// StatementDistributedEvent is raised when a statement is billed to partners
type StatementDistributedEvent struct {
	shared.BaseDomainEvent
	StatementID   uuid.UUID `json:"statement_id"`
	LeaseID       uuid.UUID `json:"lease_id"`
	Period        string    `json:"period"`
	DistributedAt time.Time `json:"distributed_at"`
}

// EventType returns the event type name
func (e *StatementDistributedEvent) EventType() string {
	return "LeaseStatementDistributed"
}

// NewStatementDistributedEvent creates a new StatementDistributedEvent
func NewStatementDistributedEvent(los *LeaseOperatingStatement) *StatementDistributedEvent {
	distributedAt := time.Now()
	if los.DistributedAt != nil {
		distributedAt = *los.DistributedAt
	}
	return &StatementDistributedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LeaseStatementDistributed", "LeaseOperatingStatement", los.ID, los.OrganizationID),
		StatementID:     los.ID,
		LeaseID:         los.LeaseID,
		Period:          los.Period(),
		DistributedAt:   distributedAt,
	}
}
