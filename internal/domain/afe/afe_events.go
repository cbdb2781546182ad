package afe

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/domain/shared/valueobject"
)

// AfeCreatedEvent is raised when a new AFE is created
type AfeCreatedEvent struct {
	shared.BaseDomainEvent
	AfeID         uuid.UUID       `json:"afe_id"`
	AfeNumber     string          `json:"afe_number"`
	WellID        uuid.UUID       `json:"well_id"`
	WellName      string          `json:"well_name"`
	Category      AfeCategory     `json:"category"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Currency      string          `json:"currency"`
}

// EventType returns the event type name
func (e *AfeCreatedEvent) EventType() string {
	return "AfeCreated"
}

// NewAfeCreatedEvent creates a new AfeCreatedEvent
func NewAfeCreatedEvent(a *Afe) *AfeCreatedEvent {
	return &AfeCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AfeCreated", "Afe", a.ID, a.OrganizationID),
		AfeID:           a.ID,
		AfeNumber:       a.AfeNumber,
		WellID:          a.WellID,
		WellName:        a.WellName,
		Category:        a.Category,
		EstimatedCost:   a.EstimatedCost.Amount(),
		Currency:        a.EstimatedCost.Currency().String(),
	}
}

// AfeEstimateRevisedEvent is raised when a draft AFE's estimated cost
// or description is revised
type AfeEstimateRevisedEvent struct {
	shared.BaseDomainEvent
	AfeID            uuid.UUID       `json:"afe_id"`
	AfeNumber        string          `json:"afe_number"`
	WellID           uuid.UUID       `json:"well_id"`
	PreviousEstimate decimal.Decimal `json:"previous_estimate"`
	EstimatedCost    decimal.Decimal `json:"estimated_cost"`
	Currency         string          `json:"currency"`
}

// EventType returns the event type name
func (e *AfeEstimateRevisedEvent) EventType() string {
	return "AfeEstimateRevised"
}

// NewAfeEstimateRevisedEvent creates a new AfeEstimateRevisedEvent
func NewAfeEstimateRevisedEvent(a *Afe, previous valueobject.Money) *AfeEstimateRevisedEvent {
	return &AfeEstimateRevisedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("AfeEstimateRevised", "Afe", a.ID, a.OrganizationID),
		AfeID:            a.ID,
		AfeNumber:        a.AfeNumber,
		WellID:           a.WellID,
		PreviousEstimate: previous.Amount(),
		EstimatedCost:    a.EstimatedCost.Amount(),
		Currency:         a.EstimatedCost.Currency().String(),
	}
}

// AfeSubmittedEvent is raised when an AFE is submitted for approval
type AfeSubmittedEvent struct {
	shared.BaseDomainEvent
	AfeID            uuid.UUID       `json:"afe_id"`
	AfeNumber        string          `json:"afe_number"`
	WellID           uuid.UUID       `json:"well_id"`
	EstimatedCost    decimal.Decimal `json:"estimated_cost"`
	Currency         string          `json:"currency"`
	SubmittedAt      time.Time       `json:"submitted_at"`
	ApprovalDeadline time.Time       `json:"approval_deadline"`
}

// EventType returns the event type name
func (e *AfeSubmittedEvent) EventType() string {
	return "AfeSubmitted"
}

// NewAfeSubmittedEvent creates a new AfeSubmittedEvent
func NewAfeSubmittedEvent(a *Afe) *AfeSubmittedEvent {
	submittedAt := time.Now()
	if a.SubmittedAt != nil {
		submittedAt = *a.SubmittedAt
	}
	return &AfeSubmittedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("AfeSubmitted", "Afe", a.ID, a.OrganizationID),
		AfeID:            a.ID,
		AfeNumber:        a.AfeNumber,
		WellID:           a.WellID,
		EstimatedCost:    a.EstimatedCost.Amount(),
		Currency:         a.EstimatedCost.Currency().String(),
		SubmittedAt:      submittedAt,
		ApprovalDeadline: a.ApprovalDeadline(),
	}
}

// AfeApprovedEvent is raised when an AFE reaches partner consensus
type AfeApprovedEvent struct {
	shared.BaseDomainEvent
	AfeID          uuid.UUID       `json:"afe_id"`
	AfeNumber      string          `json:"afe_number"`
	WellID         uuid.UUID       `json:"well_id"`
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	Currency       string          `json:"currency"`
	ApprovedAt     time.Time       `json:"approved_at"`
}

// EventType returns the event type name
func (e *AfeApprovedEvent) EventType() string {
	return "AfeApproved"
}

// NewAfeApprovedEvent creates a new AfeApprovedEvent
func NewAfeApprovedEvent(a *Afe) *AfeApprovedEvent {
	approvedAt := time.Now()
	if a.ApprovedAt != nil {
		approvedAt = *a.ApprovedAt
	}
	amount := a.EstimatedCost
	if a.ApprovedAmount != nil {
		amount = *a.ApprovedAmount
	}
	return &AfeApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AfeApproved", "Afe", a.ID, a.OrganizationID),
		AfeID:           a.ID,
		AfeNumber:       a.AfeNumber,
		WellID:          a.WellID,
		ApprovedAmount:  amount.Amount(),
		Currency:        amount.Currency().String(),
		ApprovedAt:      approvedAt,
	}
}

// AfeRejectedEvent is raised when an AFE is rejected by partners
type AfeRejectedEvent struct {
	shared.BaseDomainEvent
	AfeID           uuid.UUID `json:"afe_id"`
	AfeNumber       string    `json:"afe_number"`
	WellID          uuid.UUID `json:"well_id"`
	RejectionReason string    `json:"rejection_reason"`
	RejectedAt      time.Time `json:"rejected_at"`
}

// EventType returns the event type name
func (e *AfeRejectedEvent) EventType() string {
	return "AfeRejected"
}

// NewAfeRejectedEvent creates a new AfeRejectedEvent
func NewAfeRejectedEvent(a *Afe) *AfeRejectedEvent {
	rejectedAt := time.Now()
	if a.RejectedAt != nil {
		rejectedAt = *a.RejectedAt
	}
	return &AfeRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AfeRejected", "Afe", a.ID, a.OrganizationID),
		AfeID:           a.ID,
		AfeNumber:       a.AfeNumber,
		WellID:          a.WellID,
		RejectionReason: a.RejectionReason,
		RejectedAt:      rejectedAt,
	}
}

// AfeClosedEvent is raised when an approved AFE is closed out
type AfeClosedEvent struct {
	shared.BaseDomainEvent
	AfeID     uuid.UUID `json:"afe_id"`
	AfeNumber string    `json:"afe_number"`
	WellID    uuid.UUID `json:"well_id"`
	ClosedAt  time.Time `json:"closed_at"`
}

// EventType returns the event type name
func (e *AfeClosedEvent) EventType() string {
	return "AfeClosed"
}

// NewAfeClosedEvent creates a new AfeClosedEvent
func NewAfeClosedEvent(a *Afe) *AfeClosedEvent {
	closedAt := time.Now()
	if a.ClosedAt != nil {
		closedAt = *a.ClosedAt
	}
	return &AfeClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AfeClosed", "Afe", a.ID, a.OrganizationID),
		AfeID:           a.ID,
		AfeNumber:       a.AfeNumber,
		WellID:          a.WellID,
		ClosedAt:        closedAt,
	}
}

// PartnerApprovalRecordedEvent is raised when a partner submits an
// approval decision for an AFE
type PartnerApprovalRecordedEvent struct {
	shared.BaseDomainEvent
	ApprovalID     uuid.UUID        `json:"approval_id"`
	AfeID          uuid.UUID        `json:"afe_id"`
	PartnerID      uuid.UUID        `json:"partner_id"`
	Status         ApprovalStatus   `json:"status"`
	ApprovedAmount *decimal.Decimal `json:"approved_amount,omitempty"`
}

// EventType returns the event type name
func (e *PartnerApprovalRecordedEvent) EventType() string {
	return "PartnerApprovalRecorded"
}

// NewPartnerApprovalRecordedEvent creates a new PartnerApprovalRecordedEvent
func NewPartnerApprovalRecordedEvent(pa *PartnerApproval) *PartnerApprovalRecordedEvent {
	e := &PartnerApprovalRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PartnerApprovalRecorded", "PartnerApproval", pa.ID, pa.OrganizationID),
		ApprovalID:      pa.ID,
		AfeID:           pa.AfeID,
		PartnerID:       pa.PartnerID,
		Status:          pa.Status,
	}
	if pa.ApprovedAmount != nil {
		amount := pa.ApprovedAmount.Amount()
		e.ApprovedAmount = &amount
	}
	return e
}
