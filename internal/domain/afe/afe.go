package afe

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/domain/shared/valueobject"
)

// AfeStatus represents the status of an authorization for expenditure
type AfeStatus string

const (
	AfeStatusDraft     AfeStatus = "DRAFT"     // Being prepared, freely editable
	AfeStatusSubmitted AfeStatus = "SUBMITTED" // Awaiting partner approval
	AfeStatusApproved  AfeStatus = "APPROVED"  // Partner consensus reached
	AfeStatusRejected  AfeStatus = "REJECTED"  // Rejected by partners
	AfeStatusClosed    AfeStatus = "CLOSED"    // Work complete, costs reconciled
)

// IsValid checks if the status is a valid AfeStatus
func (s AfeStatus) IsValid() bool {
	switch s {
	case AfeStatusDraft, AfeStatusSubmitted, AfeStatusApproved,
		AfeStatusRejected, AfeStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of AfeStatus
func (s AfeStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the AFE is in a terminal state
func (s AfeStatus) IsTerminal() bool {
	return s == AfeStatusRejected || s == AfeStatusClosed
}

// CanTransitionTo checks if the status can transition to the target status
func (s AfeStatus) CanTransitionTo(target AfeStatus) bool {
	switch s {
	case AfeStatusDraft:
		return target == AfeStatusSubmitted
	case AfeStatusSubmitted:
		return target == AfeStatusApproved || target == AfeStatusRejected
	case AfeStatusApproved:
		return target == AfeStatusClosed
	case AfeStatusRejected, AfeStatusClosed:
		return false // Terminal states
	}
	return false
}

// AfeCategory represents the kind of work an AFE authorizes
type AfeCategory string

const (
	AfeCategoryDrilling   AfeCategory = "DRILLING"
	AfeCategoryCompletion AfeCategory = "COMPLETION"
	AfeCategoryWorkover   AfeCategory = "WORKOVER"
	AfeCategoryFacility   AfeCategory = "FACILITY"
	AfeCategoryPlugging   AfeCategory = "PLUGGING"
)

// IsValid checks if the category is valid
func (c AfeCategory) IsValid() bool {
	switch c {
	case AfeCategoryDrilling, AfeCategoryCompletion, AfeCategoryWorkover,
		AfeCategoryFacility, AfeCategoryPlugging:
		return true
	}
	return false
}

// Afe represents an authorization for expenditure aggregate root.
// It tracks a cost approval request for well work that requires
// working-interest partner consent above the approval threshold.
type Afe struct {
	shared.OrganizationAggregateRoot
	AfeNumber       string             `json:"afe_number"`
	WellID          uuid.UUID          `json:"well_id"`
	WellName        string             `json:"well_name"`
	Category        AfeCategory        `json:"category"`
	Description     string             `json:"description"`
	EstimatedCost   valueobject.Money  `json:"estimated_cost"`
	ApprovedAmount  *valueobject.Money `json:"approved_amount,omitempty"`
	Status          AfeStatus          `json:"status"`
	SubmittedAt     *time.Time         `json:"submitted_at,omitempty"`
	ApprovedAt      *time.Time         `json:"approved_at,omitempty"`
	RejectedAt      *time.Time         `json:"rejected_at,omitempty"`
	ClosedAt        *time.Time         `json:"closed_at,omitempty"`
	RejectionReason string             `json:"rejection_reason,omitempty"`
	Remark          string             `json:"remark,omitempty"`
}

// NewAfe creates a new AFE in DRAFT status
func NewAfe(
	organizationID uuid.UUID,
	afeNumber string,
	wellID uuid.UUID,
	wellName string,
	category AfeCategory,
	description string,
	estimatedCost valueobject.Money,
) (*Afe, error) {
	if afeNumber == "" {
		return nil, shared.NewDomainError("INVALID_AFE_NUMBER", "AFE number cannot be empty")
	}
	if len(afeNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_AFE_NUMBER", "AFE number cannot exceed 50 characters")
	}
	if wellID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WELL", "Well ID cannot be empty")
	}
	if wellName == "" {
		return nil, shared.NewDomainError("INVALID_WELL_NAME", "Well name cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "AFE category is not valid")
	}
	if estimatedCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Estimated cost cannot be negative")
	}

	a := &Afe{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		AfeNumber:                 afeNumber,
		WellID:                    wellID,
		WellName:                  wellName,
		Category:                  category,
		Description:               description,
		EstimatedCost:             estimatedCost,
		Status:                    AfeStatusDraft,
	}

	a.AddDomainEvent(NewAfeCreatedEvent(a))

	return a, nil
}

// UpdateEstimate updates the estimated cost and description.
// Only allowed while the AFE is still in DRAFT.
func (a *Afe) UpdateEstimate(estimatedCost valueobject.Money, description string) error {
	if a.Status != AfeStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot update estimate for AFE in %s status", a.Status))
	}
	if estimatedCost.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Estimated cost cannot be negative")
	}

	previous := a.EstimatedCost
	a.EstimatedCost = estimatedCost
	a.Description = description
	a.Touch()
	a.IncrementVersion()

	a.AddDomainEvent(NewAfeEstimateRevisedEvent(a, previous))

	return nil
}

// Submit submits the AFE for partner approval, transitioning from DRAFT
// to SUBMITTED. Requires a positive estimated cost and a non-empty
// description.
func (a *Afe) Submit() error {
	if !a.Status.CanTransitionTo(AfeStatusSubmitted) {
		return shared.NewInvalidTransitionError("Afe", a.Status.String(), AfeStatusSubmitted.String())
	}
	if !a.EstimatedCost.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Estimated cost must be positive to submit")
	}
	if a.Description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description is required to submit")
	}

	now := time.Now()
	previous := a.Status
	a.Status = AfeStatusSubmitted
	a.SubmittedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(shared.NewStatusChangedEvent("Afe", a.ID, a.OrganizationID, previous.String(), a.Status.String()))
	a.AddDomainEvent(NewAfeSubmittedEvent(a))

	return nil
}

// Approve approves the AFE, transitioning from SUBMITTED to APPROVED.
// The approved amount defaults to the estimated cost when nil. The
// caller is responsible for establishing partner consensus through the
// approval workflow before invoking this.
func (a *Afe) Approve(approvedAmount *valueobject.Money) error {
	if !a.Status.CanTransitionTo(AfeStatusApproved) {
		return shared.NewInvalidTransitionError("Afe", a.Status.String(), AfeStatusApproved.String())
	}

	amount := a.EstimatedCost
	if approvedAmount != nil {
		if approvedAmount.Currency() != a.EstimatedCost.Currency() {
			return shared.NewDomainError("CURRENCY_MISMATCH",
				fmt.Sprintf("Approved amount currency %s does not match estimated cost currency %s",
					approvedAmount.Currency(), a.EstimatedCost.Currency()))
		}
		if !approvedAmount.IsPositive() {
			return shared.NewDomainError("INVALID_AMOUNT", "Approved amount must be positive")
		}
		amount = *approvedAmount
	}

	now := time.Now()
	previous := a.Status
	a.Status = AfeStatusApproved
	a.ApprovedAmount = &amount
	a.ApprovedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(shared.NewStatusChangedEvent("Afe", a.ID, a.OrganizationID, previous.String(), a.Status.String()))
	a.AddDomainEvent(NewAfeApprovedEvent(a))

	return nil
}

// Reject rejects the AFE, transitioning from SUBMITTED to REJECTED.
// A reason is required.
func (a *Afe) Reject(reason string) error {
	if !a.Status.CanTransitionTo(AfeStatusRejected) {
		return shared.NewInvalidTransitionError("Afe", a.Status.String(), AfeStatusRejected.String())
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}

	now := time.Now()
	previous := a.Status
	a.Status = AfeStatusRejected
	a.RejectionReason = reason
	a.RejectedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(shared.NewStatusChangedEvent("Afe", a.ID, a.OrganizationID, previous.String(), a.Status.String()))
	a.AddDomainEvent(NewAfeRejectedEvent(a))

	return nil
}

// Close closes the AFE, transitioning from APPROVED to CLOSED.
// AFEs are never deleted, only terminally closed.
func (a *Afe) Close() error {
	if !a.Status.CanTransitionTo(AfeStatusClosed) {
		return shared.NewInvalidTransitionError("Afe", a.Status.String(), AfeStatusClosed.String())
	}

	now := time.Now()
	previous := a.Status
	a.Status = AfeStatusClosed
	a.ClosedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(shared.NewStatusChangedEvent("Afe", a.ID, a.OrganizationID, previous.String(), a.Status.String()))
	a.AddDomainEvent(NewAfeClosedEvent(a))

	return nil
}

// ApprovalDeadline returns the end of the approval window, exactly 30
// calendar days from AFE creation.
func (a *Afe) ApprovalDeadline() time.Time {
	return a.CreatedAt.AddDate(0, 0, approvalWindowDays)
}

// IsApprovalOverdue reports whether the approval window has elapsed
// without the AFE reaching a terminal approval decision. Escalation is
// the caller's responsibility.
func (a *Afe) IsApprovalOverdue(now time.Time) bool {
	if a.Status != AfeStatusSubmitted {
		return false
	}
	return now.After(a.ApprovalDeadline())
}
