package afe

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/domain/shared/valueobject"
)

// ApprovalStatus represents a partner's decision on an AFE
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
)

// IsValid checks if the status is a valid ApprovalStatus
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ApprovalStatus
func (s ApprovalStatus) String() string {
	return string(s)
}

// IsCompleted returns true if the partner has responded
func (s ApprovalStatus) IsCompleted() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected
}

// PartnerApproval records a single working-interest partner's decision
// on a submitted AFE. One record per partner per AFE.
type PartnerApproval struct {
	shared.OrganizationAggregateRoot
	AfeID          uuid.UUID                   `json:"afe_id"`
	PartnerID      uuid.UUID                   `json:"partner_id"`
	PartnerName    string                      `json:"partner_name"`
	Interest       valueobject.WorkingInterest `json:"working_interest"`
	Status         ApprovalStatus              `json:"status"`
	ApprovedAmount *valueobject.Money          `json:"approved_amount,omitempty"`
	Comments       string                      `json:"comments,omitempty"`
	RespondedAt    *time.Time                  `json:"responded_at,omitempty"`
}

// NewPartnerApproval records a partner's decision on an AFE. The
// decision must be a completed status; pending records are implicit in
// the roster and never stored.
func NewPartnerApproval(
	organizationID uuid.UUID,
	afeID uuid.UUID,
	partnerID uuid.UUID,
	partnerName string,
	interest valueobject.WorkingInterest,
	status ApprovalStatus,
	approvedAmount *valueobject.Money,
	comments string,
) (*PartnerApproval, error) {
	if afeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AFE", "AFE ID cannot be empty")
	}
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_APPROVAL_STATUS",
			fmt.Sprintf("Approval status %s is not valid", status))
	}
	if !status.IsCompleted() {
		return nil, shared.NewDomainError("INVALID_APPROVAL_STATUS", "Approval decision is required")
	}
	if status == ApprovalStatusRejected && comments == "" {
		return nil, shared.NewDomainError("INVALID_COMMENTS", "Rejection requires a comment explaining the reason")
	}

	now := time.Now()
	pa := &PartnerApproval{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		AfeID:                     afeID,
		PartnerID:                 partnerID,
		PartnerName:               partnerName,
		Interest:                  interest,
		Status:                    status,
		ApprovedAmount:            approvedAmount,
		Comments:                  comments,
		RespondedAt:               &now,
	}

	pa.AddDomainEvent(NewPartnerApprovalRecordedEvent(pa))

	return pa, nil
}

// IsApproved returns true if the partner approved
func (pa *PartnerApproval) IsApproved() bool {
	return pa.Status == ApprovalStatusApproved
}

// IsRejected returns true if the partner rejected
func (pa *PartnerApproval) IsRejected() bool {
	return pa.Status == ApprovalStatusRejected
}
