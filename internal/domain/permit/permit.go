package permit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/shared"
)

// PermitStatus represents the status of a regulatory permit
type PermitStatus string

const (
	PermitStatusDraft    PermitStatus = "DRAFT"    // Application being prepared
	PermitStatusFiled    PermitStatus = "FILED"    // Submitted to the agency
	PermitStatusApproved PermitStatus = "APPROVED" // Granted with an expiration date
	PermitStatusDenied   PermitStatus = "DENIED"   // Rejected by the agency
	PermitStatusExpired  PermitStatus = "EXPIRED"  // Approval lapsed
)

// IsValid checks if the status is a valid PermitStatus
func (s PermitStatus) IsValid() bool {
	switch s {
	case PermitStatusDraft, PermitStatusFiled, PermitStatusApproved,
		PermitStatusDenied, PermitStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of PermitStatus
func (s PermitStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the permit is in a terminal state
func (s PermitStatus) IsTerminal() bool {
	return s == PermitStatusDenied || s == PermitStatusExpired
}

// CanTransitionTo checks if the status can transition to the target status
func (s PermitStatus) CanTransitionTo(target PermitStatus) bool {
	switch s {
	case PermitStatusDraft:
		return target == PermitStatusFiled
	case PermitStatusFiled:
		return target == PermitStatusApproved || target == PermitStatusDenied
	case PermitStatusApproved:
		return target == PermitStatusExpired
	case PermitStatusDenied, PermitStatusExpired:
		return false // Terminal states
	}
	return false
}

// PermitType classifies the regulatory approval being sought
type PermitType string

const (
	PermitTypeDrilling PermitType = "DRILLING"
	PermitTypeDisposal PermitType = "DISPOSAL"
	PermitTypeFlaring  PermitType = "FLARING"
	PermitTypeSeismic  PermitType = "SEISMIC"
	PermitTypePipeline PermitType = "PIPELINE"
)

// IsValid checks if the type is valid
func (t PermitType) IsValid() bool {
	switch t {
	case PermitTypeDrilling, PermitTypeDisposal, PermitTypeFlaring,
		PermitTypeSeismic, PermitTypePipeline:
		return true
	}
	return false
}

// Permit tracks one regulatory permit application from draft through
// agency decision to expiration.
type Permit struct {
	shared.OrganizationAggregateRoot
	WellID         uuid.UUID    `json:"well_id"`
	WellName       string       `json:"well_name"`
	Type           PermitType   `json:"type"`
	Agency         string       `json:"agency"`
	PermitNumber   string       `json:"permit_number,omitempty"`
	Status         PermitStatus `json:"status"`
	FiledAt        *time.Time   `json:"filed_at,omitempty"`
	ApprovedAt     *time.Time   `json:"approved_at,omitempty"`
	DeniedAt       *time.Time   `json:"denied_at,omitempty"`
	ExpiredAt      *time.Time   `json:"expired_at,omitempty"`
	ExpirationDate *time.Time   `json:"expiration_date,omitempty"`
	DenialReason   string       `json:"denial_reason,omitempty"`
}

// NewPermit creates a new permit application in DRAFT status
func NewPermit(
	organizationID uuid.UUID,
	wellID uuid.UUID,
	wellName string,
	permitType PermitType,
	agency string,
) (*Permit, error) {
	if wellID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WELL", "Well ID cannot be empty")
	}
	if wellName == "" {
		return nil, shared.NewDomainError("INVALID_WELL_NAME", "Well name cannot be empty")
	}
	if !permitType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PERMIT_TYPE",
			fmt.Sprintf("Permit type %s is not valid", permitType))
	}
	if agency == "" {
		return nil, shared.NewDomainError("INVALID_AGENCY", "Agency cannot be empty")
	}

	p := &Permit{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		WellID:                    wellID,
		WellName:                  wellName,
		Type:                      permitType,
		Agency:                    agency,
		Status:                    PermitStatusDraft,
	}

	p.AddDomainEvent(NewPermitCreatedEvent(p))

	return p, nil
}

// File submits the application to the agency, transitioning from DRAFT
// to FILED. The agency's permit number is required.
func (p *Permit) File(permitNumber string) error {
	if !p.Status.CanTransitionTo(PermitStatusFiled) {
		return shared.NewInvalidTransitionError("Permit", p.Status.String(), PermitStatusFiled.String())
	}
	if permitNumber == "" {
		return shared.NewDomainError("INVALID_PERMIT_NUMBER", "Permit number is required to file")
	}

	now := time.Now()
	previous := p.Status
	p.Status = PermitStatusFiled
	p.PermitNumber = permitNumber
	p.FiledAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(shared.NewStatusChangedEvent("Permit", p.ID, p.OrganizationID, previous.String(), p.Status.String()))
	p.AddDomainEvent(NewPermitFiledEvent(p))

	return nil
}

// Approve records the agency's approval, transitioning from FILED to
// APPROVED. An expiration date in the future is required.
func (p *Permit) Approve(expirationDate time.Time) error {
	if !p.Status.CanTransitionTo(PermitStatusApproved) {
		return shared.NewInvalidTransitionError("Permit", p.Status.String(), PermitStatusApproved.String())
	}

	now := time.Now()
	if !expirationDate.After(now) {
		return shared.NewDomainError("INVALID_EXPIRATION", "Expiration date must be in the future")
	}

	previous := p.Status
	p.Status = PermitStatusApproved
	p.ExpirationDate = &expirationDate
	p.ApprovedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(shared.NewStatusChangedEvent("Permit", p.ID, p.OrganizationID, previous.String(), p.Status.String()))
	p.AddDomainEvent(NewPermitApprovedEvent(p))

	return nil
}

// Deny records the agency's denial, transitioning from FILED to DENIED.
// A reason is required.
func (p *Permit) Deny(reason string) error {
	if !p.Status.CanTransitionTo(PermitStatusDenied) {
		return shared.NewInvalidTransitionError("Permit", p.Status.String(), PermitStatusDenied.String())
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Denial reason is required")
	}

	now := time.Now()
	previous := p.Status
	p.Status = PermitStatusDenied
	p.DenialReason = reason
	p.DeniedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(shared.NewStatusChangedEvent("Permit", p.ID, p.OrganizationID, previous.String(), p.Status.String()))
	p.AddDomainEvent(NewPermitDeniedEvent(p))

	return nil
}

// Expire marks an approved permit lapsed, transitioning from APPROVED
// to EXPIRED. Only valid once the expiration date has passed.
func (p *Permit) Expire(now time.Time) error {
	if !p.Status.CanTransitionTo(PermitStatusExpired) {
		return shared.NewInvalidTransitionError("Permit", p.Status.String(), PermitStatusExpired.String())
	}
	if p.ExpirationDate == nil || now.Before(*p.ExpirationDate) {
		return shared.NewDomainError("NOT_YET_EXPIRED", "Permit has not reached its expiration date")
	}

	previous := p.Status
	p.Status = PermitStatusExpired
	p.ExpiredAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(shared.NewStatusChangedEvent("Permit", p.ID, p.OrganizationID, previous.String(), p.Status.String()))
	p.AddDomainEvent(NewPermitExpiredEvent(p))

	return nil
}

// IsExpiredAsOf reports whether an approved permit's expiration date
// has passed without the aggregate having been transitioned yet.
func (p *Permit) IsExpiredAsOf(now time.Time) bool {
	if p.Status != PermitStatusApproved || p.ExpirationDate == nil {
		return false
	}
	return !now.Before(*p.ExpirationDate)
}
