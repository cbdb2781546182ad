package partner

import (
	"fmt"
	"net/mail"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/shared"
)

// PartnerStatus represents the status of a working-interest partner
type PartnerStatus string

const (
	PartnerStatusActive   PartnerStatus = "ACTIVE"
	PartnerStatusInactive PartnerStatus = "INACTIVE"
)

// IsValid checks if the status is a valid PartnerStatus
func (s PartnerStatus) IsValid() bool {
	switch s {
	case PartnerStatusActive, PartnerStatusInactive:
		return true
	}
	return false
}

// String returns the string representation of PartnerStatus
func (s PartnerStatus) String() string {
	return string(s)
}

// Partner represents a working-interest owner that participates in
// AFE approvals and revenue distributions. The partner's per-well
// ownership lives in WellInterest assignments, not here.
type Partner struct {
	shared.OrganizationAggregateRoot
	Name         string        `json:"name"`
	Code         string        `json:"code"`
	ContactName  string        `json:"contact_name,omitempty"`
	ContactEmail string        `json:"contact_email,omitempty"`
	Status       PartnerStatus `json:"status"`
	Remark       string        `json:"remark,omitempty"`
}

// NewPartner creates a new active partner
func NewPartner(
	organizationID uuid.UUID,
	name string,
	code string,
	contactName string,
	contactEmail string,
) (*Partner, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PARTNER_NAME", "Partner name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_PARTNER_NAME", "Partner name cannot exceed 200 characters")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_PARTNER_CODE", "Partner code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_PARTNER_CODE", "Partner code cannot exceed 50 characters")
	}
	if contactEmail != "" {
		if _, err := mail.ParseAddress(contactEmail); err != nil {
			return nil, shared.NewDomainError("INVALID_EMAIL",
				fmt.Sprintf("Contact email %s is not valid", contactEmail))
		}
	}

	p := &Partner{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		Name:                      name,
		Code:                      code,
		ContactName:               contactName,
		ContactEmail:              contactEmail,
		Status:                    PartnerStatusActive,
	}

	p.AddDomainEvent(NewPartnerCreatedEvent(p))

	return p, nil
}

// UpdateContact updates the partner's contact information
func (p *Partner) UpdateContact(contactName, contactEmail string) error {
	if contactEmail != "" {
		if _, err := mail.ParseAddress(contactEmail); err != nil {
			return shared.NewDomainError("INVALID_EMAIL",
				fmt.Sprintf("Contact email %s is not valid", contactEmail))
		}
	}

	p.ContactName = contactName
	p.ContactEmail = contactEmail
	p.Touch()
	p.IncrementVersion()

	return nil
}

// Deactivate marks the partner inactive. Inactive partners keep their
// historical interest assignments but cannot receive new ones.
func (p *Partner) Deactivate() error {
	if p.Status == PartnerStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Partner is already inactive")
	}

	p.Status = PartnerStatusInactive
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewPartnerDeactivatedEvent(p))

	return nil
}

// Activate reactivates an inactive partner
func (p *Partner) Activate() error {
	if p.Status == PartnerStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Partner is already active")
	}

	p.Status = PartnerStatusActive
	p.Touch()
	p.IncrementVersion()

	return nil
}

// IsActive returns true if the partner can receive new assignments
func (p *Partner) IsActive() bool {
	return p.Status == PartnerStatusActive
}
