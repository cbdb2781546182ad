package title

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/shared"
)

// CurativeStatus represents the status of a title curative item
type CurativeStatus string

const (
	CurativeStatusOpen       CurativeStatus = "OPEN"        // Defect identified, unassigned work
	CurativeStatusInProgress CurativeStatus = "IN_PROGRESS" // Curative work underway
	CurativeStatusResolved   CurativeStatus = "RESOLVED"    // Defect cured
	CurativeStatusWaived     CurativeStatus = "WAIVED"      // Accepted as-is
)

// IsValid checks if the status is a valid CurativeStatus
func (s CurativeStatus) IsValid() bool {
	switch s {
	case CurativeStatusOpen, CurativeStatusInProgress,
		CurativeStatusResolved, CurativeStatusWaived:
		return true
	}
	return false
}

// String returns the string representation of CurativeStatus
func (s CurativeStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the item is in a terminal state
func (s CurativeStatus) IsTerminal() bool {
	return s == CurativeStatusResolved || s == CurativeStatusWaived
}

// CanTransitionTo checks if the status can transition to the target status
func (s CurativeStatus) CanTransitionTo(target CurativeStatus) bool {
	switch s {
	case CurativeStatusOpen:
		return target == CurativeStatusInProgress
	case CurativeStatusInProgress:
		return target == CurativeStatusResolved || target == CurativeStatusWaived
	case CurativeStatusResolved, CurativeStatusWaived:
		return false // Terminal states
	}
	return false
}

// CurativeSeverity ranks how badly a defect clouds title
type CurativeSeverity string

const (
	CurativeSeverityLow      CurativeSeverity = "LOW"
	CurativeSeverityMedium   CurativeSeverity = "MEDIUM"
	CurativeSeverityHigh     CurativeSeverity = "HIGH"
	CurativeSeverityCritical CurativeSeverity = "CRITICAL"
)

// IsValid checks if the severity is valid
func (s CurativeSeverity) IsValid() bool {
	switch s {
	case CurativeSeverityLow, CurativeSeverityMedium,
		CurativeSeverityHigh, CurativeSeverityCritical:
		return true
	}
	return false
}

// CurativeItem tracks one title defect on a lease through curative
// work to resolution or waiver.
type CurativeItem struct {
	shared.OrganizationAggregateRoot
	LeaseID         uuid.UUID        `json:"lease_id"`
	LeaseName       string           `json:"lease_name"`
	DefectType      string           `json:"defect_type"`
	Description     string           `json:"description"`
	Severity        CurativeSeverity `json:"severity"`
	Status          CurativeStatus   `json:"status"`
	AssignedTo      *uuid.UUID       `json:"assigned_to,omitempty"`
	StartedAt       *time.Time       `json:"started_at,omitempty"`
	ResolvedAt      *time.Time       `json:"resolved_at,omitempty"`
	WaivedAt        *time.Time       `json:"waived_at,omitempty"`
	ResolutionNotes string           `json:"resolution_notes,omitempty"`
	WaiverReason    string           `json:"waiver_reason,omitempty"`
}

// NewCurativeItem creates a new item in OPEN status
func NewCurativeItem(
	organizationID uuid.UUID,
	leaseID uuid.UUID,
	leaseName string,
	defectType string,
	description string,
	severity CurativeSeverity,
) (*CurativeItem, error) {
	if leaseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEASE", "Lease ID cannot be empty")
	}
	if leaseName == "" {
		return nil, shared.NewDomainError("INVALID_LEASE_NAME", "Lease name cannot be empty")
	}
	if defectType == "" {
		return nil, shared.NewDomainError("INVALID_DEFECT_TYPE", "Defect type cannot be empty")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Defect description cannot be empty")
	}
	if !severity.IsValid() {
		return nil, shared.NewDomainError("INVALID_SEVERITY",
			fmt.Sprintf("Severity %s is not valid", severity))
	}

	ci := &CurativeItem{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		LeaseID:                   leaseID,
		LeaseName:                 leaseName,
		DefectType:                defectType,
		Description:               description,
		Severity:                  severity,
		Status:                    CurativeStatusOpen,
	}

	ci.AddDomainEvent(NewCurativeItemCreatedEvent(ci))

	return ci, nil
}

// StartWork assigns the item to a landman and begins curative work,
// transitioning from OPEN to IN_PROGRESS.
func (ci *CurativeItem) StartWork(assigneeID uuid.UUID) error {
	if !ci.Status.CanTransitionTo(CurativeStatusInProgress) {
		return shared.NewInvalidTransitionError("CurativeItem", ci.Status.String(), CurativeStatusInProgress.String())
	}
	if assigneeID == uuid.Nil {
		return shared.NewDomainError("INVALID_ASSIGNEE", "Assignee is required to start curative work")
	}

	now := time.Now()
	previous := ci.Status
	ci.Status = CurativeStatusInProgress
	ci.AssignedTo = &assigneeID
	ci.StartedAt = &now
	ci.UpdatedAt = now
	ci.IncrementVersion()

	ci.AddDomainEvent(shared.NewStatusChangedEvent("CurativeItem", ci.ID, ci.OrganizationID, previous.String(), ci.Status.String()))

	return nil
}

// Reassign moves in-progress work to a different landman
func (ci *CurativeItem) Reassign(assigneeID uuid.UUID) error {
	if ci.Status != CurativeStatusInProgress {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot reassign a curative item in %s status", ci.Status))
	}
	if assigneeID == uuid.Nil {
		return shared.NewDomainError("INVALID_ASSIGNEE", "Assignee cannot be empty")
	}

	ci.AssignedTo = &assigneeID
	ci.Touch()
	ci.IncrementVersion()

	return nil
}

// Resolve marks the defect cured, transitioning from IN_PROGRESS to
// RESOLVED. Resolution notes are required.
func (ci *CurativeItem) Resolve(notes string) error {
	if !ci.Status.CanTransitionTo(CurativeStatusResolved) {
		return shared.NewInvalidTransitionError("CurativeItem", ci.Status.String(), CurativeStatusResolved.String())
	}
	if notes == "" {
		return shared.NewDomainError("INVALID_NOTES", "Resolution notes are required")
	}

	now := time.Now()
	previous := ci.Status
	ci.Status = CurativeStatusResolved
	ci.ResolutionNotes = notes
	ci.ResolvedAt = &now
	ci.UpdatedAt = now
	ci.IncrementVersion()

	ci.AddDomainEvent(shared.NewStatusChangedEvent("CurativeItem", ci.ID, ci.OrganizationID, previous.String(), ci.Status.String()))
	ci.AddDomainEvent(NewCurativeItemResolvedEvent(ci))

	return nil
}

// Waive accepts the defect without curing it, transitioning from
// IN_PROGRESS to WAIVED. A reason is required.
func (ci *CurativeItem) Waive(reason string) error {
	if !ci.Status.CanTransitionTo(CurativeStatusWaived) {
		return shared.NewInvalidTransitionError("CurativeItem", ci.Status.String(), CurativeStatusWaived.String())
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Waiver reason is required")
	}

	now := time.Now()
	previous := ci.Status
	ci.Status = CurativeStatusWaived
	ci.WaiverReason = reason
	ci.WaivedAt = &now
	ci.UpdatedAt = now
	ci.IncrementVersion()

	ci.AddDomainEvent(shared.NewStatusChangedEvent("CurativeItem", ci.ID, ci.OrganizationID, previous.String(), ci.Status.String()))
	ci.AddDomainEvent(NewCurativeItemWaivedEvent(ci))

	return nil
}
