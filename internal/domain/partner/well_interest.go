package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/domain/shared/valueobject"
)

// WellInterest assigns a partner's working interest in a single well.
// The set of assignments for a well forms the roster the approval
// workflow and revenue distribution read from.
type WellInterest struct {
	shared.OrganizationAggregateRoot
	WellID        uuid.UUID                   `json:"well_id"`
	WellName      string                      `json:"well_name"`
	PartnerID     uuid.UUID                   `json:"partner_id"`
	PartnerName   string                      `json:"partner_name"`
	Interest      valueobject.WorkingInterest `json:"working_interest"`
	EffectiveDate time.Time                   `json:"effective_date"`
	EndDate       *time.Time                  `json:"end_date,omitempty"`
}

// NewWellInterest creates a new working-interest assignment
func NewWellInterest(
	organizationID uuid.UUID,
	wellID uuid.UUID,
	wellName string,
	partnerID uuid.UUID,
	partnerName string,
	interest valueobject.WorkingInterest,
	effectiveDate time.Time,
) (*WellInterest, error) {
	if wellID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WELL", "Well ID cannot be empty")
	}
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	if interest.IsZero() {
		return nil, shared.NewDomainError("INVALID_INTEREST", "Working interest must be positive")
	}
	if effectiveDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Effective date is required")
	}

	wi := &WellInterest{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		WellID:                    wellID,
		WellName:                  wellName,
		PartnerID:                 partnerID,
		PartnerName:               partnerName,
		Interest:                  interest,
		EffectiveDate:             effectiveDate,
	}

	wi.AddDomainEvent(NewWellInterestAssignedEvent(wi))

	return wi, nil
}

// Terminate ends the assignment as of the given date. Terminated
// assignments drop out of the active roster but stay on record.
func (wi *WellInterest) Terminate(endDate time.Time) error {
	if wi.EndDate != nil {
		return shared.NewDomainError("INVALID_STATE", "Interest assignment is already terminated")
	}
	if endDate.Before(wi.EffectiveDate) {
		return shared.NewDomainError("INVALID_DATE", "End date cannot precede the effective date")
	}

	wi.EndDate = &endDate
	wi.Touch()
	wi.IncrementVersion()

	return nil
}

// IsActiveOn reports whether the assignment covers the given date
func (wi *WellInterest) IsActiveOn(date time.Time) bool {
	if date.Before(wi.EffectiveDate) {
		return false
	}
	if wi.EndDate != nil && date.After(*wi.EndDate) {
		return false
	}
	return true
}

// ValidateRosterTotal checks that the combined working interest of a
// well's assignments does not exceed 100%.
func ValidateRosterTotal(assignments []*WellInterest) error {
	total := decimal.Zero
	for _, wi := range assignments {
		total = total.Add(wi.Interest.Fraction())
	}
	if total.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INTEREST_EXCEEDS_TOTAL",
			"Combined working interest for the well exceeds 100%")
	}
	return nil
}
