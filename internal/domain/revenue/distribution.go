package revenue

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/domain/shared/valueobject"
)

// DistributionStatus represents the status of a revenue distribution
type DistributionStatus string

const (
	DistributionStatusPending     DistributionStatus = "PENDING"     // Revenue received, split not yet computed
	DistributionStatusCalculated  DistributionStatus = "CALCULATED"  // Per-partner lines computed
	DistributionStatusDistributed DistributionStatus = "DISTRIBUTED" // Payments issued to partners
	DistributionStatusVoided      DistributionStatus = "VOIDED"      // Cancelled before calculation
)

// IsValid checks if the status is a valid DistributionStatus
func (s DistributionStatus) IsValid() bool {
	switch s {
	case DistributionStatusPending, DistributionStatusCalculated,
		DistributionStatusDistributed, DistributionStatusVoided:
		return true
	}
	return false
}

// String returns the string representation of DistributionStatus
func (s DistributionStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the distribution is in a terminal state
func (s DistributionStatus) IsTerminal() bool {
	return s == DistributionStatusDistributed || s == DistributionStatusVoided
}

// CanTransitionTo checks if the status can transition to the target status
func (s DistributionStatus) CanTransitionTo(target DistributionStatus) bool {
	switch s {
	case DistributionStatusPending:
		return target == DistributionStatusCalculated || target == DistributionStatusVoided
	case DistributionStatusCalculated:
		return target == DistributionStatusDistributed
	case DistributionStatusDistributed, DistributionStatusVoided:
		return false // Terminal states
	}
	return false
}

// PartnerShare is a roster entry used to compute a distribution: one
// partner's working interest in the well for the period.
type PartnerShare struct {
	PartnerID   uuid.UUID
	PartnerName string
	Interest    valueobject.WorkingInterest
}

// DistributionLine is one partner's share of a distribution, computed
// by scaling the well revenue by the partner's working interest.
type DistributionLine struct {
	ID             uuid.UUID                   `json:"id"`
	DistributionID uuid.UUID                   `json:"distribution_id"`
	PartnerID      uuid.UUID                   `json:"partner_id"`
	PartnerName    string                      `json:"partner_name"`
	Interest       valueobject.WorkingInterest `json:"working_interest"`
	Amount         valueobject.RevenueAmount   `json:"amount"`
}

// RevenueDistribution splits one well's revenue for one production
// month across its working-interest partners.
type RevenueDistribution struct {
	shared.OrganizationAggregateRoot
	WellID        uuid.UUID                 `json:"well_id"`
	WellName      string                    `json:"well_name"`
	PeriodYear    int                       `json:"period_year"`
	PeriodMonth   int                       `json:"period_month"`
	WellRevenue   valueobject.RevenueAmount `json:"well_revenue"`
	Status        DistributionStatus        `json:"status"`
	Lines         []DistributionLine        `json:"lines,omitempty"`
	CalculatedAt  *time.Time                `json:"calculated_at,omitempty"`
	DistributedAt *time.Time                `json:"distributed_at,omitempty"`
	VoidedAt      *time.Time                `json:"voided_at,omitempty"`
	VoidReason    string                    `json:"void_reason,omitempty"`
}

// NewRevenueDistribution creates a new distribution in PENDING status
func NewRevenueDistribution(
	organizationID uuid.UUID,
	wellID uuid.UUID,
	wellName string,
	periodYear int,
	periodMonth int,
	wellRevenue valueobject.RevenueAmount,
) (*RevenueDistribution, error) {
	if wellID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WELL", "Well ID cannot be empty")
	}
	if wellName == "" {
		return nil, shared.NewDomainError("INVALID_WELL_NAME", "Well name cannot be empty")
	}
	if periodYear < 1900 || periodYear > 2200 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period year is out of range")
	}
	if periodMonth < 1 || periodMonth > 12 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period month must be between 1 and 12")
	}

	d := &RevenueDistribution{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		WellID:                    wellID,
		WellName:                  wellName,
		PeriodYear:                periodYear,
		PeriodMonth:               periodMonth,
		WellRevenue:               wellRevenue,
		Status:                    DistributionStatusPending,
	}

	d.AddDomainEvent(NewDistributionCreatedEvent(d))

	return d, nil
}

// Calculate computes per-partner lines from the roster by scaling the
// well revenue by each partner's working interest, transitioning from
// PENDING to CALCULATED. The roster must be non-empty.
func (d *RevenueDistribution) Calculate(roster []PartnerShare) error {
	if !d.Status.CanTransitionTo(DistributionStatusCalculated) {
		return shared.NewInvalidTransitionError("RevenueDistribution", d.Status.String(), DistributionStatusCalculated.String())
	}
	if len(roster) == 0 {
		return shared.NewDomainError("EMPTY_ROSTER", "Cannot calculate a distribution without partners")
	}

	lines := make([]DistributionLine, 0, len(roster))
	for _, share := range roster {
		amount, err := d.WellRevenue.ApplyDecimalInterest(share.Interest.Fraction())
		if err != nil {
			return fmt.Errorf("apply interest for partner %s: %w", share.PartnerID, err)
		}
		lines = append(lines, DistributionLine{
			ID:             uuid.New(),
			DistributionID: d.ID,
			PartnerID:      share.PartnerID,
			PartnerName:    share.PartnerName,
			Interest:       share.Interest,
			Amount:         amount,
		})
	}

	now := time.Now()
	previous := d.Status
	d.Status = DistributionStatusCalculated
	d.Lines = lines
	d.CalculatedAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(shared.NewStatusChangedEvent("RevenueDistribution", d.ID, d.OrganizationID, previous.String(), d.Status.String()))
	d.AddDomainEvent(NewDistributionCalculatedEvent(d))

	return nil
}

// Distribute marks the distribution as paid out, transitioning from
// CALCULATED to DISTRIBUTED.
func (d *RevenueDistribution) Distribute() error {
	if !d.Status.CanTransitionTo(DistributionStatusDistributed) {
		return shared.NewInvalidTransitionError("RevenueDistribution", d.Status.String(), DistributionStatusDistributed.String())
	}

	now := time.Now()
	previous := d.Status
	d.Status = DistributionStatusDistributed
	d.DistributedAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(shared.NewStatusChangedEvent("RevenueDistribution", d.ID, d.OrganizationID, previous.String(), d.Status.String()))
	d.AddDomainEvent(NewDistributionDistributedEvent(d))

	return nil
}

// Void cancels a pending distribution before any lines are computed.
// A reason is required.
func (d *RevenueDistribution) Void(reason string) error {
	if !d.Status.CanTransitionTo(DistributionStatusVoided) {
		return shared.NewInvalidTransitionError("RevenueDistribution", d.Status.String(), DistributionStatusVoided.String())
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}

	now := time.Now()
	previous := d.Status
	d.Status = DistributionStatusVoided
	d.VoidReason = reason
	d.VoidedAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(shared.NewStatusChangedEvent("RevenueDistribution", d.ID, d.OrganizationID, previous.String(), d.Status.String()))
	d.AddDomainEvent(NewDistributionVoidedEvent(d))

	return nil
}

// UndistributedRemainder returns the portion of the well revenue not
// covered by the computed lines, which is non-zero when the roster's
// combined interest is below 100% or cent rounding leaves a residue.
func (d *RevenueDistribution) UndistributedRemainder() (valueobject.RevenueAmount, error) {
	remainder := d.WellRevenue
	for _, line := range d.Lines {
		next, err := remainder.Subtract(line.Amount)
		if err != nil {
			return valueobject.RevenueAmount{}, err
		}
		remainder = next
	}
	return remainder, nil
}

// Period returns the production period formatted as YYYY-MM
func (d *RevenueDistribution) Period() string {
	return fmt.Sprintf("%04d-%02d", d.PeriodYear, d.PeriodMonth)
}
