package lease

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/domain/shared/valueobject"
)

// StatementStatus represents the status of a lease operating statement
type StatementStatus string

const (
	StatementStatusDraft       StatementStatus = "DRAFT"       // Expense lines being entered
	StatementStatusInReview    StatementStatus = "IN_REVIEW"   // Under accounting review
	StatementStatusFinalized   StatementStatus = "FINALIZED"   // Totals locked
	StatementStatusDistributed StatementStatus = "DISTRIBUTED" // Billed out to partners
)

// IsValid checks if the status is a valid StatementStatus
func (s StatementStatus) IsValid() bool {
	switch s {
	case StatementStatusDraft, StatementStatusInReview,
		StatementStatusFinalized, StatementStatusDistributed:
		return true
	}
	return false
}

// String returns the string representation of StatementStatus
func (s StatementStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the statement is in a terminal state
func (s StatementStatus) IsTerminal() bool {
	return s == StatementStatusDistributed
}

// CanTransitionTo checks if the status can transition to the target status
func (s StatementStatus) CanTransitionTo(target StatementStatus) bool {
	switch s {
	case StatementStatusDraft:
		return target == StatementStatusInReview
	case StatementStatusInReview:
		return target == StatementStatusFinalized
	case StatementStatusFinalized:
		return target == StatementStatusDistributed
	case StatementStatusDistributed:
		return false // Terminal state
	}
	return false
}

// ExpenseCategory classifies a lease operating expense line
type ExpenseCategory string

const (
	ExpenseCategoryPumping       ExpenseCategory = "PUMPING"
	ExpenseCategoryRepairs       ExpenseCategory = "REPAIRS"
	ExpenseCategoryChemicals     ExpenseCategory = "CHEMICALS"
	ExpenseCategoryUtilities     ExpenseCategory = "UTILITIES"
	ExpenseCategoryWaterDisposal ExpenseCategory = "WATER_DISPOSAL"
	ExpenseCategoryOverhead      ExpenseCategory = "OVERHEAD"
	ExpenseCategoryOther         ExpenseCategory = "OTHER"
)

// IsValid checks if the category is valid
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryPumping, ExpenseCategoryRepairs, ExpenseCategoryChemicals,
		ExpenseCategoryUtilities, ExpenseCategoryWaterDisposal,
		ExpenseCategoryOverhead, ExpenseCategoryOther:
		return true
	}
	return false
}

// ExpenseLine is one operating cost entry on a statement
type ExpenseLine struct {
	ID          uuid.UUID         `json:"id"`
	StatementID uuid.UUID         `json:"statement_id"`
	Category    ExpenseCategory   `json:"category"`
	Description string            `json:"description"`
	Amount      valueobject.Money `json:"amount"`
	IncurredAt  time.Time         `json:"incurred_at"`
}

// LeaseOperatingStatement collects one lease's operating costs for a
// production month. Lines can only change while the statement is in
// DRAFT; finalizing locks the totals for partner billing.
type LeaseOperatingStatement struct {
	shared.OrganizationAggregateRoot
	LeaseID       uuid.UUID            `json:"lease_id"`
	LeaseName     string               `json:"lease_name"`
	PeriodYear    int                  `json:"period_year"`
	PeriodMonth   int                  `json:"period_month"`
	Currency      valueobject.Currency `json:"currency"`
	Lines         []ExpenseLine        `json:"lines,omitempty"`
	Status        StatementStatus      `json:"status"`
	ReviewedAt    *time.Time           `json:"reviewed_at,omitempty"`
	FinalizedAt   *time.Time           `json:"finalized_at,omitempty"`
	DistributedAt *time.Time           `json:"distributed_at,omitempty"`
	Remark        string               `json:"remark,omitempty"`
}

// NewLeaseOperatingStatement creates a new statement in DRAFT status
func NewLeaseOperatingStatement(
	organizationID uuid.UUID,
	leaseID uuid.UUID,
	leaseName string,
	periodYear int,
	periodMonth int,
	currency valueobject.Currency,
) (*LeaseOperatingStatement, error) {
	if leaseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEASE", "Lease ID cannot be empty")
	}
	if leaseName == "" {
		return nil, shared.NewDomainError("INVALID_LEASE_NAME", "Lease name cannot be empty")
	}
	if periodYear < 1900 || periodYear > 2200 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period year is out of range")
	}
	if periodMonth < 1 || periodMonth > 12 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period month must be between 1 and 12")
	}
	if !currency.IsWellFormed() {
		return nil, shared.NewDomainError("INVALID_CURRENCY",
			fmt.Sprintf("Currency %s is not a valid 3-letter code", currency))
	}

	los := &LeaseOperatingStatement{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		LeaseID:                   leaseID,
		LeaseName:                 leaseName,
		PeriodYear:                periodYear,
		PeriodMonth:               periodMonth,
		Currency:                  currency,
		Status:                    StatementStatusDraft,
	}

	los.AddDomainEvent(NewStatementCreatedEvent(los))

	return los, nil
}

// AddExpenseLine appends an operating cost entry. Only allowed in DRAFT.
func (los *LeaseOperatingStatement) AddExpenseLine(
	category ExpenseCategory,
	description string,
	amount valueobject.Money,
	incurredAt time.Time,
) (*ExpenseLine, error) {
	if los.Status != StatementStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot add expense lines to a statement in %s status", los.Status))
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Expense description cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if amount.Currency() != los.Currency {
		return nil, shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Expense currency %s does not match statement currency %s",
				amount.Currency(), los.Currency))
	}

	line := ExpenseLine{
		ID:          uuid.New(),
		StatementID: los.ID,
		Category:    category,
		Description: description,
		Amount:      amount,
		IncurredAt:  incurredAt,
	}
	los.Lines = append(los.Lines, line)
	los.Touch()
	los.IncrementVersion()

	return &los.Lines[len(los.Lines)-1], nil
}

// RemoveExpenseLine removes an entry by ID. Only allowed in DRAFT.
func (los *LeaseOperatingStatement) RemoveExpenseLine(lineID uuid.UUID) error {
	if los.Status != StatementStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot remove expense lines from a statement in %s status", los.Status))
	}

	for i, line := range los.Lines {
		if line.ID == lineID {
			los.Lines = append(los.Lines[:i], los.Lines[i+1:]...)
			los.Touch()
			los.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Expense line not found on statement")
}

// TotalExpenses sums all expense lines
func (los *LeaseOperatingStatement) TotalExpenses() valueobject.Money {
	total := valueobject.Zero(los.Currency)
	for _, line := range los.Lines {
		total = total.MustAdd(line.Amount)
	}
	return total
}

// SubmitForReview moves the statement from DRAFT to IN_REVIEW. At
// least one expense line is required.
func (los *LeaseOperatingStatement) SubmitForReview() error {
	if !los.Status.CanTransitionTo(StatementStatusInReview) {
		return shared.NewInvalidTransitionError("LeaseOperatingStatement", los.Status.String(), StatementStatusInReview.String())
	}
	if len(los.Lines) == 0 {
		return shared.NewDomainError("EMPTY_STATEMENT", "Statement must have at least one expense line")
	}

	now := time.Now()
	previous := los.Status
	los.Status = StatementStatusInReview
	los.ReviewedAt = &now
	los.UpdatedAt = now
	los.IncrementVersion()

	los.AddDomainEvent(shared.NewStatusChangedEvent("LeaseOperatingStatement", los.ID, los.OrganizationID, previous.String(), los.Status.String()))

	return nil
}

// Finalize locks the statement totals, moving from IN_REVIEW to FINALIZED
func (los *LeaseOperatingStatement) Finalize() error {
	if !los.Status.CanTransitionTo(StatementStatusFinalized) {
		return shared.NewInvalidTransitionError("LeaseOperatingStatement", los.Status.String(), StatementStatusFinalized.String())
	}

	now := time.Now()
	previous := los.Status
	los.Status = StatementStatusFinalized
	los.FinalizedAt = &now
	los.UpdatedAt = now
	los.IncrementVersion()

	los.AddDomainEvent(shared.NewStatusChangedEvent("LeaseOperatingStatement", los.ID, los.OrganizationID, previous.String(), los.Status.String()))
	los.AddDomainEvent(NewStatementFinalizedEvent(los))

	return nil
}

// Distribute marks the statement billed to partners, moving from
// FINALIZED to DISTRIBUTED.
func (los *LeaseOperatingStatement) Distribute() error {
	if !los.Status.CanTransitionTo(StatementStatusDistributed) {
		return shared.NewInvalidTransitionError("LeaseOperatingStatement", los.Status.String(), StatementStatusDistributed.String())
	}

	now := time.Now()
	previous := los.Status
	los.Status = StatementStatusDistributed
	los.DistributedAt = &now
	los.UpdatedAt = now
	los.IncrementVersion()

	los.AddDomainEvent(shared.NewStatusChangedEvent("LeaseOperatingStatement", los.ID, los.OrganizationID, previous.String(), los.Status.String()))
	los.AddDomainEvent(NewStatementDistributedEvent(los))

	return nil
}

// Period returns the production period formatted as YYYY-MM
func (los *LeaseOperatingStatement) Period() string {
	return fmt.Sprintf("%04d-%02d", los.PeriodYear, los.PeriodMonth)
}
