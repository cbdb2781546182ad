package afe

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/domain/shared/valueobject"
)

// Approval workflow policy constants. These are deliberately hard-coded
// rather than per-organization configuration.
const (
	// approvalWindowDays is the number of calendar days partners have
	// to respond after AFE creation.
	approvalWindowDays = 30
)

var (
	// approvalRequiredThreshold is the estimated cost at or above which
	// partner consensus is required. Below it the workflow completes
	// trivially.
	approvalRequiredThreshold = decimal.NewFromInt(50000)

	// majorPartnerInterest is the working interest at or above which a
	// partner is individually required to respond.
	majorPartnerInterest = decimal.RequireFromString("0.25")

	// majorityInterest is the fraction of total working interest that
	// must approve for consensus, and that suffices alone for rejection.
	majorityInterest = decimal.RequireFromString("0.5")
)

// PartnerInterest is a roster entry: one partner's working interest in
// the well an AFE covers.
type PartnerInterest struct {
	PartnerID   uuid.UUID
	PartnerName string
	Interest    valueobject.WorkingInterest
}

// PartnerApprovalRequirement describes what the workflow expects from a
// single roster partner. Partners holding a major working interest are
// individually required to respond.
type PartnerApprovalRequirement struct {
	PartnerID   uuid.UUID
	PartnerName string
	Interest    valueobject.WorkingInterest
	IsRequired  bool
}

// WorkflowResult is the verdict of evaluating an AFE's approval
// workflow at a point in time.
type WorkflowResult struct {
	IsComplete bool
	IsApproved bool
	IsRejected bool

	TotalInterest    decimal.Decimal
	ApprovedInterest decimal.Decimal
	RejectedInterest decimal.Decimal

	// PendingRequirements lists roster partners that have not yet
	// submitted a completed decision.
	PendingRequirements []PartnerApprovalRequirement

	// CompletedApprovals lists the decisions that were counted.
	CompletedApprovals []*PartnerApproval

	// WeightedApprovedTotal is the interest-weighted sum of approved
	// amounts over records that carry one. Nil when no approvals exist.
	WeightedApprovedTotal *valueobject.Money
}

// RequiresPartnerApproval reports whether the estimated cost is high
// enough to trigger the partner approval workflow.
func RequiresPartnerApproval(estimatedCost valueobject.Money) bool {
	return estimatedCost.Amount().GreaterThanOrEqual(approvalRequiredThreshold)
}

// BuildApprovalRequirements derives per-partner requirements from a
// well's working-interest roster.
func BuildApprovalRequirements(roster []PartnerInterest) []PartnerApprovalRequirement {
	requirements := make([]PartnerApprovalRequirement, 0, len(roster))
	for _, p := range roster {
		requirements = append(requirements, PartnerApprovalRequirement{
			PartnerID:   p.PartnerID,
			PartnerName: p.PartnerName,
			Interest:    p.Interest,
			IsRequired:  p.Interest.AtLeast(majorPartnerInterest),
		})
	}
	return requirements
}

// EvaluateApprovalWorkflow computes the approval verdict for an AFE
// from its estimated cost, the well's partner roster, and the approval
// records submitted so far. It is a pure function with no side effects
// on any of its inputs.
//
// Below the cost threshold the verdict is trivially complete and
// approved. Otherwise approval requires every major partner to have
// responded, at least half the total working interest to have
// approved, and less than half to have rejected. Rejection occurs when
// rejected interest alone reaches the majority, or any major partner
// rejects.
func EvaluateApprovalWorkflow(
	estimatedCost valueobject.Money,
	roster []PartnerInterest,
	approvals []*PartnerApproval,
) WorkflowResult {
	if !RequiresPartnerApproval(estimatedCost) {
		return WorkflowResult{
			IsComplete:          true,
			IsApproved:          true,
			PendingRequirements: []PartnerApprovalRequirement{},
			CompletedApprovals:  []*PartnerApproval{},
		}
	}

	requirements := BuildApprovalRequirements(roster)

	interestByPartner := make(map[uuid.UUID]valueobject.WorkingInterest, len(roster))
	totalInterest := decimal.Zero
	for _, p := range roster {
		interestByPartner[p.PartnerID] = p.Interest
		totalInterest = totalInterest.Add(p.Interest.Fraction())
	}

	completedByPartner := make(map[uuid.UUID]*PartnerApproval, len(approvals))
	completed := make([]*PartnerApproval, 0, len(approvals))
	approvedInterest := decimal.Zero
	rejectedInterest := decimal.Zero
	requiredPartnerRejected := false

	for _, approval := range approvals {
		if !approval.Status.IsCompleted() {
			continue
		}
		interest, onRoster := interestByPartner[approval.PartnerID]
		if !onRoster {
			continue
		}
		completedByPartner[approval.PartnerID] = approval
		completed = append(completed, approval)

		switch approval.Status {
		case ApprovalStatusApproved:
			approvedInterest = approvedInterest.Add(interest.Fraction())
		case ApprovalStatusRejected:
			rejectedInterest = rejectedInterest.Add(interest.Fraction())
			if interest.AtLeast(majorPartnerInterest) {
				requiredPartnerRejected = true
			}
		}
	}

	pending := make([]PartnerApprovalRequirement, 0)
	allRequiredResponded := true
	for _, req := range requirements {
		if _, responded := completedByPartner[req.PartnerID]; responded {
			continue
		}
		pending = append(pending, req)
		if req.IsRequired {
			allRequiredResponded = false
		}
	}

	result := WorkflowResult{
		TotalInterest:       totalInterest,
		ApprovedInterest:    approvedInterest,
		RejectedInterest:    rejectedInterest,
		PendingRequirements: pending,
		CompletedApprovals:  completed,
	}

	if totalInterest.IsPositive() {
		approvedRatio := approvedInterest.Div(totalInterest)
		rejectedRatio := rejectedInterest.Div(totalInterest)

		result.IsApproved = allRequiredResponded &&
			approvedRatio.GreaterThanOrEqual(majorityInterest) &&
			rejectedRatio.LessThan(majorityInterest)
		result.IsRejected = rejectedRatio.GreaterThanOrEqual(majorityInterest) || requiredPartnerRejected
	}

	result.IsComplete = result.IsApproved || result.IsRejected || len(pending) == 0

	if len(completed) > 0 {
		result.WeightedApprovedTotal = weightedApprovedTotal(completed, interestByPartner, estimatedCost.Currency())
	}

	return result
}

// weightedApprovedTotal sums each approved amount scaled by the
// partner's working interest. Records without an amount are skipped.
func weightedApprovedTotal(
	approvals []*PartnerApproval,
	interestByPartner map[uuid.UUID]valueobject.WorkingInterest,
	currency valueobject.Currency,
) *valueobject.Money {
	total := valueobject.Zero(currency)
	for _, approval := range approvals {
		if approval.ApprovedAmount == nil {
			continue
		}
		interest, ok := interestByPartner[approval.PartnerID]
		if !ok {
			continue
		}
		weighted := approval.ApprovedAmount.Multiply(interest.Fraction())
		sum, err := total.Add(weighted)
		if err != nil {
			continue
		}
		total = sum
	}
	return &total
}

// ValidatePartnerApproval checks an individual approval record against
// the requirement it satisfies and the AFE being approved. These are
// local guards applied before a record is accepted, independent of the
// aggregate-level workflow verdict.
func ValidatePartnerApproval(
	requirement PartnerApprovalRequirement,
	approval *PartnerApproval,
	estimatedCost valueobject.Money,
) error {
	if approval.PartnerID != requirement.PartnerID {
		return shared.NewDomainError("PARTNER_MISMATCH",
			fmt.Sprintf("Approval partner %s does not match requirement partner %s",
				approval.PartnerID, requirement.PartnerID))
	}
	if !approval.Status.IsValid() || approval.Status == ApprovalStatusPending {
		return shared.NewDomainError("INVALID_APPROVAL_STATUS", "Approval decision is required")
	}
	if approval.ApprovedAmount != nil {
		exceeds, err := approval.ApprovedAmount.GreaterThan(estimatedCost)
		if err != nil {
			return shared.NewDomainError("CURRENCY_MISMATCH",
				"Approved amount currency does not match estimated cost currency")
		}
		if exceeds {
			return shared.NewDomainError("INVALID_AMOUNT",
				"Approved amount cannot exceed the AFE estimated cost")
		}
	}
	if approval.Status == ApprovalStatusRejected && approval.Comments == "" {
		return shared.NewDomainError("INVALID_COMMENTS",
			"Rejection requires a comment explaining the reason")
	}
	return nil
}
