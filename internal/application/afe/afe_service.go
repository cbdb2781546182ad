package afe

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wellfield/backend/internal/domain/afe"
	"github.com/wellfield/backend/internal/domain/partner"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// AfeService handles AFE lifecycle and partner approval operations
type AfeService struct {
	afeRepo      afe.AfeRepository
	approvalRepo afe.PartnerApprovalRepository
	interestRepo partner.WellInterestRepository
	outboxRepo   shared.OutboxRepository
	logger       *zap.Logger
}

// NewAfeService creates a new AFE service
func NewAfeService(
	afeRepo afe.AfeRepository,
	approvalRepo afe.PartnerApprovalRepository,
	interestRepo partner.WellInterestRepository,
	outboxRepo shared.OutboxRepository,
	logger *zap.Logger,
) *AfeService {
	return &AfeService{
		afeRepo:      afeRepo,
		approvalRepo: approvalRepo,
		interestRepo: interestRepo,
		outboxRepo:   outboxRepo,
		logger:       logger,
	}
}

// CreateAfeRequest is the payload for creating an AFE
type CreateAfeRequest struct {
	AfeNumber     string    `json:"afe_number" binding:"required"`
	WellID        uuid.UUID `json:"well_id" binding:"required"`
	WellName      string    `json:"well_name" binding:"required"`
	Category      string    `json:"category" binding:"required"`
	Description   string    `json:"description"`
	EstimatedCost string    `json:"estimated_cost" binding:"required"`
	Currency      string    `json:"currency"`
}

// UpdateEstimateRequest is the payload for revising a draft AFE
type UpdateEstimateRequest struct {
	EstimatedCost string `json:"estimated_cost" binding:"required"`
	Currency      string `json:"currency"`
	Description   string `json:"description"`
}

// RecordApprovalRequest is the payload for a partner's approval decision
type RecordApprovalRequest struct {
	PartnerID      uuid.UUID `json:"partner_id" binding:"required"`
	Status         string    `json:"status" binding:"required"`
	ApprovedAmount *string   `json:"approved_amount,omitempty"`
	Comments       string    `json:"comments"`
}

// RejectAfeRequest is the payload for rejecting an AFE
type RejectAfeRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// AfeResponse represents an AFE in API responses
type AfeResponse struct {
	ID              uuid.UUID        `json:"id"`
	OrganizationID  uuid.UUID        `json:"organization_id"`
	AfeNumber       string           `json:"afe_number"`
	WellID          uuid.UUID        `json:"well_id"`
	WellName        string           `json:"well_name"`
	Category        string           `json:"category"`
	Description     string           `json:"description"`
	EstimatedCost   decimal.Decimal  `json:"estimated_cost"`
	ApprovedAmount  *decimal.Decimal `json:"approved_amount,omitempty"`
	Currency        string           `json:"currency"`
	Status          string           `json:"status"`
	SubmittedAt     *time.Time       `json:"submitted_at,omitempty"`
	ApprovedAt      *time.Time       `json:"approved_at,omitempty"`
	RejectedAt      *time.Time       `json:"rejected_at,omitempty"`
	ClosedAt        *time.Time       `json:"closed_at,omitempty"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	Deadline        time.Time        `json:"approval_deadline"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Version         int              `json:"version"`
}

// PartnerApprovalResponse represents an approval record in API responses
type PartnerApprovalResponse struct {
	ID             uuid.UUID        `json:"id"`
	AfeID          uuid.UUID        `json:"afe_id"`
	PartnerID      uuid.UUID        `json:"partner_id"`
	PartnerName    string           `json:"partner_name"`
	Interest       decimal.Decimal  `json:"working_interest"`
	Status         string           `json:"status"`
	ApprovedAmount *decimal.Decimal `json:"approved_amount,omitempty"`
	Comments       string           `json:"comments,omitempty"`
	RespondedAt    *time.Time       `json:"responded_at,omitempty"`
}

// WorkflowResponse represents the approval workflow verdict
type WorkflowResponse struct {
	IsComplete            bool                      `json:"is_complete"`
	IsApproved            bool                      `json:"is_approved"`
	IsRejected            bool                      `json:"is_rejected"`
	TotalInterest         decimal.Decimal           `json:"total_interest"`
	ApprovedInterest      decimal.Decimal           `json:"approved_interest"`
	RejectedInterest      decimal.Decimal           `json:"rejected_interest"`
	WeightedApprovedTotal *decimal.Decimal          `json:"weighted_approved_total,omitempty"`
	PendingPartners       []PendingPartnerResponse  `json:"pending_partners"`
	CompletedApprovals    []PartnerApprovalResponse `json:"completed_approvals"`
}

// PendingPartnerResponse represents a partner still due to respond
type PendingPartnerResponse struct {
	PartnerID   uuid.UUID       `json:"partner_id"`
	PartnerName string          `json:"partner_name"`
	Interest    decimal.Decimal `json:"working_interest"`
	IsRequired  bool            `json:"is_required"`
}

// AfeListFilter defines filtering options for AFE list queries
type AfeListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status"`
	WellID   *uuid.UUID `form:"well_id"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// CreateAfe creates a new AFE in draft
func (s *AfeService) CreateAfe(ctx context.Context, organizationID uuid.UUID, req CreateAfeRequest) (*AfeResponse, error) {
	s.logger.Info("Creating AFE",
		zap.String("afe_number", req.AfeNumber),
		zap.String("well_id", req.WellID.String()))

	existing, err := s.afeRepo.FindByNumber(ctx, organizationID, req.AfeNumber)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to check AFE number", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check AFE number availability")
	}
	if existing != nil {
		return nil, shared.NewDomainError("AFE_EXISTS", "AFE with this number already exists")
	}

	cost, err := parseMoney(req.EstimatedCost, req.Currency)
	if err != nil {
		return nil, err
	}

	a, err := afe.NewAfe(organizationID, req.AfeNumber, req.WellID, req.WellName,
		afe.AfeCategory(req.Category), req.Description, cost)
	if err != nil {
		return nil, err
	}

	if err := s.afeRepo.Save(ctx, a); err != nil {
		s.logger.Error("Failed to save AFE", zap.Error(err))
		return nil, err
	}

	if err := s.publishEvents(ctx, organizationID, &a.BaseAggregateRoot); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
		// Non-blocking: events will be retried by the outbox processor
	}

	s.logger.Info("AFE created", zap.String("id", a.ID.String()))
	return toAfeResponse(a), nil
}

// GetAfe retrieves an AFE by ID
func (s *AfeService) GetAfe(ctx context.Context, organizationID, id uuid.UUID) (*AfeResponse, error) {
	a, err := s.afeRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return toAfeResponse(a), nil
}

// ListAfes lists AFEs with filtering
func (s *AfeService) ListAfes(ctx context.Context, organizationID uuid.UUID, filter AfeListFilter) ([]AfeResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.WellID != nil {
		domainFilter.Filters["well_id"] = *filter.WellID
	}

	afes, err := s.afeRepo.FindAllForOrganization(ctx, organizationID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.afeRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AfeResponse, len(afes))
	for i := range afes {
		responses[i] = *toAfeResponse(&afes[i])
	}
	return responses, total, nil
}

// UpdateEstimate revises a draft AFE's cost and description
func (s *AfeService) UpdateEstimate(ctx context.Context, organizationID, id uuid.UUID, req UpdateEstimateRequest) (*AfeResponse, error) {
	a, err := s.afeRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	cost, err := parseMoney(req.EstimatedCost, req.Currency)
	if err != nil {
		return nil, err
	}

	if err := a.UpdateEstimate(cost, req.Description); err != nil {
		return nil, err
	}

	if err := s.afeRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	return toAfeResponse(a), nil
}

// SubmitAfe submits a draft AFE for partner approval
func (s *AfeService) SubmitAfe(ctx context.Context, organizationID, id uuid.UUID) (*AfeResponse, error) {
	s.logger.Info("Submitting AFE", zap.String("id", id.String()))

	a, err := s.afeRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if err := a.Submit(); err != nil {
		return nil, err
	}

	if err := s.afeRepo.Save(ctx, a); err != nil {
		return nil, err
	}

	if err := s.publishEvents(ctx, organizationID, &a.BaseAggregateRoot); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}

	return toAfeResponse(a), nil
}

// RecordPartnerApproval accepts one partner's decision on a submitted
// AFE, then re-evaluates the workflow. A verdict reaching consensus
// transitions the AFE.
func (s *AfeService) RecordPartnerApproval(ctx context.Context, organizationID, afeID uuid.UUID, req RecordApprovalRequest) (*WorkflowResponse, error) {
	s.logger.Info("Recording partner approval",
		zap.String("afe_id", afeID.String()),
		zap.String("partner_id", req.PartnerID.String()),
		zap.String("status", req.Status))

	a, err := s.afeRepo.FindByIDForOrganization(ctx, organizationID, afeID)
	if err != nil {
		return nil, err
	}
	if a.Status != afe.AfeStatusSubmitted {
		return nil, shared.NewDomainError("INVALID_STATE", "Approvals can only be recorded on a submitted AFE")
	}

	roster, err := s.wellRoster(ctx, organizationID, a.WellID)
	if err != nil {
		return nil, err
	}

	requirement, found := requirementFor(roster, req.PartnerID)
	if !found {
		return nil, shared.NewDomainError("PARTNER_NOT_ON_ROSTER", "Partner holds no working interest in the well")
	}

	existing, err := s.approvalRepo.FindByAfeAndPartner(ctx, organizationID, afeID, req.PartnerID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_APPROVAL", "Partner has already responded to this AFE")
	}

	var approvedAmount *valueobject.Money
	if req.ApprovedAmount != nil {
		amount, err := parseMoney(*req.ApprovedAmount, a.EstimatedCost.Currency().String())
		if err != nil {
			return nil, err
		}
		approvedAmount = &amount
	}

	approval, err := afe.NewPartnerApproval(organizationID, afeID, req.PartnerID,
		requirement.PartnerName, requirement.Interest,
		afe.ApprovalStatus(req.Status), approvedAmount, req.Comments)
	if err != nil {
		return nil, err
	}
	if err := afe.ValidatePartnerApproval(requirement, approval, a.EstimatedCost); err != nil {
		return nil, err
	}

	if err := s.approvalRepo.Save(ctx, approval); err != nil {
		s.logger.Error("Failed to save partner approval", zap.Error(err))
		return nil, err
	}
	if err := s.publishEvents(ctx, organizationID, &approval.BaseAggregateRoot); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}

	return s.evaluateAndApply(ctx, organizationID, a, roster)
}

// EvaluateApproval computes the current workflow verdict without
// recording a new decision. A verdict reaching consensus still
// transitions the AFE, so overdue evaluation sweeps converge.
func (s *AfeService) EvaluateApproval(ctx context.Context, organizationID, afeID uuid.UUID) (*WorkflowResponse, error) {
	a, err := s.afeRepo.FindByIDForOrganization(ctx, organizationID, afeID)
	if err != nil {
		return nil, err
	}
	if a.Status != afe.AfeStatusSubmitted {
		return nil, shared.NewDomainError("INVALID_STATE", "Workflow evaluation applies to submitted AFEs")
	}

	roster, err := s.wellRoster(ctx, organizationID, a.WellID)
	if err != nil {
		return nil, err
	}
	return s.evaluateAndApply(ctx, organizationID, a, roster)
}

// CloseAfe closes an approved AFE
func (s *AfeService) CloseAfe(ctx context.Context, organizationID, id uuid.UUID) (*AfeResponse, error) {
	a, err := s.afeRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if err := a.Close(); err != nil {
		return nil, err
	}

	if err := s.afeRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	if err := s.publishEvents(ctx, organizationID, &a.BaseAggregateRoot); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}
	return toAfeResponse(a), nil
}

// RejectAfe rejects a submitted AFE outside the weighted workflow,
// e.g. when the operator withdraws it.
func (s *AfeService) RejectAfe(ctx context.Context, organizationID, id uuid.UUID, req RejectAfeRequest) (*AfeResponse, error) {
	a, err := s.afeRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if err := a.Reject(req.Reason); err != nil {
		return nil, err
	}

	if err := s.afeRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	if err := s.publishEvents(ctx, organizationID, &a.BaseAggregateRoot); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}
	return toAfeResponse(a), nil
}

// ListApprovals retrieves the approval records for an AFE
func (s *AfeService) ListApprovals(ctx context.Context, organizationID, afeID uuid.UUID) ([]PartnerApprovalResponse, error) {
	approvals, err := s.approvalRepo.FindByAfe(ctx, organizationID, afeID)
	if err != nil {
		return nil, err
	}
	responses := make([]PartnerApprovalResponse, len(approvals))
	for i, pa := range approvals {
		responses[i] = toApprovalResponse(pa)
	}
	return responses, nil
}

// ListOverdue retrieves submitted AFEs whose approval window has elapsed
func (s *AfeService) ListOverdue(ctx context.Context, organizationID uuid.UUID) ([]AfeResponse, error) {
	afes, err := s.afeRepo.FindOverdue(ctx, organizationID, time.Now())
	if err != nil {
		return nil, err
	}
	responses := make([]AfeResponse, len(afes))
	for i := range afes {
		responses[i] = *toAfeResponse(&afes[i])
	}
	return responses, nil
}

// evaluateAndApply runs the workflow evaluator and applies a decisive
// verdict to the AFE.
func (s *AfeService) evaluateAndApply(ctx context.Context, organizationID uuid.UUID, a *afe.Afe, roster []afe.PartnerInterest) (*WorkflowResponse, error) {
	approvals, err := s.approvalRepo.FindByAfe(ctx, organizationID, a.ID)
	if err != nil {
		return nil, err
	}

	result := afe.EvaluateApprovalWorkflow(a.EstimatedCost, roster, approvals)

	switch {
	case result.IsApproved:
		if err := a.Approve(result.WeightedApprovedTotal); err != nil {
			return nil, err
		}
	case result.IsRejected:
		if err := a.Reject(rejectionSummary(result)); err != nil {
			return nil, err
		}
	}

	if result.IsApproved || result.IsRejected {
		if err := s.afeRepo.Save(ctx, a); err != nil {
			return nil, err
		}
		if err := s.publishEvents(ctx, organizationID, &a.BaseAggregateRoot); err != nil {
			s.logger.Error("Failed to publish domain events", zap.Error(err))
		}
		s.logger.Info("AFE workflow reached a verdict",
			zap.String("afe_id", a.ID.String()),
			zap.String("status", a.Status.String()))
	}

	return toWorkflowResponse(result), nil
}

// wellRoster loads the currently active working-interest roster for a well
func (s *AfeService) wellRoster(ctx context.Context, organizationID, wellID uuid.UUID) ([]afe.PartnerInterest, error) {
	assignments, err := s.interestRepo.FindRosterByWell(ctx, organizationID, wellID, time.Now())
	if err != nil {
		return nil, err
	}
	roster := make([]afe.PartnerInterest, len(assignments))
	for i, wi := range assignments {
		roster[i] = afe.PartnerInterest{
			PartnerID:   wi.PartnerID,
			PartnerName: wi.PartnerName,
			Interest:    wi.Interest,
		}
	}
	return roster, nil
}

// publishEvents drains an aggregate's event buffer into the outbox
func (s *AfeService) publishEvents(ctx context.Context, organizationID uuid.UUID, root *shared.BaseAggregateRoot) error {
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("Failed to marshal event", zap.Error(err))
			continue
		}
		entries = append(entries, shared.NewOutboxEntry(organizationID, event, payload))
	}

	if len(entries) > 0 {
		if err := s.outboxRepo.Save(ctx, entries...); err != nil {
			return err
		}
	}

	root.ClearDomainEvents()
	return nil
}

func requirementFor(roster []afe.PartnerInterest, partnerID uuid.UUID) (afe.PartnerApprovalRequirement, bool) {
	for _, req := range afe.BuildApprovalRequirements(roster) {
		if req.PartnerID == partnerID {
			return req, true
		}
	}
	return afe.PartnerApprovalRequirement{}, false
}

func rejectionSummary(result afe.WorkflowResult) string {
	for _, pa := range result.CompletedApprovals {
		if pa.IsRejected() && pa.Comments != "" {
			return pa.Comments
		}
	}
	return "Rejected by partner consensus"
}

func parseMoney(amount, currency string) (valueobject.Money, error) {
	if currency == "" {
		currency = valueobject.DefaultCurrency.String()
	}
	return valueobject.NewMoneyFromString(amount, valueobject.Currency(currency))
}

func toAfeResponse(a *afe.Afe) *AfeResponse {
	resp := &AfeResponse{
		ID:              a.ID,
		OrganizationID:  a.OrganizationID,
		AfeNumber:       a.AfeNumber,
		WellID:          a.WellID,
		WellName:        a.WellName,
		Category:        string(a.Category),
		Description:     a.Description,
		EstimatedCost:   a.EstimatedCost.Amount(),
		Currency:        a.EstimatedCost.Currency().String(),
		Status:          a.Status.String(),
		SubmittedAt:     a.SubmittedAt,
		ApprovedAt:      a.ApprovedAt,
		RejectedAt:      a.RejectedAt,
		ClosedAt:        a.ClosedAt,
		RejectionReason: a.RejectionReason,
		Deadline:        a.ApprovalDeadline(),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		Version:         a.Version,
	}
	if a.ApprovedAmount != nil {
		amount := a.ApprovedAmount.Amount()
		resp.ApprovedAmount = &amount
	}
	return resp
}

func toApprovalResponse(pa *afe.PartnerApproval) PartnerApprovalResponse {
	resp := PartnerApprovalResponse{
		ID:          pa.ID,
		AfeID:       pa.AfeID,
		PartnerID:   pa.PartnerID,
		PartnerName: pa.PartnerName,
		Interest:    pa.Interest.Fraction(),
		Status:      pa.Status.String(),
		Comments:    pa.Comments,
		RespondedAt: pa.RespondedAt,
	}
	if pa.ApprovedAmount != nil {
		amount := pa.ApprovedAmount.Amount()
		resp.ApprovedAmount = &amount
	}
	return resp
}

func toWorkflowResponse(result afe.WorkflowResult) *WorkflowResponse {
	resp := &WorkflowResponse{
		IsComplete:         result.IsComplete,
		IsApproved:         result.IsApproved,
		IsRejected:         result.IsRejected,
		TotalInterest:      result.TotalInterest,
		ApprovedInterest:   result.ApprovedInterest,
		RejectedInterest:   result.RejectedInterest,
		PendingPartners:    make([]PendingPartnerResponse, len(result.PendingRequirements)),
		CompletedApprovals: make([]PartnerApprovalResponse, len(result.CompletedApprovals)),
	}
	for i, req := range result.PendingRequirements {
		resp.PendingPartners[i] = PendingPartnerResponse{
			PartnerID:   req.PartnerID,
			PartnerName: req.PartnerName,
			Interest:    req.Interest.Fraction(),
			IsRequired:  req.IsRequired,
		}
	}
	for i, pa := range result.CompletedApprovals {
		resp.CompletedApprovals[i] = toApprovalResponse(pa)
	}
	if result.WeightedApprovedTotal != nil {
		amount := result.WeightedApprovedTotal.Amount()
		resp.WeightedApprovedTotal = &amount
	}
	return resp
}
