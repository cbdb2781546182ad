package lease

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wellfield/backend/internal/domain/lease"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// LeaseService handles lease operating statement operations
type LeaseService struct {
	statementRepo lease.StatementRepository
	outboxRepo    shared.OutboxRepository
	logger        *zap.Logger
}

// NewLeaseService creates a new lease service
func NewLeaseService(
	statementRepo lease.StatementRepository,
	outboxRepo shared.OutboxRepository,
	logger *zap.Logger,
) *LeaseService {
	return &LeaseService{
		statementRepo: statementRepo,
		outboxRepo:    outboxRepo,
		logger:        logger,
	}
}

// CreateStatementRequest is the payload for creating a statement
type CreateStatementRequest struct {
	LeaseID     uuid.UUID `json:"lease_id" binding:"required"`
	LeaseName   string    `json:"lease_name" binding:"required"`
	PeriodYear  int       `json:"period_year" binding:"required"`
	PeriodMonth int       `json:"period_month" binding:"required"`
	Currency    string    `json:"currency"`
}

// AddExpenseLineRequest is the payload for adding an expense line
type AddExpenseLineRequest struct {
	Category    string    `json:"category" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Amount      string    `json:"amount" binding:"required"`
	IncurredAt  time.Time `json:"incurred_at"`
}

// StatementResponse represents a statement in API responses
type StatementResponse struct {
	ID            uuid.UUID             `json:"id"`
	LeaseID       uuid.UUID             `json:"lease_id"`
	LeaseName     string                `json:"lease_name"`
	Period        string                `json:"period"`
	Currency      string                `json:"currency"`
	Status        string                `json:"status"`
	TotalExpenses decimal.Decimal       `json:"total_expenses"`
	Lines         []ExpenseLineResponse `json:"lines,omitempty"`
	FinalizedAt   *time.Time            `json:"finalized_at,omitempty"`
	DistributedAt *time.Time            `json:"distributed_at,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	Version       int                   `json:"version"`
}

// ExpenseLineResponse represents an expense line in API responses
type ExpenseLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	IncurredAt  time.Time       `json:"incurred_at"`
}

// CreateStatement creates a new draft statement for a lease and period
func (s *LeaseService) CreateStatement(ctx context.Context, organizationID uuid.UUID, req CreateStatementRequest) (*StatementResponse, error) {
	s.logger.Info("Creating lease operating statement",
		zap.String("lease_id", req.LeaseID.String()),
		zap.Int("year", req.PeriodYear),
		zap.Int("month", req.PeriodMonth))

	existing, err := s.statementRepo.FindByLeaseAndPeriod(ctx, organizationID, req.LeaseID, req.PeriodYear, req.PeriodMonth)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("STATEMENT_EXISTS", "Statement for this lease and period already exists")
	}

	currency := valueobject.Currency(req.Currency)
	if req.Currency == "" {
		currency = valueobject.DefaultCurrency
	}

	los, err := lease.NewLeaseOperatingStatement(organizationID, req.LeaseID, req.LeaseName,
		req.PeriodYear, req.PeriodMonth, currency)
	if err != nil {
		return nil, err
	}

	if err := s.statementRepo.Save(ctx, los); err != nil {
		s.logger.Error("Failed to save statement", zap.Error(err))
		return nil, err
	}
	if err := s.publishEvents(ctx, organizationID, &los.BaseAggregateRoot); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}

	return toStatementResponse(los), nil
}

// GetStatement retrieves a statement by ID
func (s *LeaseService) GetStatement(ctx context.Context, organizationID, id uuid.UUID) (*StatementResponse, error) {
	los, err := s.statementRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return toStatementResponse(los), nil
}

// ListStatements lists statements with filtering
func (s *LeaseService) ListStatements(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]StatementResponse, int64, error) {
	statements, err := s.statementRepo.FindAllForOrganization(ctx, organizationID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.statementRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StatementResponse, len(statements))
	for i := range statements {
		responses[i] = *toStatementResponse(&statements[i])
	}
	return responses, total, nil
}

// AddExpenseLine adds an operating expense to a draft statement
func (s *LeaseService) AddExpenseLine(ctx context.Context, organizationID, id uuid.UUID, req AddExpenseLineRequest) (*StatementResponse, error) {
	los, err := s.statementRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	amount, err := valueobject.NewMoneyFromString(req.Amount, los.Currency)
	if err != nil {
		return nil, err
	}

	incurredAt := req.IncurredAt
	if incurredAt.IsZero() {
		incurredAt = time.Now()
	}

	if _, err := los.AddExpenseLine(lease.ExpenseCategory(req.Category), req.Description, amount, incurredAt); err != nil {
		return nil, err
	}

	if err := s.statementRepo.Save(ctx, los); err != nil {
		return nil, err
	}
	return toStatementResponse(los), nil
}

// RemoveExpenseLine removes an expense line from a draft statement
func (s *LeaseService) RemoveExpenseLine(ctx context.Context, organizationID, id, lineID uuid.UUID) (*StatementResponse, error) {
	los, err := s.statementRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if err := los.RemoveExpenseLine(lineID); err != nil {
		return nil, err
	}
	if err := s.statementRepo.Save(ctx, los); err != nil {
		return nil, err
	}
	return toStatementResponse(los), nil
}

// SubmitForReview moves a draft statement into accounting review
func (s *LeaseService) SubmitForReview(ctx context.Context, organizationID, id uuid.UUID) (*StatementResponse, error) {
	return s.transition(ctx, organizationID, id, func(los *lease.LeaseOperatingStatement) error {
		return los.SubmitForReview()
	})
}

// FinalizeStatement locks a reviewed statement's totals
func (s *LeaseService) FinalizeStatement(ctx context.Context, organizationID, id uuid.UUID) (*StatementResponse, error) {
	return s.transition(ctx, organizationID, id, func(los *lease.LeaseOperatingStatement) error {
		return los.Finalize()
	})
}

// DistributeStatement bills a finalized statement to partners
func (s *LeaseService) DistributeStatement(ctx context.Context, organizationID, id uuid.UUID) (*StatementResponse, error) {
	return s.transition(ctx, organizationID, id, func(los *lease.LeaseOperatingStatement) error {
		return los.Distribute()
	})
}

func (s *LeaseService) transition(ctx context.Context, organizationID, id uuid.UUID, op func(*lease.LeaseOperatingStatement) error) (*StatementResponse, error) {
	los, err := s.statementRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if err := op(los); err != nil {
		return nil, err
	}

	if err := s.statementRepo.Save(ctx, los); err != nil {
		return nil, err
	}
	if err := s.publishEvents(ctx, organizationID, &los.BaseAggregateRoot); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}
	return toStatementResponse(los), nil
}

// publishEvents drains an aggregate's event buffer into the outbox
func (s *LeaseService) publishEvents(ctx context.Context, organizationID uuid.UUID, root *shared.BaseAggregateRoot) error {
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

func toStatementResponse(los *lease.LeaseOperatingStatement) *StatementResponse {
	resp := &StatementResponse{
		ID:            los.ID,
		LeaseID:       los.LeaseID,
		LeaseName:     los.LeaseName,
		Period:        los.Period(),
		Currency:      los.Currency.String(),
		Status:        los.Status.String(),
		TotalExpenses: los.TotalExpenses().Amount(),
		FinalizedAt:   los.FinalizedAt,
		DistributedAt: los.DistributedAt,
		CreatedAt:     los.CreatedAt,
		UpdatedAt:     los.UpdatedAt,
		Version:       los.Version,
	}
	for _, line := range los.Lines {
		resp.Lines = append(resp.Lines, ExpenseLineResponse{
			ID:          line.ID,
			Category:    string(line.Category),
			Description: line.Description,
			Amount:      line.Amount.Amount(),
			IncurredAt:  line.IncurredAt,
		})
	}
	return resp
}
