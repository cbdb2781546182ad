package revenue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wellfield/backend/internal/domain/partner"
	"github.com/wellfield/backend/internal/domain/revenue"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// RevenueService handles revenue distribution operations
type RevenueService struct {
	distributionRepo revenue.DistributionRepository
	interestRepo     partner.WellInterestRepository
	outboxRepo       shared.OutboxRepository
	logger           *zap.Logger
}

// NewRevenueService creates a new revenue service
func NewRevenueService(
	distributionRepo revenue.DistributionRepository,
	interestRepo partner.WellInterestRepository,
	outboxRepo shared.OutboxRepository,
	logger *zap.Logger,
) *RevenueService {
	return &RevenueService{
		distributionRepo: distributionRepo,
		interestRepo:     interestRepo,
		outboxRepo:       outboxRepo,
		logger:           logger,
	}
}

// CreateDistributionRequest is the payload for creating a distribution
type CreateDistributionRequest struct {
	WellID      uuid.UUID `json:"well_id" binding:"required"`
	WellName    string    `json:"well_name" binding:"required"`
	PeriodYear  int       `json:"period_year" binding:"required"`
	PeriodMonth int       `json:"period_month" binding:"required"`
	Gross       string    `json:"gross" binding:"required"`
	Deductions  string    `json:"deductions"`
	Currency    string    `json:"currency"`
}

// VoidDistributionRequest is the payload for voiding a distribution
type VoidDistributionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// DistributionResponse represents a distribution in API responses
type DistributionResponse struct {
	ID            uuid.UUID       `json:"id"`
	WellID        uuid.UUID       `json:"well_id"`
	WellName      string          `json:"well_name"`
	Period        string          `json:"period"`
	Gross         decimal.Decimal `json:"gross"`
	Deductions    decimal.Decimal `json:"deductions"`
	Net           decimal.Decimal `json:"net"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	Lines         []LineResponse  `json:"lines,omitempty"`
	CalculatedAt  *time.Time      `json:"calculated_at,omitempty"`
	DistributedAt *time.Time      `json:"distributed_at,omitempty"`
	VoidedAt      *time.Time      `json:"voided_at,omitempty"`
	VoidReason    string          `json:"void_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// LineResponse represents a per-partner distribution line
type LineResponse struct {
	ID          uuid.UUID       `json:"id"`
	PartnerID   uuid.UUID       `json:"partner_id"`
	PartnerName string          `json:"partner_name"`
	Interest    decimal.Decimal `json:"working_interest"`
	Gross       decimal.Decimal `json:"gross"`
	Deductions  decimal.Decimal `json:"deductions"`
	Net         decimal.Decimal `json:"net"`
}

// CreateDistribution creates a pending distribution for a well's
// production month. One distribution per well per period.
func (s *RevenueService) CreateDistribution(ctx context.Context, organizationID uuid.UUID, req CreateDistributionRequest) (*DistributionResponse, error) {
	s.logger.Info("Creating revenue distribution",
		zap.String("well_id", req.WellID.String()),
		zap.Int("year", req.PeriodYear),
		zap.Int("month", req.PeriodMonth))

	existing, err := s.distributionRepo.FindByWellAndPeriod(ctx, organizationID, req.WellID, req.PeriodYear, req.PeriodMonth)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DISTRIBUTION_EXISTS", "Distribution for this well and period already exists")
	}

	currency := valueobject.Currency(req.Currency)
	if req.Currency == "" {
		currency = valueobject.DefaultCurrency
	}
	gross, err := valueobject.NewMoneyFromString(req.Gross, currency)
	if err != nil {
		return nil, err
	}
	deductions := valueobject.Zero(currency)
	if req.Deductions != "" {
		deductions, err = valueobject.NewMoneyFromString(req.Deductions, currency)
		if err != nil {
			return nil, err
		}
	}
	wellRevenue, err := valueobject.NewRevenueAmount(gross, deductions)
	if err != nil {
		return nil, err
	}

	d, err := revenue.NewRevenueDistribution(organizationID, req.WellID, req.WellName,
		req.PeriodYear, req.PeriodMonth, wellRevenue)
	if err != nil {
		return nil, err
	}

	if err := s.distributionRepo.Save(ctx, d); err != nil {
		s.logger.Error("Failed to save distribution", zap.Error(err))
		return nil, err
	}
	if err := s.publishEvents(ctx, organizationID, &d.BaseAggregateRoot); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}

	return toDistributionResponse(d), nil
}

// GetDistribution retrieves a distribution by ID
func (s *RevenueService) GetDistribution(ctx context.Context, organizationID, id uuid.UUID) (*DistributionResponse, error) {
	d, err := s.distributionRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return toDistributionResponse(d), nil
}

// ListDistributions lists distributions with filtering
func (s *RevenueService) ListDistributions(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]DistributionResponse, int64, error) {
	distributions, err := s.distributionRepo.FindAllForOrganization(ctx, organizationID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.distributionRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DistributionResponse, len(distributions))
	for i := range distributions {
		responses[i] = *toDistributionResponse(&distributions[i])
	}
	return responses, total, nil
}

// CalculateDistribution splits the well revenue across the active
// roster by working interest.
func (s *RevenueService) CalculateDistribution(ctx context.Context, organizationID, id uuid.UUID) (*DistributionResponse, error) {
	s.logger.Info("Calculating distribution", zap.String("id", id.String()))

	d, err := s.distributionRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	periodEnd := time.Date(d.PeriodYear, time.Month(d.PeriodMonth), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, -1)
	assignments, err := s.interestRepo.FindRosterByWell(ctx, organizationID, d.WellID, periodEnd)
	if err != nil {
		return nil, err
	}

	roster := make([]revenue.PartnerShare, len(assignments))
	for i, wi := range assignments {
		roster[i] = revenue.PartnerShare{
			PartnerID:   wi.PartnerID,
			PartnerName: wi.PartnerName,
			Interest:    wi.Interest,
		}
	}

	if err := d.Calculate(roster); err != nil {
		return nil, err
	}

	if err := s.distributionRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	if err := s.publishEvents(ctx, organizationID, &d.BaseAggregateRoot); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}

	return toDistributionResponse(d), nil
}

// DistributeRevenue marks a calculated distribution as paid out
func (s *RevenueService) DistributeRevenue(ctx context.Context, organizationID, id uuid.UUID) (*DistributionResponse, error) {
	d, err := s.distributionRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if err := d.Distribute(); err != nil {
		return nil, err
	}
	if err := s.distributionRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	if err := s.publishEvents(ctx, organizationID, &d.BaseAggregateRoot); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}
	return toDistributionResponse(d), nil
}

// VoidDistribution cancels a pending distribution
func (s *RevenueService) VoidDistribution(ctx context.Context, organizationID, id uuid.UUID, req VoidDistributionRequest) (*DistributionResponse, error) {
	d, err := s.distributionRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if err := d.Void(req.Reason); err != nil {
		return nil, err
	}
	if err := s.distributionRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	if err := s.publishEvents(ctx, organizationID, &d.BaseAggregateRoot); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}
	return toDistributionResponse(d), nil
}

// publishEvents drains an aggregate's event buffer into the outbox
func (s *RevenueService) publishEvents(ctx context.Context, organizationID uuid.UUID, root *shared.BaseAggregateRoot) error {
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

func toDistributionResponse(d *revenue.RevenueDistribution) *DistributionResponse {
	resp := &DistributionResponse{
		ID:            d.ID,
		WellID:        d.WellID,
		WellName:      d.WellName,
		Period:        d.Period(),
		Gross:         d.WellRevenue.Gross().Amount(),
		Deductions:    d.WellRevenue.Deductions().Amount(),
		Net:           d.WellRevenue.Net().Amount(),
		Currency:      d.WellRevenue.Currency().String(),
		Status:        d.Status.String(),
		CalculatedAt:  d.CalculatedAt,
		DistributedAt: d.DistributedAt,
		VoidedAt:      d.VoidedAt,
		VoidReason:    d.VoidReason,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		Version:       d.Version,
	}
	for _, line := range d.Lines {
		resp.Lines = append(resp.Lines, LineResponse{
			ID:          line.ID,
			PartnerID:   line.PartnerID,
			PartnerName: line.PartnerName,
			Interest:    line.Interest.Fraction(),
			Gross:       line.Amount.Gross().Amount(),
			Deductions:  line.Amount.Deductions().Amount(),
			Net:         line.Amount.Net().Amount(),
		})
	}
	return resp
}
