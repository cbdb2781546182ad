package partner

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wellfield/backend/internal/domain/partner"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// PartnerService handles partner roster management
type PartnerService struct {
	partnerRepo  partner.PartnerRepository
	interestRepo partner.WellInterestRepository
	outboxRepo   shared.OutboxRepository
	logger       *zap.Logger
}

// NewPartnerService creates a new partner service
func NewPartnerService(
	partnerRepo partner.PartnerRepository,
	interestRepo partner.WellInterestRepository,
	outboxRepo shared.OutboxRepository,
	logger *zap.Logger,
) *PartnerService {
	return &PartnerService{
		partnerRepo:  partnerRepo,
		interestRepo: interestRepo,
		outboxRepo:   outboxRepo,
		logger:       logger,
	}
}

// CreatePartnerRequest is the payload for creating a partner
type CreatePartnerRequest struct {
	Name         string `json:"name" binding:"required"`
	Code         string `json:"code" binding:"required"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
}

// UpdateContactRequest is the payload for updating partner contact info
type UpdateContactRequest struct {
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
}

// AssignInterestRequest is the payload for assigning a well interest
type AssignInterestRequest struct {
	WellID          uuid.UUID `json:"well_id" binding:"required"`
	WellName        string    `json:"well_name" binding:"required"`
	PartnerID       uuid.UUID `json:"partner_id" binding:"required"`
	WorkingInterest string    `json:"working_interest" binding:"required"`
	EffectiveDate   time.Time `json:"effective_date" binding:"required"`
}

// PartnerResponse represents a partner in API responses
type PartnerResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	ContactName  string    `json:"contact_name,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// WellInterestResponse represents an interest assignment in API responses
type WellInterestResponse struct {
	ID            uuid.UUID       `json:"id"`
	WellID        uuid.UUID       `json:"well_id"`
	WellName      string          `json:"well_name"`
	PartnerID     uuid.UUID       `json:"partner_id"`
	PartnerName   string          `json:"partner_name"`
	Interest      decimal.Decimal `json:"working_interest"`
	EffectiveDate time.Time       `json:"effective_date"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
}

// CreatePartner creates a new partner
func (s *PartnerService) CreatePartner(ctx context.Context, organizationID uuid.UUID, req CreatePartnerRequest) (*PartnerResponse, error) {
	s.logger.Info("Creating partner", zap.String("code", req.Code))

	existing, err := s.partnerRepo.FindByCode(ctx, organizationID, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("PARTNER_EXISTS", "Partner with this code already exists")
	}

	p, err := partner.NewPartner(organizationID, req.Name, req.Code, req.ContactName, req.ContactEmail)
	if err != nil {
		return nil, err
	}

	if err := s.partnerRepo.Save(ctx, p); err != nil {
		s.logger.Error("Failed to save partner", zap.Error(err))
		return nil, err
	}
	if err := s.publishEvents(ctx, organizationID, &p.BaseAggregateRoot); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}

	return toPartnerResponse(p), nil
}

// GetPartner retrieves a partner by ID
func (s *PartnerService) GetPartner(ctx context.Context, organizationID, id uuid.UUID) (*PartnerResponse, error) {
	p, err := s.partnerRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return toPartnerResponse(p), nil
}

// ListPartners lists partners for an organization
func (s *PartnerService) ListPartners(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]PartnerResponse, int64, error) {
	partners, err := s.partnerRepo.FindAllForOrganization(ctx, organizationID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.partnerRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PartnerResponse, len(partners))
	for i := range partners {
		responses[i] = *toPartnerResponse(&partners[i])
	}
	return responses, total, nil
}

// UpdateContact updates a partner's contact information
func (s *PartnerService) UpdateContact(ctx context.Context, organizationID, id uuid.UUID, req UpdateContactRequest) (*PartnerResponse, error) {
	p, err := s.partnerRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if err := p.UpdateContact(req.ContactName, req.ContactEmail); err != nil {
		return nil, err
	}
	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	return toPartnerResponse(p), nil
}

// DeactivatePartner marks a partner inactive
func (s *PartnerService) DeactivatePartner(ctx context.Context, organizationID, id uuid.UUID) (*PartnerResponse, error) {
	p, err := s.partnerRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if err := p.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	if err := s.publishEvents(ctx, organizationID, &p.BaseAggregateRoot); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}
	return toPartnerResponse(p), nil
}

// AssignInterest records a partner's working interest in a well. The
// combined active roster may not exceed 100%.
func (s *PartnerService) AssignInterest(ctx context.Context, organizationID uuid.UUID, req AssignInterestRequest) (*WellInterestResponse, error) {
	s.logger.Info("Assigning well interest",
		zap.String("well_id", req.WellID.String()),
		zap.String("partner_id", req.PartnerID.String()))

	p, err := s.partnerRepo.FindByIDForOrganization(ctx, organizationID, req.PartnerID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, shared.NewDomainError("PARTNER_INACTIVE", "Cannot assign interest to an inactive partner")
	}

	interest, err := valueobject.NewWorkingInterestFromString(req.WorkingInterest)
	if err != nil {
		return nil, err
	}

	wi, err := partner.NewWellInterest(organizationID, req.WellID, req.WellName,
		p.ID, p.Name, interest, req.EffectiveDate)
	if err != nil {
		return nil, err
	}

	roster, err := s.interestRepo.FindRosterByWell(ctx, organizationID, req.WellID, req.EffectiveDate)
	if err != nil {
		return nil, err
	}
	if err := partner.ValidateRosterTotal(append(roster, wi)); err != nil {
		return nil, err
	}

	if err := s.interestRepo.Save(ctx, wi); err != nil {
		s.logger.Error("Failed to save well interest", zap.Error(err))
		return nil, err
	}
	if err := s.publishEvents(ctx, organizationID, &wi.BaseAggregateRoot); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}

	return toInterestResponse(wi), nil
}

// TerminateInterest ends a well interest assignment
func (s *PartnerService) TerminateInterest(ctx context.Context, organizationID, id uuid.UUID, endDate time.Time) (*WellInterestResponse, error) {
	wi, err := s.interestRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if err := wi.Terminate(endDate); err != nil {
		return nil, err
	}
	if err := s.interestRepo.Save(ctx, wi); err != nil {
		return nil, err
	}
	return toInterestResponse(wi), nil
}

// GetWellRoster retrieves the active roster for a well
func (s *PartnerService) GetWellRoster(ctx context.Context, organizationID, wellID uuid.UUID) ([]WellInterestResponse, error) {
	roster, err := s.interestRepo.FindRosterByWell(ctx, organizationID, wellID, time.Now())
	if err != nil {
		return nil, err
	}
	responses := make([]WellInterestResponse, len(roster))
	for i, wi := range roster {
		responses[i] = *toInterestResponse(wi)
	}
	return responses, nil
}

// publishEvents drains an aggregate's event buffer into the outbox
func (s *PartnerService) publishEvents(ctx context.Context, organizationID uuid.UUID, root *shared.BaseAggregateRoot) error {
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

func toPartnerResponse(p *partner.Partner) *PartnerResponse {
	return &PartnerResponse{
		ID:           p.ID,
		Name:         p.Name,
		Code:         p.Code,
		ContactName:  p.ContactName,
		ContactEmail: p.ContactEmail,
		Status:       p.Status.String(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

func toInterestResponse(wi *partner.WellInterest) *WellInterestResponse {
	return &WellInterestResponse{
		ID:            wi.ID,
		WellID:        wi.WellID,
		WellName:      wi.WellName,
		PartnerID:     wi.PartnerID,
		PartnerName:   wi.PartnerName,
		Interest:      wi.Interest.Fraction(),
		EffectiveDate: wi.EffectiveDate,
		EndDate:       wi.EndDate,
	}
}
