package permit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/permit"
	"github.com/wellfield/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PermitService handles regulatory permit operations
type PermitService struct {
	permitRepo permit.PermitRepository
	outboxRepo shared.OutboxRepository
	logger     *zap.Logger
}

// NewPermitService creates a new permit service
func NewPermitService(
	permitRepo permit.PermitRepository,
	outboxRepo shared.OutboxRepository,
	logger *zap.Logger,
) *PermitService {
	return &PermitService{
		permitRepo: permitRepo,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// CreatePermitRequest is the payload for creating a permit application
type CreatePermitRequest struct {
	WellID   uuid.UUID `json:"well_id" binding:"required"`
	WellName string    `json:"well_name" binding:"required"`
	Type     string    `json:"type" binding:"required"`
	Agency   string    `json:"agency" binding:"required"`
}

// FilePermitRequest is the payload for filing an application
type FilePermitRequest struct {
	PermitNumber string `json:"permit_number" binding:"required"`
}

// ApprovePermitRequest is the payload for recording agency approval
type ApprovePermitRequest struct {
	ExpirationDate time.Time `json:"expiration_date" binding:"required"`
}

// DenyPermitRequest is the payload for recording agency denial
type DenyPermitRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// PermitResponse represents a permit in API responses
type PermitResponse struct {
	ID             uuid.UUID  `json:"id"`
	WellID         uuid.UUID  `json:"well_id"`
	WellName       string     `json:"well_name"`
	Type           string     `json:"type"`
	Agency         string     `json:"agency"`
	PermitNumber   string     `json:"permit_number,omitempty"`
	Status         string     `json:"status"`
	FiledAt        *time.Time `json:"filed_at,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	DenialReason   string     `json:"denial_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Version        int        `json:"version"`
}

// CreatePermit creates a new draft permit application
func (s *PermitService) CreatePermit(ctx context.Context, organizationID uuid.UUID, req CreatePermitRequest) (*PermitResponse, error) {
	s.logger.Info("Creating permit application",
		zap.String("well_id", req.WellID.String()),
		zap.String("type", req.Type))

	p, err := permit.NewPermit(organizationID, req.WellID, req.WellName,
		permit.PermitType(req.Type), req.Agency)
	if err != nil {
		return nil, err
	}

	if err := s.permitRepo.Save(ctx, p); err != nil {
		s.logger.Error("Failed to save permit", zap.Error(err))
		return nil, err
	}
	if err := s.publishEvents(ctx, organizationID, &p.BaseAggregateRoot); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}

	return toPermitResponse(p), nil
}

// GetPermit retrieves a permit by ID
func (s *PermitService) GetPermit(ctx context.Context, organizationID, id uuid.UUID) (*PermitResponse, error) {
	p, err := s.permitRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return toPermitResponse(p), nil
}

// ListPermits lists permits with filtering
func (s *PermitService) ListPermits(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]PermitResponse, int64, error) {
	permits, err := s.permitRepo.FindAllForOrganization(ctx, organizationID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.permitRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PermitResponse, len(permits))
	for i := range permits {
		responses[i] = *toPermitResponse(&permits[i])
	}
	return responses, total, nil
}

// FilePermit submits an application to the agency
func (s *PermitService) FilePermit(ctx context.Context, organizationID, id uuid.UUID, req FilePermitRequest) (*PermitResponse, error) {
	return s.transition(ctx, organizationID, id, func(p *permit.Permit) error {
		return p.File(req.PermitNumber)
	})
}

// ApprovePermit records agency approval with an expiration date
func (s *PermitService) ApprovePermit(ctx context.Context, organizationID, id uuid.UUID, req ApprovePermitRequest) (*PermitResponse, error) {
	return s.transition(ctx, organizationID, id, func(p *permit.Permit) error {
		return p.Approve(req.ExpirationDate)
	})
}

// DenyPermit records agency denial
func (s *PermitService) DenyPermit(ctx context.Context, organizationID, id uuid.UUID, req DenyPermitRequest) (*PermitResponse, error) {
	return s.transition(ctx, organizationID, id, func(p *permit.Permit) error {
		return p.Deny(req.Reason)
	})
}

// ExpireOverduePermits sweeps approved permits past their expiration
// date into EXPIRED. Returns the number of permits transitioned.
func (s *PermitService) ExpireOverduePermits(ctx context.Context, organizationID uuid.UUID) (int, error) {
	now := time.Now()
	expiring, err := s.permitRepo.FindExpiring(ctx, organizationID, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range expiring {
		p := &expiring[i]
		if !p.IsExpiredAsOf(now) {
			continue
		}
		if err := p.Expire(now); err != nil {
			s.logger.Warn("Failed to expire permit",
				zap.String("permit_id", p.ID.String()), zap.Error(err))
			continue
		}
		if err := s.permitRepo.Save(ctx, p); err != nil {
			s.logger.Error("Failed to save expired permit",
				zap.String("permit_id", p.ID.String()), zap.Error(err))
			continue
		}
		if err := s.publishEvents(ctx, organizationID, &p.BaseAggregateRoot); err != nil {
			s.logger.Error("Failed to publish domain events", zap.Error(err))
		}
		expired++
	}

	return expired, nil
}

func (s *PermitService) transition(ctx context.Context, organizationID, id uuid.UUID, op func(*permit.Permit) error) (*PermitResponse, error) {
	p, err := s.permitRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if err := op(p); err != nil {
		return nil, err
	}

	if err := s.permitRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	if err := s.publishEvents(ctx, organizationID, &p.BaseAggregateRoot); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}
	return toPermitResponse(p), nil
}

// publishEvents drains an aggregate's event buffer into the outbox
func (s *PermitService) publishEvents(ctx context.Context, organizationID uuid.UUID, root *shared.BaseAggregateRoot) error {
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

func toPermitResponse(p *permit.Permit) *PermitResponse {
	return &PermitResponse{
		ID:             p.ID,
		WellID:         p.WellID,
		WellName:       p.WellName,
		Type:           string(p.Type),
		Agency:         p.Agency,
		PermitNumber:   p.PermitNumber,
		Status:         p.Status.String(),
		FiledAt:        p.FiledAt,
		ApprovedAt:     p.ApprovedAt,
		ExpirationDate: p.ExpirationDate,
		DenialReason:   p.DenialReason,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}
