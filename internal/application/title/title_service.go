package title

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/domain/title"
	"go.uber.org/zap"
)

// TitleService handles title curative tracking operations
type TitleService struct {
	itemRepo   title.CurativeItemRepository
	outboxRepo shared.OutboxRepository
	logger     *zap.Logger
}

// NewTitleService creates a new title service
func NewTitleService(
	itemRepo title.CurativeItemRepository,
	outboxRepo shared.OutboxRepository,
	logger *zap.Logger,
) *TitleService {
	return &TitleService{
		itemRepo:   itemRepo,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// CreateCurativeItemRequest is the payload for logging a title defect
type CreateCurativeItemRequest struct {
	LeaseID     uuid.UUID `json:"lease_id" binding:"required"`
	LeaseName   string    `json:"lease_name" binding:"required"`
	DefectType  string    `json:"defect_type" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Severity    string    `json:"severity" binding:"required"`
}

// StartWorkRequest is the payload for assigning curative work
type StartWorkRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id" binding:"required"`
}

// ResolveRequest is the payload for resolving a defect
type ResolveRequest struct {
	Notes string `json:"notes" binding:"required"`
}

// WaiveRequest is the payload for waiving a defect
type WaiveRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CurativeItemResponse represents a curative item in API responses
type CurativeItemResponse struct {
	ID              uuid.UUID  `json:"id"`
	LeaseID         uuid.UUID  `json:"lease_id"`
	LeaseName       string     `json:"lease_name"`
	DefectType      string     `json:"defect_type"`
	Description     string     `json:"description"`
	Severity        string     `json:"severity"`
	Status          string     `json:"status"`
	AssignedTo      *uuid.UUID `json:"assigned_to,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	WaivedAt        *time.Time `json:"waived_at,omitempty"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`
	WaiverReason    string     `json:"waiver_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Version         int        `json:"version"`
}

// CreateCurativeItem logs a new title defect
func (s *TitleService) CreateCurativeItem(ctx context.Context, organizationID uuid.UUID, req CreateCurativeItemRequest) (*CurativeItemResponse, error) {
	s.logger.Info("Creating curative item",
		zap.String("lease_id", req.LeaseID.String()),
		zap.String("defect_type", req.DefectType))

	ci, err := title.NewCurativeItem(organizationID, req.LeaseID, req.LeaseName,
		req.DefectType, req.Description, title.CurativeSeverity(req.Severity))
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, ci); err != nil {
		s.logger.Error("Failed to save curative item", zap.Error(err))
		return nil, err
	}
	if err := s.publishEvents(ctx, organizationID, &ci.BaseAggregateRoot); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}

	return toCurativeItemResponse(ci), nil
}

// GetCurativeItem retrieves a curative item by ID
func (s *TitleService) GetCurativeItem(ctx context.Context, organizationID, id uuid.UUID) (*CurativeItemResponse, error) {
	ci, err := s.itemRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return toCurativeItemResponse(ci), nil
}

// ListCurativeItems lists curative items with filtering
func (s *TitleService) ListCurativeItems(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]CurativeItemResponse, int64, error) {
	items, err := s.itemRepo.FindAllForOrganization(ctx, organizationID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CurativeItemResponse, len(items))
	for i := range items {
		responses[i] = *toCurativeItemResponse(&items[i])
	}
	return responses, total, nil
}

// StartWork assigns a curative item and begins work
func (s *TitleService) StartWork(ctx context.Context, organizationID, id uuid.UUID, req StartWorkRequest) (*CurativeItemResponse, error) {
	return s.transition(ctx, organizationID, id, func(ci *title.CurativeItem) error {
		return ci.StartWork(req.AssigneeID)
	})
}

// ResolveItem marks a defect cured
func (s *TitleService) ResolveItem(ctx context.Context, organizationID, id uuid.UUID, req ResolveRequest) (*CurativeItemResponse, error) {
	return s.transition(ctx, organizationID, id, func(ci *title.CurativeItem) error {
		return ci.Resolve(req.Notes)
	})
}

// WaiveItem accepts a defect without curing it
func (s *TitleService) WaiveItem(ctx context.Context, organizationID, id uuid.UUID, req WaiveRequest) (*CurativeItemResponse, error) {
	return s.transition(ctx, organizationID, id, func(ci *title.CurativeItem) error {
		return ci.Waive(req.Reason)
	})
}

func (s *TitleService) transition(ctx context.Context, organizationID, id uuid.UUID, op func(*title.CurativeItem) error) (*CurativeItemResponse, error) {
	ci, err := s.itemRepo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if err := op(ci); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, ci); err != nil {
		return nil, err
	}
	if err := s.publishEvents(ctx, organizationID, &ci.BaseAggregateRoot); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}
	return toCurativeItemResponse(ci), nil
}

// publishEvents drains an aggregate's event buffer into the outbox
func (s *TitleService) publishEvents(ctx context.Context, organizationID uuid.UUID, root *shared.BaseAggregateRoot) error {
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

func toCurativeItemResponse(ci *title.CurativeItem) *CurativeItemResponse {
	return &CurativeItemResponse{
		ID:              ci.ID,
		LeaseID:         ci.LeaseID,
		LeaseName:       ci.LeaseName,
		DefectType:      ci.DefectType,
		Description:     ci.Description,
		Severity:        string(ci.Severity),
		Status:          ci.Status.String(),
		AssignedTo:      ci.AssignedTo,
		StartedAt:       ci.StartedAt,
		ResolvedAt:      ci.ResolvedAt,
		WaivedAt:        ci.WaivedAt,
		ResolutionNotes: ci.ResolutionNotes,
		WaiverReason:    ci.WaiverReason,
		CreatedAt:       ci.CreatedAt,
		UpdatedAt:       ci.UpdatedAt,
		Version:         ci.Version,
	}
}
