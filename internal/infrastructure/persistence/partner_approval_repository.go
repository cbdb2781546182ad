package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/afe"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPartnerApprovalRepository implements afe.PartnerApprovalRepository using GORM
type GormPartnerApprovalRepository struct {
	db *gorm.DB
}

// NewGormPartnerApprovalRepository creates a new GormPartnerApprovalRepository
func NewGormPartnerApprovalRepository(db *gorm.DB) *GormPartnerApprovalRepository {
	return &GormPartnerApprovalRepository{db: db}
}

// FindByID finds a partner approval by its ID
func (r *GormPartnerApprovalRepository) FindByID(ctx context.Context, id uuid.UUID) (*afe.PartnerApproval, error) {
	var model models.PartnerApprovalModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOrganization finds a partner approval by ID for a specific organization
func (r *GormPartnerApprovalRepository) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*afe.PartnerApproval, error) {
	var model models.PartnerApprovalModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAfe finds all approval records for an AFE
func (r *GormPartnerApprovalRepository) FindByAfe(ctx context.Context, organizationID, afeID uuid.UUID) ([]*afe.PartnerApproval, error) {
	var approvalModels []models.PartnerApprovalModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND afe_id = ?", organizationID, afeID).
		Order("created_at ASC").
		Find(&approvalModels).Error; err != nil {
		return nil, err
	}
	approvals := make([]*afe.PartnerApproval, len(approvalModels))
	for i, model := range approvalModels {
		approvals[i] = model.ToDomain()
	}
	return approvals, nil
}

// FindByAfeAndPartner finds a partner's approval record for an AFE
func (r *GormPartnerApprovalRepository) FindByAfeAndPartner(ctx context.Context, organizationID, afeID, partnerID uuid.UUID) (*afe.PartnerApproval, error) {
	var model models.PartnerApprovalModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND afe_id = ? AND partner_id = ?", organizationID, afeID, partnerID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all partner approvals with filtering
func (r *GormPartnerApprovalRepository) FindAll(ctx context.Context, filter shared.Filter) ([]afe.PartnerApproval, error) {
	var approvalModels []models.PartnerApprovalModel
	query := r.db.WithContext(ctx).Model(&models.PartnerApprovalModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&approvalModels).Error; err != nil {
		return nil, err
	}
	approvals := make([]afe.PartnerApproval, len(approvalModels))
	for i, model := range approvalModels {
		approvals[i] = *model.ToDomain()
	}
	return approvals, nil
}

// FindAllForOrganization finds all partner approvals for an organization with filtering
func (r *GormPartnerApprovalRepository) FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]afe.PartnerApproval, error) {
	var approvalModels []models.PartnerApprovalModel
	query := r.db.WithContext(ctx).Model(&models.PartnerApprovalModel{}).
		Where("organization_id = ?", organizationID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&approvalModels).Error; err != nil {
		return nil, err
	}
	approvals := make([]afe.PartnerApproval, len(approvalModels))
	for i, model := range approvalModels {
		approvals[i] = *model.ToDomain()
	}
	return approvals, nil
}

// Save creates or updates a partner approval with optimistic locking
func (r *GormPartnerApprovalRepository) Save(ctx context.Context, pa *afe.PartnerApproval) error {
	model := models.PartnerApprovalModelFromDomain(pa)
	if pa.Version == 1 {
		return r.db.WithContext(ctx).Create(model).Error
	}

	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", pa.ID, pa.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts partner approvals matching the filter
func (r *GormPartnerApprovalRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PartnerApprovalModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter conditions to query
func (r *GormPartnerApprovalRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, PartnerApprovalSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	// Apply pagination
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormPartnerApprovalRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Search in partner name
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("partner_name ILIKE ?", searchPattern)
	}

	if afeID, ok := filter.Filters["afe_id"]; ok {
		query = query.Where("afe_id = ?", afeID)
	}
	if partnerID, ok := filter.Filters["partner_id"]; ok {
		query = query.Where("partner_id = ?", partnerID)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	return query
}

// Ensure GormPartnerApprovalRepository implements PartnerApprovalRepository
var _ afe.PartnerApprovalRepository = (*GormPartnerApprovalRepository)(nil)
