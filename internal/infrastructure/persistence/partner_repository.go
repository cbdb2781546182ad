package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/partner"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPartnerRepository implements partner.PartnerRepository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByID finds a partner by its ID
func (r *GormPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Partner, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOrganization finds a partner by ID for a specific organization
func (r *GormPartnerRepository) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*partner.Partner, error) {
	var model models.PartnerModel
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

// FindByCode finds a partner by its code within an organization
func (r *GormPartnerRepository) FindByCode(ctx context.Context, organizationID uuid.UUID, code string) (*partner.Partner, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND code = ?", organizationID, code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all partners with filtering
func (r *GormPartnerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Partner, error) {
	var partnerModels []models.PartnerModel
	query := r.db.WithContext(ctx).Model(&models.PartnerModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&partnerModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(partnerModels), nil
}

// FindAllForOrganization finds all partners for an organization with filtering
func (r *GormPartnerRepository) FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]partner.Partner, error) {
	var partnerModels []models.PartnerModel
	query := r.db.WithContext(ctx).Model(&models.PartnerModel{}).
		Where("organization_id = ?", organizationID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&partnerModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(partnerModels), nil
}

// FindActive finds all active partners within an organization
func (r *GormPartnerRepository) FindActive(ctx context.Context, organizationID uuid.UUID) ([]partner.Partner, error) {
	var partnerModels []models.PartnerModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND status = ?", organizationID, partner.PartnerStatusActive).
		Order("name ASC").
		Find(&partnerModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(partnerModels), nil
}

// Save creates or updates a partner with optimistic locking
func (r *GormPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	model := models.PartnerModelFromDomain(p)
	if p.Version == 1 {
		return r.db.WithContext(ctx).Create(model).Error
	}

	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", p.ID, p.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts partners matching the filter
func (r *GormPartnerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PartnerModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPartnerRepository) toDomainSlice(partnerModels []models.PartnerModel) []partner.Partner {
	partners := make([]partner.Partner, len(partnerModels))
	for i, model := range partnerModels {
		partners[i] = *model.ToDomain()
	}
	return partners
}

// applyFilter applies filter conditions to query
func (r *GormPartnerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, PartnerSortFields, "created_at")
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
func (r *GormPartnerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Search in name, code and contact name
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(name ILIKE ? OR code ILIKE ? OR contact_name ILIKE ?)",
			searchPattern, searchPattern, searchPattern)
	}

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	return query
}

// Ensure GormPartnerRepository implements PartnerRepository
var _ partner.PartnerRepository = (*GormPartnerRepository)(nil)
