package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/partner"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormWellInterestRepository implements partner.WellInterestRepository using GORM
type GormWellInterestRepository struct {
	db *gorm.DB
}

// NewGormWellInterestRepository creates a new GormWellInterestRepository
func NewGormWellInterestRepository(db *gorm.DB) *GormWellInterestRepository {
	return &GormWellInterestRepository{db: db}
}

// FindByID finds a working-interest assignment by its ID
func (r *GormWellInterestRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.WellInterest, error) {
	var model models.WellInterestModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOrganization finds an assignment by ID for a specific organization
func (r *GormWellInterestRepository) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*partner.WellInterest, error) {
	var model models.WellInterestModel
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

// FindRosterByWell finds the assignments active on the given date for a well
func (r *GormWellInterestRepository) FindRosterByWell(ctx context.Context, organizationID, wellID uuid.UUID, on time.Time) ([]*partner.WellInterest, error) {
	var interestModels []models.WellInterestModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND well_id = ? AND effective_date <= ? AND (end_date IS NULL OR end_date >= ?)",
			organizationID, wellID, on, on).
		Order("effective_date ASC").
		Find(&interestModels).Error; err != nil {
		return nil, err
	}
	interests := make([]*partner.WellInterest, len(interestModels))
	for i, model := range interestModels {
		interests[i] = model.ToDomain()
	}
	return interests, nil
}

// FindByPartner finds all assignments held by a partner
func (r *GormWellInterestRepository) FindByPartner(ctx context.Context, organizationID, partnerID uuid.UUID) ([]*partner.WellInterest, error) {
	var interestModels []models.WellInterestModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND partner_id = ?", organizationID, partnerID).
		Order("effective_date DESC").
		Find(&interestModels).Error; err != nil {
		return nil, err
	}
	interests := make([]*partner.WellInterest, len(interestModels))
	for i, model := range interestModels {
		interests[i] = model.ToDomain()
	}
	return interests, nil
}

// FindAll finds all assignments with filtering
func (r *GormWellInterestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.WellInterest, error) {
	var interestModels []models.WellInterestModel
	query := r.db.WithContext(ctx).Model(&models.WellInterestModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&interestModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(interestModels), nil
}

// FindAllForOrganization finds all assignments for an organization with filtering
func (r *GormWellInterestRepository) FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]partner.WellInterest, error) {
	var interestModels []models.WellInterestModel
	query := r.db.WithContext(ctx).Model(&models.WellInterestModel{}).
		Where("organization_id = ?", organizationID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&interestModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(interestModels), nil
}

// Save creates or updates an assignment with optimistic locking
func (r *GormWellInterestRepository) Save(ctx context.Context, wi *partner.WellInterest) error {
	model := models.WellInterestModelFromDomain(wi)
	if wi.Version == 1 {
		return r.db.WithContext(ctx).Create(model).Error
	}

	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", wi.ID, wi.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts assignments matching the filter
func (r *GormWellInterestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.WellInterestModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormWellInterestRepository) toDomainSlice(interestModels []models.WellInterestModel) []partner.WellInterest {
	interests := make([]partner.WellInterest, len(interestModels))
	for i, model := range interestModels {
		interests[i] = *model.ToDomain()
	}
	return interests
}

// applyFilter applies filter conditions to query
func (r *GormWellInterestRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, WellInterestSortFields, "created_at")
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
func (r *GormWellInterestRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Search in well name and partner name
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(well_name ILIKE ? OR partner_name ILIKE ?)", searchPattern, searchPattern)
	}

	if wellID, ok := filter.Filters["well_id"]; ok {
		query = query.Where("well_id = ?", wellID)
	}
	if partnerID, ok := filter.Filters["partner_id"]; ok {
		query = query.Where("partner_id = ?", partnerID)
	}

	return query
}

// Ensure GormWellInterestRepository implements WellInterestRepository
var _ partner.WellInterestRepository = (*GormWellInterestRepository)(nil)
