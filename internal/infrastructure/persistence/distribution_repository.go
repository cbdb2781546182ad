package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/revenue"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDistributionRepository implements revenue.DistributionRepository using GORM
type GormDistributionRepository struct {
	db *gorm.DB
}

// NewGormDistributionRepository creates a new GormDistributionRepository
func NewGormDistributionRepository(db *gorm.DB) *GormDistributionRepository {
	return &GormDistributionRepository{db: db}
}

// FindByID finds a revenue distribution by its ID
func (r *GormDistributionRepository) FindByID(ctx context.Context, id uuid.UUID) (*revenue.RevenueDistribution, error) {
	var model models.RevenueDistributionModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOrganization finds a distribution by ID for a specific organization
func (r *GormDistributionRepository) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*revenue.RevenueDistribution, error) {
	var model models.RevenueDistributionModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByWellAndPeriod finds the distribution for a well and production month
func (r *GormDistributionRepository) FindByWellAndPeriod(ctx context.Context, organizationID, wellID uuid.UUID, year, month int) (*revenue.RevenueDistribution, error) {
	var model models.RevenueDistributionModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("organization_id = ? AND well_id = ? AND period_year = ? AND period_month = ?",
			organizationID, wellID, year, month).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all distributions with filtering
func (r *GormDistributionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]revenue.RevenueDistribution, error) {
	var distModels []models.RevenueDistributionModel
	query := r.db.WithContext(ctx).Model(&models.RevenueDistributionModel{}).
		Preload("Lines")
	query = r.applyFilter(query, filter)

	if err := query.Find(&distModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(distModels), nil
}

// FindAllForOrganization finds all distributions for an organization with filtering
func (r *GormDistributionRepository) FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]revenue.RevenueDistribution, error) {
	var distModels []models.RevenueDistributionModel
	query := r.db.WithContext(ctx).Model(&models.RevenueDistributionModel{}).
		Preload("Lines").
		Where("organization_id = ?", organizationID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&distModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(distModels), nil
}

// FindByStatus finds distributions in a given status
func (r *GormDistributionRepository) FindByStatus(ctx context.Context, organizationID uuid.UUID, status revenue.DistributionStatus, filter shared.Filter) ([]revenue.RevenueDistribution, error) {
	var distModels []models.RevenueDistributionModel
	query := r.db.WithContext(ctx).Model(&models.RevenueDistributionModel{}).
		Preload("Lines").
		Where("organization_id = ? AND status = ?", organizationID, status)
	query = r.applyFilter(query, filter)

	if err := query.Find(&distModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(distModels), nil
}

// Save creates or updates a distribution with optimistic locking. Updates
// run in a transaction that replaces the per-partner lines so the stored
// lines always mirror the aggregate.
func (r *GormDistributionRepository) Save(ctx context.Context, d *revenue.RevenueDistribution) error {
	model := models.RevenueDistributionModelFromDomain(d)
	if d.Version == 1 {
		return r.db.WithContext(ctx).Create(model).Error
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(model).
			Omit(clause.Associations).
			Where("id = ? AND version = ?", d.ID, d.Version-1).
			Updates(model)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if err := tx.Where("distribution_id = ?", d.ID).
			Delete(&models.DistributionLineModel{}).Error; err != nil {
			return err
		}
		if len(model.Lines) > 0 {
			if err := tx.Create(&model.Lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Count counts distributions matching the filter
func (r *GormDistributionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.RevenueDistributionModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormDistributionRepository) toDomainSlice(distModels []models.RevenueDistributionModel) []revenue.RevenueDistribution {
	distributions := make([]revenue.RevenueDistribution, len(distModels))
	for i, model := range distModels {
		distributions[i] = *model.ToDomain()
	}
	return distributions
}

// applyFilter applies filter conditions to query
func (r *GormDistributionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, DistributionSortFields, "created_at")
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
func (r *GormDistributionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Search in well name
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("well_name ILIKE ?", searchPattern)
	}

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if wellID, ok := filter.Filters["well_id"]; ok {
		query = query.Where("well_id = ?", wellID)
	}
	if year, ok := filter.Filters["period_year"]; ok {
		query = query.Where("period_year = ?", year)
	}
	if month, ok := filter.Filters["period_month"]; ok {
		query = query.Where("period_month = ?", month)
	}

	return query
}

// Ensure GormDistributionRepository implements DistributionRepository
var _ revenue.DistributionRepository = (*GormDistributionRepository)(nil)
