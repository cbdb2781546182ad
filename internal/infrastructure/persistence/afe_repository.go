package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/afe"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAfeRepository implements afe.AfeRepository using GORM
type GormAfeRepository struct {
	db *gorm.DB
}

// NewGormAfeRepository creates a new GormAfeRepository
func NewGormAfeRepository(db *gorm.DB) *GormAfeRepository {
	return &GormAfeRepository{db: db}
}

// FindByID finds an AFE by its ID
func (r *GormAfeRepository) FindByID(ctx context.Context, id uuid.UUID) (*afe.Afe, error) {
	var model models.AfeModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOrganization finds an AFE by ID for a specific organization
func (r *GormAfeRepository) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*afe.Afe, error) {
	var model models.AfeModel
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

// FindByNumber finds an AFE by its AFE number within an organization
func (r *GormAfeRepository) FindByNumber(ctx context.Context, organizationID uuid.UUID, afeNumber string) (*afe.Afe, error) {
	var model models.AfeModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND afe_number = ?", organizationID, afeNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all AFEs with filtering
func (r *GormAfeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]afe.Afe, error) {
	var afeModels []models.AfeModel
	query := r.db.WithContext(ctx).Model(&models.AfeModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&afeModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(afeModels), nil
}

// FindAllForOrganization finds all AFEs for an organization with filtering
func (r *GormAfeRepository) FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]afe.Afe, error) {
	var afeModels []models.AfeModel
	query := r.db.WithContext(ctx).Model(&models.AfeModel{}).
		Where("organization_id = ?", organizationID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&afeModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(afeModels), nil
}

// FindByWell finds all AFEs for a well within an organization
func (r *GormAfeRepository) FindByWell(ctx context.Context, organizationID, wellID uuid.UUID) ([]afe.Afe, error) {
	var afeModels []models.AfeModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND well_id = ?", organizationID, wellID).
		Order("created_at DESC").
		Find(&afeModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(afeModels), nil
}

// FindByStatus finds AFEs in a given status within an organization
func (r *GormAfeRepository) FindByStatus(ctx context.Context, organizationID uuid.UUID, status afe.AfeStatus, filter shared.Filter) ([]afe.Afe, error) {
	var afeModels []models.AfeModel
	query := r.db.WithContext(ctx).Model(&models.AfeModel{}).
		Where("organization_id = ? AND status = ?", organizationID, status)
	query = r.applyFilter(query, filter)

	if err := query.Find(&afeModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(afeModels), nil
}

// FindOverdue finds submitted AFEs whose approval window elapsed before
// the given cutoff
func (r *GormAfeRepository) FindOverdue(ctx context.Context, organizationID uuid.UUID, cutoff time.Time) ([]afe.Afe, error) {
	var afeModels []models.AfeModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND status = ? AND submitted_at < ?",
			organizationID, afe.AfeStatusSubmitted, cutoff).
		Order("submitted_at ASC").
		Find(&afeModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(afeModels), nil
}

// Save creates or updates an AFE with optimistic locking. Domain
// mutations increment the aggregate version, so version 1 means the
// aggregate has never been persisted.
func (r *GormAfeRepository) Save(ctx context.Context, a *afe.Afe) error {
	model := models.AfeModelFromDomain(a)
	if a.Version == 1 {
		return r.db.WithContext(ctx).Create(model).Error
	}

	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", a.ID, a.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts AFEs matching the filter
func (r *GormAfeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.AfeModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAfeRepository) toDomainSlice(afeModels []models.AfeModel) []afe.Afe {
	afes := make([]afe.Afe, len(afeModels))
	for i, model := range afeModels {
		afes[i] = *model.ToDomain()
	}
	return afes
}

// applyFilter applies filter conditions to query
func (r *GormAfeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, AfeSortFields, "created_at")
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
func (r *GormAfeRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Search in AFE number, well name and description
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(afe_number ILIKE ? OR well_name ILIKE ? OR description ILIKE ?)",
			searchPattern, searchPattern, searchPattern)
	}

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if wellID, ok := filter.Filters["well_id"]; ok {
		query = query.Where("well_id = ?", wellID)
	}
	if category, ok := filter.Filters["category"]; ok {
		query = query.Where("category = ?", category)
	}

	return query
}

// Ensure GormAfeRepository implements AfeRepository
var _ afe.AfeRepository = (*GormAfeRepository)(nil)
