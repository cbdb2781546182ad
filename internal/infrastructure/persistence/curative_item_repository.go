package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/domain/title"
	"github.com/wellfield/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCurativeItemRepository implements title.CurativeItemRepository using GORM
type GormCurativeItemRepository struct {
	db *gorm.DB
}

// NewGormCurativeItemRepository creates a new GormCurativeItemRepository
func NewGormCurativeItemRepository(db *gorm.DB) *GormCurativeItemRepository {
	return &GormCurativeItemRepository{db: db}
}

// FindByID finds a curative item by its ID
func (r *GormCurativeItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*title.CurativeItem, error) {
	var model models.CurativeItemModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOrganization finds a curative item by ID for a specific organization
func (r *GormCurativeItemRepository) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*title.CurativeItem, error) {
	var model models.CurativeItemModel
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

// FindByLease finds all curative items for a lease
func (r *GormCurativeItemRepository) FindByLease(ctx context.Context, organizationID, leaseID uuid.UUID) ([]title.CurativeItem, error) {
	var itemModels []models.CurativeItemModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND lease_id = ?", organizationID, leaseID).
		Order("created_at DESC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(itemModels), nil
}

// FindOpenBySeverity finds non-terminal items at the given severity
func (r *GormCurativeItemRepository) FindOpenBySeverity(ctx context.Context, organizationID uuid.UUID, severity title.CurativeSeverity, filter shared.Filter) ([]title.CurativeItem, error) {
	var itemModels []models.CurativeItemModel
	query := r.db.WithContext(ctx).Model(&models.CurativeItemModel{}).
		Where("organization_id = ? AND severity = ? AND status IN ?", organizationID, severity,
			[]title.CurativeStatus{title.CurativeStatusOpen, title.CurativeStatusInProgress})
	query = r.applyFilter(query, filter)

	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(itemModels), nil
}

// FindAll finds all curative items with filtering
func (r *GormCurativeItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]title.CurativeItem, error) {
	var itemModels []models.CurativeItemModel
	query := r.db.WithContext(ctx).Model(&models.CurativeItemModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(itemModels), nil
}

// FindAllForOrganization finds all curative items for an organization with filtering
func (r *GormCurativeItemRepository) FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]title.CurativeItem, error) {
	var itemModels []models.CurativeItemModel
	query := r.db.WithContext(ctx).Model(&models.CurativeItemModel{}).
		Where("organization_id = ?", organizationID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(itemModels), nil
}

// Save creates or updates a curative item with optimistic locking
func (r *GormCurativeItemRepository) Save(ctx context.Context, ci *title.CurativeItem) error {
	model := models.CurativeItemModelFromDomain(ci)
	if ci.Version == 1 {
		return r.db.WithContext(ctx).Create(model).Error
	}

	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", ci.ID, ci.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts curative items matching the filter
func (r *GormCurativeItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CurativeItemModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCurativeItemRepository) toDomainSlice(itemModels []models.CurativeItemModel) []title.CurativeItem {
	items := make([]title.CurativeItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items
}

// applyFilter applies filter conditions to query
func (r *GormCurativeItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, CurativeItemSortFields, "created_at")
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
func (r *GormCurativeItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Search in lease name, defect type and description
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(lease_name ILIKE ? OR defect_type ILIKE ? OR description ILIKE ?)",
			searchPattern, searchPattern, searchPattern)
	}

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if severity, ok := filter.Filters["severity"]; ok {
		query = query.Where("severity = ?", severity)
	}
	if leaseID, ok := filter.Filters["lease_id"]; ok {
		query = query.Where("lease_id = ?", leaseID)
	}
	if assignedTo, ok := filter.Filters["assigned_to"]; ok {
		query = query.Where("assigned_to = ?", assignedTo)
	}

	return query
}

// Ensure GormCurativeItemRepository implements CurativeItemRepository
var _ title.CurativeItemRepository = (*GormCurativeItemRepository)(nil)
