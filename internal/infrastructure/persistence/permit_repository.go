package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/permit"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPermitRepository implements permit.PermitRepository using GORM
type GormPermitRepository struct {
	db *gorm.DB
}

// NewGormPermitRepository creates a new GormPermitRepository
func NewGormPermitRepository(db *gorm.DB) *GormPermitRepository {
	return &GormPermitRepository{db: db}
}

// FindByID finds a permit by its ID
func (r *GormPermitRepository) FindByID(ctx context.Context, id uuid.UUID) (*permit.Permit, error) {
	var model models.PermitModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOrganization finds a permit by ID for a specific organization
func (r *GormPermitRepository) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*permit.Permit, error) {
	var model models.PermitModel
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

// FindByNumber finds a permit by agency permit number
func (r *GormPermitRepository) FindByNumber(ctx context.Context, organizationID uuid.UUID, permitNumber string) (*permit.Permit, error) {
	var model models.PermitModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND permit_number = ?", organizationID, permitNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByWell finds all permits for a well
func (r *GormPermitRepository) FindByWell(ctx context.Context, organizationID, wellID uuid.UUID) ([]permit.Permit, error) {
	var permitModels []models.PermitModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND well_id = ?", organizationID, wellID).
		Order("created_at DESC").
		Find(&permitModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(permitModels), nil
}

// FindExpiring finds approved permits whose expiration date falls on or
// before the cutoff
func (r *GormPermitRepository) FindExpiring(ctx context.Context, organizationID uuid.UUID, cutoff time.Time) ([]permit.Permit, error) {
	var permitModels []models.PermitModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND status = ? AND expiration_date <= ?",
			organizationID, permit.PermitStatusApproved, cutoff).
		Order("expiration_date ASC").
		Find(&permitModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(permitModels), nil
}

// OrganizationsWithApprovedPermits lists the organizations that hold at
// least one approved permit. Used by the expiry sweeper to know which
// organizations to scan.
func (r *GormPermitRepository) OrganizationsWithApprovedPermits(ctx context.Context) ([]uuid.UUID, error) {
	var organizationIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.PermitModel{}).
		Where("status = ?", permit.PermitStatusApproved).
		Distinct("organization_id").
		Pluck("organization_id", &organizationIDs).Error; err != nil {
		return nil, err
	}
	return organizationIDs, nil
}

// FindAll finds all permits with filtering
func (r *GormPermitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]permit.Permit, error) {
	var permitModels []models.PermitModel
	query := r.db.WithContext(ctx).Model(&models.PermitModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&permitModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(permitModels), nil
}

// FindAllForOrganization finds all permits for an organization with filtering
func (r *GormPermitRepository) FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]permit.Permit, error) {
	var permitModels []models.PermitModel
	query := r.db.WithContext(ctx).Model(&models.PermitModel{}).
		Where("organization_id = ?", organizationID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&permitModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(permitModels), nil
}

// Save creates or updates a permit with optimistic locking
func (r *GormPermitRepository) Save(ctx context.Context, p *permit.Permit) error {
	model := models.PermitModelFromDomain(p)
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

// Count counts permits matching the filter
func (r *GormPermitRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PermitModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPermitRepository) toDomainSlice(permitModels []models.PermitModel) []permit.Permit {
	permits := make([]permit.Permit, len(permitModels))
	for i, model := range permitModels {
		permits[i] = *model.ToDomain()
	}
	return permits
}

// applyFilter applies filter conditions to query
func (r *GormPermitRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, PermitSortFields, "created_at")
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
func (r *GormPermitRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Search in well name, agency and permit number
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(well_name ILIKE ? OR agency ILIKE ? OR permit_number ILIKE ?)",
			searchPattern, searchPattern, searchPattern)
	}

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if permitType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", permitType)
	}
	if wellID, ok := filter.Filters["well_id"]; ok {
		query = query.Where("well_id = ?", wellID)
	}

	return query
}

// Ensure GormPermitRepository implements PermitRepository
var _ permit.PermitRepository = (*GormPermitRepository)(nil)
