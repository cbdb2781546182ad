package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/lease"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStatementRepository implements lease.StatementRepository using GORM
type GormStatementRepository struct {
	db *gorm.DB
}

// NewGormStatementRepository creates a new GormStatementRepository
func NewGormStatementRepository(db *gorm.DB) *GormStatementRepository {
	return &GormStatementRepository{db: db}
}

// FindByID finds a lease operating statement by its ID
func (r *GormStatementRepository) FindByID(ctx context.Context, id uuid.UUID) (*lease.LeaseOperatingStatement, error) {
	var model models.LeaseStatementModel
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

// FindByIDForOrganization finds a statement by ID for a specific organization
func (r *GormStatementRepository) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*lease.LeaseOperatingStatement, error) {
	var model models.LeaseStatementModel
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

// FindByLeaseAndPeriod finds the statement for a lease and production month
func (r *GormStatementRepository) FindByLeaseAndPeriod(ctx context.Context, organizationID, leaseID uuid.UUID, year, month int) (*lease.LeaseOperatingStatement, error) {
	var model models.LeaseStatementModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("organization_id = ? AND lease_id = ? AND period_year = ? AND period_month = ?",
			organizationID, leaseID, year, month).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all statements with filtering
func (r *GormStatementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]lease.LeaseOperatingStatement, error) {
	var statementModels []models.LeaseStatementModel
	query := r.db.WithContext(ctx).Model(&models.LeaseStatementModel{}).
		Preload("Lines")
	query = r.applyFilter(query, filter)

	if err := query.Find(&statementModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(statementModels), nil
}

// FindAllForOrganization finds all statements for an organization with filtering
func (r *GormStatementRepository) FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]lease.LeaseOperatingStatement, error) {
	var statementModels []models.LeaseStatementModel
	query := r.db.WithContext(ctx).Model(&models.LeaseStatementModel{}).
		Preload("Lines").
		Where("organization_id = ?", organizationID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&statementModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(statementModels), nil
}

// FindByStatus finds statements in a given status
func (r *GormStatementRepository) FindByStatus(ctx context.Context, organizationID uuid.UUID, status lease.StatementStatus, filter shared.Filter) ([]lease.LeaseOperatingStatement, error) {
	var statementModels []models.LeaseStatementModel
	query := r.db.WithContext(ctx).Model(&models.LeaseStatementModel{}).
		Preload("Lines").
		Where("organization_id = ? AND status = ?", organizationID, status)
	query = r.applyFilter(query, filter)

	if err := query.Find(&statementModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(statementModels), nil
}

// Save creates or updates a statement with optimistic locking. Updates
// run in a transaction that replaces the expense lines so the stored
// lines always mirror the aggregate.
func (r *GormStatementRepository) Save(ctx context.Context, los *lease.LeaseOperatingStatement) error {
	model := models.LeaseStatementModelFromDomain(los)
	if los.Version == 1 {
		return r.db.WithContext(ctx).Create(model).Error
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(model).
			Omit(clause.Associations).
			Where("id = ? AND version = ?", los.ID, los.Version-1).
			Updates(model)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if err := tx.Where("statement_id = ?", los.ID).
			Delete(&models.ExpenseLineModel{}).Error; err != nil {
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

// Count counts statements matching the filter
func (r *GormStatementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.LeaseStatementModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormStatementRepository) toDomainSlice(statementModels []models.LeaseStatementModel) []lease.LeaseOperatingStatement {
	statements := make([]lease.LeaseOperatingStatement, len(statementModels))
	for i, model := range statementModels {
		statements[i] = *model.ToDomain()
	}
	return statements
}

// applyFilter applies filter conditions to query
func (r *GormStatementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, StatementSortFields, "created_at")
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
func (r *GormStatementRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Search in lease name
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("lease_name ILIKE ?", searchPattern)
	}

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if leaseID, ok := filter.Filters["lease_id"]; ok {
		query = query.Where("lease_id = ?", leaseID)
	}
	if year, ok := filter.Filters["period_year"]; ok {
		query = query.Where("period_year = ?", year)
	}
	if month, ok := filter.Filters["period_month"]; ok {
		query = query.Where("period_month = ?", month)
	}

	return query
}

// Ensure GormStatementRepository implements StatementRepository
var _ lease.StatementRepository = (*GormStatementRepository)(nil)
