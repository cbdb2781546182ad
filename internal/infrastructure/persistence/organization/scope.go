// Package organization provides organization-scoped database access for GORM.
//
// This package implements automatic organization_id filtering to prevent
// cross-organization data access at the repository layer. It extracts the
// organization ID from the request context and automatically applies
// WHERE organization_id = ? conditions to all queries.
//
// Usage:
//
//	db := organization.NewOrganizationDB(gormDB)
//	scopedDB := db.WithContext(ctx) // automatically applies organization filtering
//	scopedDB.Find(&afes) // WHERE organization_id = 'xxx' is auto-added
package organization

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

// ErrOrganizationIDRequired is returned when organization_id is required but not found
var ErrOrganizationIDRequired = errors.New("organization_id is required but not found in context")

// ErrInvalidOrganizationID is returned when organization_id format is invalid
var ErrInvalidOrganizationID = errors.New("invalid organization_id format")

// Scope applies organization filtering to GORM queries
func Scope(organizationID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ?", organizationID)
	}
}

// ScopeString applies organization filtering using a string organization ID
func ScopeString(organizationID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ?", organizationID)
	}
}

// OrganizationDB wraps GORM DB with automatic organization scoping
type OrganizationDB struct {
	db                 *gorm.DB
	organizationColumn string
	required           bool
}

// Config holds configuration for OrganizationDB
type Config struct {
	// OrganizationColumn is the name of the organization ID column (default: "organization_id")
	OrganizationColumn string
	// Required determines if organization_id is mandatory (default: true)
	Required bool
}

// DefaultConfig returns default OrganizationDB configuration
func DefaultConfig() Config {
	return Config{
		OrganizationColumn: "organization_id",
		Required:           true,
	}
}

// NewOrganizationDB creates a new OrganizationDB with default configuration
func NewOrganizationDB(db *gorm.DB) *OrganizationDB {
	return NewOrganizationDBWithConfig(db, DefaultConfig())
}

// NewOrganizationDBWithConfig creates a new OrganizationDB with custom configuration
func NewOrganizationDBWithConfig(db *gorm.DB, cfg Config) *OrganizationDB {
	if cfg.OrganizationColumn == "" {
		cfg.OrganizationColumn = "organization_id"
	}
	return &OrganizationDB{
		db:                 db,
		organizationColumn: cfg.OrganizationColumn,
		required:           cfg.Required,
	}
}

// DB returns the underlying GORM DB without organization scoping
// Use with caution - this bypasses organization isolation
func (o *OrganizationDB) DB() *gorm.DB {
	return o.db
}

// WithContext returns a GORM DB scoped to the organization from context.
// It extracts organization_id from the context (set by the organization
// middleware) and automatically applies the organization filter to all
// queries.
//
// If organization_id is not found in context and Required is true, it
// returns a DB that will error on any operation.
func (o *OrganizationDB) WithContext(ctx context.Context) *gorm.DB {
	organizationID := logger.GetOrganizationID(ctx)

	if organizationID == "" {
		if o.required {
			// Return a DB that will error on execution
			db := o.db.WithContext(ctx)
			_ = db.AddError(ErrOrganizationIDRequired)
			return db
		}
		// If not required, return DB without organization scope
		return o.db.WithContext(ctx)
	}

	// Validate UUID format
	if _, err := uuid.Parse(organizationID); err != nil {
		db := o.db.WithContext(ctx)
		_ = db.AddError(ErrInvalidOrganizationID)
		return db
	}

	// Apply organization scope
	return o.db.WithContext(ctx).Scopes(ScopeString(organizationID))
}

// WithOrganization returns a GORM DB scoped to a specific organization ID.
// Use this when you have the organization ID directly rather than from context.
func (o *OrganizationDB) WithOrganization(organizationID uuid.UUID) *gorm.DB {
	if organizationID == uuid.Nil {
		if o.required {
			db := o.db
			_ = db.AddError(ErrOrganizationIDRequired)
			return db
		}
		return o.db
	}
	return o.db.Scopes(Scope(organizationID))
}

// WithOrganizationString returns a GORM DB scoped to a specific organization ID string.
func (o *OrganizationDB) WithOrganizationString(organizationID string) *gorm.DB {
	if organizationID == "" {
		if o.required {
			db := o.db
			_ = db.AddError(ErrOrganizationIDRequired)
			return db
		}
		return o.db
	}

	// Validate UUID format
	if _, err := uuid.Parse(organizationID); err != nil {
		db := o.db
		_ = db.AddError(ErrInvalidOrganizationID)
		return db
	}

	return o.db.Scopes(ScopeString(organizationID))
}

// ForOrganization creates a scoped DB carrying both the context and an
// explicit organization ID. Useful for passing a scoped DB around.
func (o *OrganizationDB) ForOrganization(ctx context.Context, organizationID uuid.UUID) *gorm.DB {
	return o.db.WithContext(ctx).Scopes(Scope(organizationID))
}

// Transaction executes a function within a database transaction with organization scope
func (o *OrganizationDB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	organizationID := logger.GetOrganizationID(ctx)

	if organizationID == "" && o.required {
		return ErrOrganizationIDRequired
	}

	return o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if organizationID != "" {
			tx = tx.Scopes(ScopeString(organizationID))
		}
		return fn(tx)
	})
}

// Unscoped returns the underlying DB without any organization scoping.
// WARNING: Use this with extreme caution as it bypasses organization isolation.
// This should only be used for system-level operations or migrations.
func (o *OrganizationDB) Unscoped() *gorm.DB {
	return o.db
}

// SetRequired changes whether organization_id is required
func (o *OrganizationDB) SetRequired(required bool) *OrganizationDB {
	return &OrganizationDB{
		db:                 o.db,
		organizationColumn: o.organizationColumn,
		required:           required,
	}
}
