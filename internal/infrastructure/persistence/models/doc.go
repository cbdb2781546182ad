// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Conversions translate between domain aggregates and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, OrganizationModel)
// - afe.go: AFE and partner approval models
// - partner.go: Partner and well interest models
// - revenue.go: Revenue distribution and distribution line models
// - lease.go: Lease operating statement and expense line models
// - title.go: Curative item models
// - permit.go: Permit models
// - outbox.go: Outbox pattern model for event delivery
// - conversions.go: Domain/model conversion helpers
package models
