package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots.
// The version counter is the optimistic-concurrency token: every
// mutating operation increments it, and repositories reject saves whose
// expected version does not match the stored one. Domain events are
// buffered here, never published from inside a mutation; the application
// service drains the buffer after a successful save.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent appends a domain event to the pending buffer
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events in append order
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// OrganizationAggregateRoot extends BaseAggregateRoot with the owning
// operator organization. Every back-office aggregate is scoped to one
// organization; repositories enforce the scope on every lookup.
type OrganizationAggregateRoot struct {
	BaseAggregateRoot
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid;index"`
}

// NewOrganizationAggregateRoot creates a new organization-scoped aggregate root
func NewOrganizationAggregateRoot(organizationID uuid.UUID) OrganizationAggregateRoot {
	return OrganizationAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		OrganizationID:    organizationID,
	}
}

// NewOrganizationAggregateRootWithCreator creates a new organization-scoped
// aggregate root recording the creating user
func NewOrganizationAggregateRootWithCreator(organizationID, createdBy uuid.UUID) OrganizationAggregateRoot {
	return OrganizationAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		OrganizationID:    organizationID,
		CreatedBy:         &createdBy,
	}
}

// SetCreatedBy sets the creating user ID
func (o *OrganizationAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	o.CreatedBy = &userID
}

// GetCreatedBy returns the creating user ID
func (o *OrganizationAggregateRoot) GetCreatedBy() *uuid.UUID {
	return o.CreatedBy
}
