package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents an immutable record of something that happened
// to an aggregate. Events are buffered on the aggregate and published
// after the new state has been durably persisted, never before.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	OrganizationID() uuid.UUID
}

// VersionedEvent extends DomainEvent with schema versioning support.
// Events without an explicit version are treated as version 1.
type VersionedEvent interface {
	DomainEvent
	SchemaVersion() int
}

// BaseDomainEvent provides common fields for all domain events
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	AggID     uuid.UUID `json:"aggregate_id"`
	AggType   string    `json:"aggregate_type"`
	OrgID     uuid.UUID `json:"organization_id"`
	Version   int       `json:"schema_version,omitempty"`
}

// EventID returns the unique event identifier
func (e *BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type of the event
func (e *BaseDomainEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred
func (e *BaseDomainEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the ID of the aggregate that produced this event
func (e *BaseDomainEvent) AggregateID() uuid.UUID {
	return e.AggID
}

// AggregateType returns the type of the aggregate
func (e *BaseDomainEvent) AggregateType() string {
	return e.AggType
}

// OrganizationID returns the owning organization
func (e *BaseDomainEvent) OrganizationID() uuid.UUID {
	return e.OrgID
}

// SchemaVersion returns the schema version of the event.
// Zero values from payloads serialized before versioning existed map to 1.
func (e *BaseDomainEvent) SchemaVersion() int {
	if e.Version == 0 {
		return 1
	}
	return e.Version
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType, aggType string, aggID, organizationID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		AggID:     aggID,
		AggType:   aggType,
		OrgID:     organizationID,
		Version:   1,
	}
}

// NewVersionedBaseDomainEvent creates a base domain event with an explicit
// schema version. Versions below 1 are clamped to 1.
func NewVersionedBaseDomainEvent(eventType, aggType string, aggID, organizationID uuid.UUID, schemaVersion int) BaseDomainEvent {
	if schemaVersion < 1 {
		schemaVersion = 1
	}
	e := NewBaseDomainEvent(eventType, aggType, aggID, organizationID)
	e.Version = schemaVersion
	return e
}

// StatusChangedEvent is the generic transition event appended alongside
// the transition-specific event on every status change.
type StatusChangedEvent struct {
	BaseDomainEvent
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// EventType returns the event type name
func (e *StatusChangedEvent) EventType() string {
	return e.Type
}

// NewStatusChangedEvent creates a StatusChangedEvent for the given aggregate
func NewStatusChangedEvent(aggType string, aggID, organizationID uuid.UUID, from, to string) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: NewBaseDomainEvent(aggType+"StatusChanged", aggType, aggID, organizationID),
		FromStatus:      from,
		ToStatus:        to,
	}
}
