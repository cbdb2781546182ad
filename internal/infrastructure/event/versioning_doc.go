package event

/*
Event Versioning Strategy Documentation
=======================================

This document describes the event versioning strategy for maintaining backward
compatibility when evolving domain event schemas.

Overview
--------

When domain events are stored (in outbox, event store, or message queues) and
later replayed or processed, their schema may have changed since they were
created. The versioning system ensures that:

1. Old events can still be deserialized and processed
2. Events are automatically upgraded to the latest schema version
3. The upgrade process is transparent to event handlers

Key Components
--------------

1. BaseDomainEvent.Version
   - Every event has a schema_version field (defaults to 1)
   - The version is serialized with the event payload
   - Events without a version field are treated as version 1

2. VersionedEvent Interface
   - Events can implement this interface to expose their version
   - BaseDomainEvent already implements SchemaVersion()

3. EventUpgrader Interface
   - Transforms event payload from one version to the next
   - Must be sequential (v1->v2, v2->v3, etc.)

4. VersionRegistry
   - Manages registered event types and their versions
   - Stores the upgrader chain for each event type

5. EventSerializer
   - Consults the VersionRegistry during deserialization
   - Automatically upgrades older payloads before unmarshaling

Usage Examples
--------------

Example 1: Registering a Simple Event (Version 1 Only)
```go
serializer := NewEventSerializer()
serializer.Register("AfeSubmitted", &AfeSubmittedEvent{})
```

Example 2: Evolving an Event Schema

Original v1 event:
```go
type AfeSubmittedV1 struct {
    shared.BaseDomainEvent
    AfeID  uuid.UUID `json:"afe_id"`
    WellID uuid.UUID `json:"well_id"`
}
```

New v2 event (added well_name field):
```go
type AfeSubmittedV2 struct {
    shared.BaseDomainEvent
    AfeID    uuid.UUID `json:"afe_id"`
    WellID   uuid.UUID `json:"well_id"`
    WellName string    `json:"well_name"` // New in v2
}
```

Creating the upgrader:
```go
v1ToV2 := NewBaseEventUpgrader(1, 2, func(data map[string]any) (map[string]any, error) {
    // Add default well_name for v1 events
    data["well_name"] = "Unknown"
    return data, nil
})
```

Registering the versioned event:
```go
err := serializer.RegisterVersioned(
    "AfeSubmitted",
    2, // current version
    map[int]shared.DomainEvent{
        1: &AfeSubmittedV1{},
        2: &AfeSubmittedV2{},
    },
    v1ToV2,
)
```

Example 3: Using CommonUpgraders for Simple Changes
```go
upgraders := CommonUpgraders{}

// Add a new field with default value
addField := upgraders.AddField(1, "well_name", "Unknown")

// Rename a field
renameField := upgraders.RenameField(2, "well_id", "wellbore_id")

// Remove a field
removeField := upgraders.RemoveField(3, "deprecated_field")

// Transform a field value
transformField := upgraders.TransformField(4, "estimated_cost", func(v any) any {
    // Convert from cents to dollars
    if cents, ok := v.(float64); ok {
        return cents / 100
    }
    return v
})
```

Best Practices
--------------

1. Version Increment Rules
   - Increment version when adding/removing/renaming fields
   - Increment version when changing field types
   - Keep changes backward-compatible when possible

2. Upgrader Design
   - Each upgrader handles exactly one version transition
   - Upgraders must be deterministic (same input = same output)
   - Handle missing fields gracefully (use defaults)

3. Testing
   - Write tests for each upgrader in isolation
   - Test full upgrade chain from v1 to latest
   - Test with real historical payloads if available

4. Deployment
   - Deploy upgraders before producing events with new version
   - Monitor upgrade failures and address them

5. Event Type Naming
   - Use consistent naming (PascalCase, domain-prefixed)
   - Never change event type names (breaks routing)
   - If type name must change, treat as new event type

Schema Change Guidelines
------------------------

Safe Changes (backward compatible):
- Adding optional fields with defaults
- Adding new event types
- Relaxing field constraints

Breaking Changes (require upgrader):
- Renaming fields
- Changing field types
- Removing fields
- Adding required fields

File Organization
-----------------

```
backend/internal/
├── domain/shared/
│   └── event.go          # DomainEvent, VersionedEvent interfaces
└── infrastructure/event/
    ├── versioning.go     # VersionRegistry, EventUpgrader, CommonUpgraders
    ├── serializer.go     # EventSerializer with upgrade-on-deserialize
    └── event_registry.go # RegisterAllEvents function
```

Migration Workflow
------------------

When evolving an event schema:

1. Create new event struct (vN+1)
2. Create upgrader from vN to vN+1
3. Update RegisterAllEvents to use versioned registration
4. Deploy and monitor

Example workflow:
```go
// In domain/afe/afe_events.go
type AfeSubmittedEventV2 struct {
    shared.BaseDomainEvent
    // ... v2 fields
}

// In infrastructure/event/event_registry.go
func RegisterAllEvents(serializer *EventSerializer) {
    serializer.RegisterVersioned(
        "AfeSubmitted",
        2,
        map[int]shared.DomainEvent{
            1: &afe.AfeSubmittedEvent{},   // v1
            2: &afe.AfeSubmittedEventV2{}, // v2
        },
        afe.AfeSubmittedV1ToV2Upgrader(),
    )
}
```

Error Handling
--------------

The system handles errors at different levels:

1. Unknown event type: Error returned, event not processed
2. Missing upgrader: Error returned with specific version gap
3. Upgrade failure: Error returned, original payload preserved
4. JSON parse failure: Falls back to version 1
*/
