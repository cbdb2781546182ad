package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/wellfield/backend/internal/domain/shared"
)

// EventSerializer handles JSON serialization/deserialization of domain events.
// Payloads written with an older schema version are upgraded to the current
// version before unmarshaling, so handlers only ever see the latest shape.
type EventSerializer struct {
	mu       sync.RWMutex
	registry map[string]reflect.Type // eventType -> Go type
	versions *VersionRegistry
}

// NewEventSerializer creates a new event serializer
func NewEventSerializer() *EventSerializer {
	return &EventSerializer{
		registry: make(map[string]reflect.Type),
		versions: NewVersionRegistry(),
	}
}

// Register registers an event type for deserialization
// The eventType should match what EventType() returns on the event
func (s *EventSerializer) Register(eventType string, eventInstance shared.DomainEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registry[eventType] = structType(eventInstance)
	s.versions.RegisterSimpleEvent(eventType, eventInstance)
}

// RegisterVersioned registers an event type that has evolved past schema
// version 1. versions maps each version number to an instance of the struct
// for that version; upgraders must form an unbroken chain up to currentVersion.
func (s *EventSerializer) RegisterVersioned(
	eventType string,
	currentVersion int,
	versions map[int]shared.DomainEvent,
	upgraders ...EventUpgrader,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.versions.RegisterVersionedEvent(eventType, currentVersion, versions, upgraders...); err != nil {
		return err
	}
	s.registry[eventType] = structType(versions[currentVersion])
	return nil
}

// Serialize serializes a domain event to JSON bytes
func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// Deserialize deserializes JSON bytes to a domain event, upgrading the
// payload first when it carries an older schema version.
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	t, ok := s.registry[eventType]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	payload := data
	if current, ok := s.versions.GetCurrentVersion(eventType); ok {
		if from := ExtractVersion(data); from < current {
			upgraded, _, err := s.versions.UpgradePayload(eventType, data, from)
			if err != nil {
				return nil, fmt.Errorf("failed to upgrade event %s: %w", eventType, err)
			}
			payload = upgraded
		}
	}

	// Create new instance of the registered type
	eventPtr := reflect.New(t).Interface()

	if err := json.Unmarshal(payload, eventPtr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	event, ok := eventPtr.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("deserialized object does not implement DomainEvent")
	}

	return event, nil
}

// IsRegistered checks if an event type is registered
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.registry[eventType]
	return ok
}

// RegisteredTypes returns all registered event types
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]string, 0, len(s.registry))
	for t := range s.registry {
		types = append(types, t)
	}
	return types
}

// CurrentVersion returns the current schema version for an event type
func (s *EventSerializer) CurrentVersion(eventType string) (int, bool) {
	return s.versions.GetCurrentVersion(eventType)
}

func structType(eventInstance shared.DomainEvent) reflect.Type {
	t := reflect.TypeOf(eventInstance)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
