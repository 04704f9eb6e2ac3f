// Package events publishes record change events to Kafka and consumes them
// back for downstream audit.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	ClientCreated   EventType = "client_created"
	ClientUpdated   EventType = "client_updated"
	ClientDeleted   EventType = "client_deleted"
	ItemCreated     EventType = "inventory_created"
	ItemUpdated     EventType = "inventory_updated"
	ItemDeleted     EventType = "inventory_deleted"
	ItemAdjusted    EventType = "inventory_adjusted"
	SaleCreated     EventType = "sale_created"
	SaleUpdated     EventType = "sale_updated"
	SaleDeleted     EventType = "sale_deleted"
	ResourceCreated EventType = "resource_created"
	ResourceUpdated EventType = "resource_updated"
	ResourceDeleted EventType = "resource_deleted"
	BookingCreated  EventType = "booking_created"
	BookingUpdated  EventType = "booking_updated"
	BookingDeleted  EventType = "booking_deleted"
)

// Event describes one committed change.
type Event struct {
	Type       EventType   `json:"type"`
	EntityID   uuid.UUID   `json:"entityId"`
	Actor      string      `json:"actor"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload,omitempty"`
}

// New builds an event stamped with the current time.
func New(eventType EventType, entityID uuid.UUID, actor string, payload interface{}) Event {
	return Event{
		Type:       eventType,
		EntityID:   entityID,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}
