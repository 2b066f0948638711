// Package event defines the change notifications emitted after every
// mutation and the publishers that deliver them.
package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated     EventType = "created"
	EventTypeUpdated     EventType = "updated"
	EventTypeDeleted     EventType = "deleted"
	EventTypeBulkDeleted EventType = "bulk_deleted"
	EventTypeImported    EventType = "imported"
	EventTypeSynced      EventType = "synced"
	EventTypeChanged     EventType = "changed"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeBudget      EntityType = "budget"
	EntityTypeGoal        EntityType = "goal"
	EntityTypeSettings    EntityType = "settings"
	EntityTypeFilters     EntityType = "filters"
	EntityTypeStorage     EntityType = "storage"
)

// Event is the message delivered to subscribers.
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "transaction.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "transaction"
	Payload   interface{} `json:"payload"`   // Entity data or ids
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// IDsPayload is the payload of deletion events.
type IDsPayload struct {
	IDs []string `json:"ids"`
}

// StorageChange is the payload of storage.changed events.
type StorageChange struct {
	Key     string `json:"key"`
	Deleted bool   `json:"deleted"`
}

func TransactionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
}

func TransactionUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTransaction, payload)
}

func TransactionDeleted(ids ...string) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, IDsPayload{IDs: ids})
}

func TransactionsBulkDeleted(ids []string) Event {
	return NewEvent(EventTypeBulkDeleted, EntityTypeTransaction, IDsPayload{IDs: ids})
}

// TransactionsImported carries the number of imported rows.
func TransactionsImported(count int) Event {
	return NewEvent(EventTypeImported, EntityTypeTransaction, map[string]int{"count": count})
}

func BudgetCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeBudget, payload)
}

func BudgetUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBudget, payload)
}

func BudgetDeleted(ids ...string) Event {
	return NewEvent(EventTypeDeleted, EntityTypeBudget, IDsPayload{IDs: ids})
}

// BudgetsSynced is emitted after spending was recomputed for budgets.
func BudgetsSynced(payload interface{}) Event {
	return NewEvent(EventTypeSynced, EntityTypeBudget, payload)
}

func GoalCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeGoal, payload)
}

func GoalUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeGoal, payload)
}

func GoalDeleted(ids ...string) Event {
	return NewEvent(EventTypeDeleted, EntityTypeGoal, IDsPayload{IDs: ids})
}

func SettingsUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSettings, payload)
}

func FiltersUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeFilters, payload)
}

// StorageChanged reports a write to a persisted key.
func StorageChanged(key string, deleted bool) Event {
	return NewEvent(EventTypeChanged, EntityTypeStorage, StorageChange{Key: key, Deleted: deleted})
}
