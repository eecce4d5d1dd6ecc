package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamCatalogChanged = "stream:catalog:changed"
)

// EntityKind - вид изменённой сущности
type EntityKind string

const (
	EntityPOI       EntityKind = "poi"
	EntityCharacter EntityKind = "character"
	EntityItinerary EntityKind = "itinerary"
	EntityCategory  EntityKind = "category"
	EntityPeriod    EntityKind = "period"
)

// ChangeAction - тип изменения
type ChangeAction string

const (
	ActionCreated ChangeAction = "created"
	ActionUpdated ChangeAction = "updated"
	ActionDeleted ChangeAction = "deleted"
)

// CatalogEvent публикуется после успешной записи
type CatalogEvent struct {
	EventID    uuid.UUID    `json:"event_id"`
	Kind       EntityKind   `json:"kind"`
	Action     ChangeAction `json:"action"`
	EntityID   string       `json:"entity_id"`
	AuthorID   string       `json:"author_id,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// NewCatalogEvent builds an event stamped with a fresh id and the current time.
func NewCatalogEvent(kind EntityKind, action ChangeAction, entityID, authorID string) CatalogEvent {
	return CatalogEvent{
		EventID:    uuid.New(),
		Kind:       kind,
		Action:     action,
		EntityID:   entityID,
		AuthorID:   authorID,
		OccurredAt: time.Now().UTC(),
	}
}

// InvalidatesNarration reports whether cached narration text for the entity
// may no longer match its content.
func (e CatalogEvent) InvalidatesNarration() bool {
	return e.Kind == EntityPOI && (e.Action == ActionUpdated || e.Action == ActionDeleted)
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}

// NotificationLevel - тип уведомления для клиента
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
	NotificationInfo    NotificationLevel = "info"
)

// Notification - закрываемое уведомление с автоматическим истечением
type Notification struct {
	ID        string            `json:"id"`
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}
