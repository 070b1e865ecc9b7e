package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the postgres repository.
const (
	// TopicItemCreated is published after a new Item is persisted.
	TopicItemCreated = "inventory.item.created"

	// TopicItemDeleted is published after an Item record is removed.
	// The worker uses it to re-run blob cleanup (idempotent).
	TopicItemDeleted = "inventory.item.deleted"
)

// ItemCreatedEvent is published after a new Item is persisted.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicItemCreated).
type ItemCreatedEvent struct {
	EventID     uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version     int       `json:"version"`  // Schema version; increment on breaking changes
	ItemID      int64     `json:"item_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PhotoRef    string    `json:"photo_ref,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ItemDeletedEvent is published after an Item record is removed.
// PhotoRef carries the blob name the item referenced at deletion time,
// empty when the item had no photo.
type ItemDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ItemID     int64     `json:"item_id"`
	PhotoRef   string    `json:"photo_ref,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
