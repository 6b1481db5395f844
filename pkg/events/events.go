// Package events defines event types and structures for draft lifecycle notifications.
package events

import (
	"time"

	"github.com/atriumhq/atrium/pkg/models"
)

type EventType string

// Topic carries every draft lifecycle event.
const Topic = "atrium.drafts"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	DraftCreatedEvent   EventType = "draft.created"
	DraftSavedEvent     EventType = "draft.saved"
	DraftPublishedEvent EventType = "draft.published"
	DraftDeletedEvent   EventType = "draft.deleted"
)

type BaseEvent struct {
	ID        string           `json:"id"`
	Type      EventType        `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	DraftID   string           `json:"draft_id"`
	DraftType models.DraftType `json:"draft_type"`
	Owner     string           `json:"owner,omitempty"`
	Metadata  map[string]any   `json:"metadata,omitempty"`
}

type DraftCreated struct {
	BaseEvent
}

func (d DraftCreated) GetType() EventType {
	return DraftCreatedEvent
}

type DraftSaved struct {
	BaseEvent

	// FieldCount is the size of the data document after the save.
	FieldCount int `json:"field_count"`
}

func (d DraftSaved) GetType() EventType {
	return DraftSavedEvent
}

type DraftPublished struct {
	BaseEvent

	PublishedAt time.Time `json:"published_at"`
}

func (d DraftPublished) GetType() EventType {
	return DraftPublishedEvent
}

type DraftDeleted struct {
	BaseEvent
}

func (d DraftDeleted) GetType() EventType {
	return DraftDeletedEvent
}
