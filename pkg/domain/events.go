package domain

import "time"

// EventType identifies the kind of a group event.
type EventType string

const (
	EventTypeGroupCreated      EventType = "group.created"
	EventTypeParticipantJoined EventType = "participant.joined"
	EventTypeExclusionAdded    EventType = "exclusion.added"
	EventTypeDrawCompleted     EventType = "draw.completed"
	EventTypeDrawFailed        EventType = "draw.failed"
)

// Event describes something that happened to a group. Events are published
// on the event bus and streamed to WebSocket clients; assignment contents
// are never carried in event data, only the fact that a draw happened.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	GroupID   string                 `json:"group_id"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}
