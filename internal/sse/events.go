// Package sse implements Server-Sent Events for pushing journal and
// sobriety updates to connected clients.
package sse

import "time"

// EventType represents the type of SSE event.
type EventType string

const (
	// EventEntriesChanged signals that the owner's journal changed and the
	// client should refresh its entry list. The payload carries no entry
	// data; clients re-fetch through the normal list endpoint.
	EventEntriesChanged EventType = "entries.changed"

	// EventPeriodChanged signals that the owner's sobriety period was
	// started or reset.
	EventPeriodChanged EventType = "period.changed"

	// EventHeartbeat is a connection keepalive.
	EventHeartbeat EventType = "heartbeat"
)

// Event is a payload sent to connected clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
	Type      EventType `json:"type"`

	// UserID scopes delivery. Events for one user's journal must never
	// reach another user's stream. Empty means broadcast to all.
	UserID string `json:"-"`
}

// HeartbeatEventData is the payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	now := time.Now()
	return Event{
		Type:      EventHeartbeat,
		Timestamp: now,
		Data:      HeartbeatEventData{ServerTime: now},
	}
}

// NewEntriesChangedEvent creates a journal change notification for one user.
func NewEntriesChangedEvent(ownerID string) Event {
	return Event{
		Type:      EventEntriesChanged,
		Timestamp: time.Now(),
		UserID:    ownerID,
	}
}

// NewPeriodChangedEvent creates a sobriety period change notification.
func NewPeriodChangedEvent(ownerID string) Event {
	return Event{
		Type:      EventPeriodChanged,
		Timestamp: time.Now(),
		UserID:    ownerID,
	}
}
