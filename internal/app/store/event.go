package store

import "github.com/ysdkhr/tubebox/internal/domain/song"

// EventType represents a store event type.
type EventType int

const (
	EventStateChanged    EventType = iota // Any state mutation was committed
	EventTrackStarted                     // A queue entry became current and started playing
	EventPlaybackStopped                  // Playback stopped (queue ended or cleared)
	EventNotice                           // User-facing notice (duplicate add, empty playlist, ...)
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventStateChanged:
		return "state_changed"
	case EventTrackStarted:
		return "track_started"
	case EventPlaybackStopped:
		return "playback_stopped"
	case EventNotice:
		return "notice"
	default:
		return "unknown"
	}
}

// Event represents a store event.
type Event struct {
	Type   EventType
	Entry  *song.QueueEntry // Current entry (nil for some events)
	State  State            // Playback state after the mutation
	Notice string           // Message for EventNotice
}
