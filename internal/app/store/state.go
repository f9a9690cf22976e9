// Package store provides the playback store: the single source of truth for
// playlists, the playback queue and transport state, with integrated queue
// management.
package store

// State represents the derived playback state.
type State int

const (
	StateIdle    State = iota // Nothing selected (queue empty or cleared)
	StatePlaying              // Current entry is playing
	StatePaused               // Current entry is selected but paused
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}
