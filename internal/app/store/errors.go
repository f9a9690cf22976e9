package store

import "errors"

// Errors
var (
	ErrPlaylistNotFound   = errors.New("playlist not found")
	ErrEmptyPlaylist      = errors.New("playlist is empty")
	ErrSongNotInPlaylist  = errors.New("song not found in playlist")
	ErrQueueEntryNotFound = errors.New("queue entry not found")
	ErrIndexOutOfRange    = errors.New("index out of range")
)
