// Package song provides the Song and QueueEntry domain entities.
package song

import "github.com/google/uuid"

// Song represents a YouTube video entity.
// Immutable once created; replaced wholesale when metadata is refetched.
type Song struct {
	ID           string `json:"id"`            // YouTube video ID
	Title        string `json:"title"`         // Video title
	Author       string `json:"author"`        // Channel name
	URL          string `json:"url"`           // Canonical watch URL
	ThumbnailURL string `json:"thumbnail_url"` // Thumbnail image URL
}

// PlaylistContext records where a queue entry was sourced from: a named
// playlist, or an ad-hoc single-song play with no playlist attached.
type PlaylistContext struct {
	playlistID   string
	fromPlaylist bool
}

// FromPlaylist returns a context naming the source playlist.
func FromPlaylist(playlistID string) PlaylistContext {
	return PlaylistContext{playlistID: playlistID, fromPlaylist: true}
}

// AdHoc returns the context for a single-song play outside any playlist.
func AdHoc() PlaylistContext {
	return PlaylistContext{}
}

// PlaylistID returns the source playlist ID and true when the entry was
// sourced from a playlist.
func (c PlaylistContext) PlaylistID() (string, bool) {
	return c.playlistID, c.fromPlaylist
}

// IsAdHoc returns true for single-song plays with no playlist context.
func (c PlaylistContext) IsAdHoc() bool {
	return !c.fromPlaylist
}

// FromSamePlaylist returns true when the context names the given playlist.
func (c PlaylistContext) FromSamePlaylist(playlistID string) bool {
	return c.fromPlaylist && c.playlistID == playlistID
}

// QueueEntry represents one occurrence of a song in the playback queue.
// The same song may appear multiple times; each occurrence gets its own
// QueueID. Entries are created fresh every time a song enters the queue
// and are never persisted.
type QueueEntry struct {
	Song    Song            // Song metadata
	QueueID string          // Unique per occurrence in the queue
	Context PlaylistContext // Source playlist, if any
}

// NewQueueEntry creates a queue entry for the song with a fresh QueueID.
func NewQueueEntry(s Song, ctx PlaylistContext) QueueEntry {
	return QueueEntry{
		Song:    s,
		QueueID: uuid.New().String(),
		Context: ctx,
	}
}
