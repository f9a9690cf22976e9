// Package api provides the HTTP API handlers and routing.
package api

import (
	"github.com/ysdkhr/tubebox/internal/app/store"
	"github.com/ysdkhr/tubebox/internal/domain/playlist"
	"github.com/ysdkhr/tubebox/internal/domain/song"
	"github.com/ysdkhr/tubebox/internal/infra/youtube"
)

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// QueueEntryResponse represents one queue occurrence in API responses
type QueueEntryResponse struct {
	Song       song.Song `json:"song"`
	QueueID    string    `json:"queueId"`
	PlaylistID string    `json:"playlistId,omitempty"`
	AdHoc      bool      `json:"adHoc,omitempty"`
}

// PlayerStateResponse represents the full player state in API responses
type PlayerStateResponse struct {
	Playlists        []playlist.Playlist  `json:"playlists"`
	ActivePlaylistID string               `json:"activePlaylistId"`
	Queue            []QueueEntryResponse `json:"queue"`
	CurrentIndex     int                  `json:"currentIndex"`
	State            string               `json:"state"`
	Playing          bool                 `json:"playing"`
	ProgressSeconds  float64              `json:"progressSeconds"`
	DurationSeconds  float64              `json:"durationSeconds"`
	Shuffling        bool                 `json:"shuffling"`
	LoopSong         bool                 `json:"loopSong"`
	LoopQueue        bool                 `json:"loopQueue"`
	Volume           float64              `json:"volume"`
	Muted            bool                 `json:"muted"`
	SinglePlay       bool                 `json:"singlePlay"`
}

func toQueueEntryResponse(e song.QueueEntry) QueueEntryResponse {
	resp := QueueEntryResponse{
		Song:    e.Song,
		QueueID: e.QueueID,
		AdHoc:   e.Context.IsAdHoc(),
	}
	if id, ok := e.Context.PlaylistID(); ok {
		resp.PlaylistID = id
	}
	return resp
}

func toPlayerStateResponse(snap store.Snapshot) PlayerStateResponse {
	queue := make([]QueueEntryResponse, len(snap.Queue))
	for i, e := range snap.Queue {
		queue[i] = toQueueEntryResponse(e)
	}
	return PlayerStateResponse{
		Playlists:        snap.Playlists,
		ActivePlaylistID: snap.ActivePlaylistID,
		Queue:            queue,
		CurrentIndex:     snap.CurrentIndex,
		State:            snap.State.String(),
		Playing:          snap.Playing,
		ProgressSeconds:  snap.ProgressSeconds,
		DurationSeconds:  snap.DurationSeconds,
		Shuffling:        snap.Shuffling,
		LoopSong:         snap.LoopSong,
		LoopQueue:        snap.LoopQueue,
		Volume:           snap.Volume,
		Muted:            snap.Muted,
		SinglePlay:       snap.SinglePlay,
	}
}

func songFromMetadata(videoID string, meta youtube.Metadata) song.Song {
	return song.Song{
		ID:           videoID,
		Title:        meta.Title,
		Author:       meta.Author,
		URL:          youtube.WatchURL(videoID),
		ThumbnailURL: meta.ThumbnailURL,
	}
}
