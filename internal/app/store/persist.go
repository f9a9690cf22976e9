package store

import (
	zlog "github.com/rs/zerolog/log"

	"github.com/ysdkhr/tubebox/internal/domain/playlist"
	"github.com/ysdkhr/tubebox/internal/domain/song"
)

// SavedState is the durable subset of store state: playlists and
// preferences. The queue, cursor and playback flags are deliberately
// absent; every session starts with an empty queue and stopped playback.
type SavedState struct {
	Playlists        []playlist.Playlist `json:"playlists"`
	ActivePlaylistID string              `json:"active_playlist_id"`
	Volume           float64             `json:"volume"`
	Muted            bool                `json:"muted"`
	Shuffling        bool                `json:"shuffling"`
	LoopSong         bool                `json:"loop_song"`
	LoopQueue        bool                `json:"loop_queue"`
}

// savedStateLocked snapshots the durable subset for write-through.
// Must be called with lock held.
func (s *Store) savedStateLocked() SavedState {
	playlists := make([]playlist.Playlist, len(s.playlists))
	for i, p := range s.playlists {
		playlists[i] = *p.Clone()
	}
	return SavedState{
		Playlists:        playlists,
		ActivePlaylistID: s.activePlaylistID,
		Volume:           s.volume,
		Muted:            s.muted,
		Shuffling:        s.shuffling,
		LoopSong:         s.loopSong,
		LoopQueue:        s.loopQueue,
	}
}

// Restore rehydrates durable state at startup. Songs in each playlist are
// deduplicated by ID keeping the first occurrence, a dangling viewed
// playlist is repaired to the first playlist (or none), preferences are
// normalized, and every transient field starts from scratch.
func (s *Store) Restore(saved SavedState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playlists = make([]*playlist.Playlist, 0, len(saved.Playlists))
	for i := range saved.Playlists {
		p := saved.Playlists[i].Clone()
		if dropped := p.DedupeSongs(); dropped > 0 {
			zlog.Info().Msgf("store: dropped %d duplicate songs from playlist %q on restore", dropped, p.Name)
		}
		s.playlists = append(s.playlists, p)
	}

	s.activePlaylistID = saved.ActivePlaylistID
	if s.activePlaylistID != "" && s.findPlaylistLocked(s.activePlaylistID) == nil {
		if len(s.playlists) > 0 {
			s.activePlaylistID = s.playlists[0].ID
		} else {
			s.activePlaylistID = ""
		}
	}
	if s.activePlaylistID == "" && len(s.playlists) > 0 {
		s.activePlaylistID = s.playlists[0].ID
	}

	s.volume = saved.Volume
	if s.volume < 0 {
		s.volume = 0
	}
	if s.volume > 1 {
		s.volume = 1
	}
	s.muted = saved.Muted
	s.shuffling = saved.Shuffling
	s.loopSong = saved.LoopSong
	s.loopQueue = saved.LoopQueue
	if s.loopSong && s.loopQueue {
		// The two loop modes are mutually exclusive; song loop wins.
		s.loopQueue = false
	}

	s.queue = make([]song.QueueEntry, 0)
	s.currentIndex = -1
	s.playing = false
	s.progressSeconds = 0
	s.durationSeconds = 0

	s.changedLocked()
}
