package store

import (
	zlog "github.com/rs/zerolog/log"

	"github.com/ysdkhr/tubebox/internal/domain/playlist"
	"github.com/ysdkhr/tubebox/internal/domain/song"
)

// CreatePlaylist creates an empty playlist with the given name.
// The first playlist created, or any playlist created while none is viewed,
// becomes the viewed one. Name validation belongs to the caller.
func (s *Store) CreatePlaylist(name string) playlist.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := playlist.New(name)
	s.playlists = append(s.playlists, p)
	if s.activePlaylistID == "" {
		s.activePlaylistID = p.ID
	}

	s.persistLocked()
	s.changedLocked()
	return *p.Clone()
}

// DeletePlaylist removes the playlist and purges every queue entry sourced
// from it. If the deleted playlist was the viewed one, the first remaining
// playlist (or none) becomes viewed.
func (s *Store) DeletePlaylist(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	kept := s.playlists[:0]
	for _, p := range s.playlists {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		zlog.Debug().Msgf("store: delete of unknown playlist %s ignored", id)
		return ErrPlaylistNotFound
	}
	s.playlists = kept

	if s.activePlaylistID == id {
		if len(s.playlists) > 0 {
			s.activePlaylistID = s.playlists[0].ID
		} else {
			s.activePlaylistID = ""
		}
	}

	s.purgeQueueLocked(func(e song.QueueEntry) bool {
		return e.Context.FromSamePlaylist(id)
	})

	s.persistLocked()
	s.changedLocked()
	return nil
}

// RenamePlaylist renames the playlist. Queue and playback are unaffected.
func (s *Store) RenamePlaylist(id, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPlaylistLocked(id)
	if p == nil {
		return ErrPlaylistNotFound
	}
	p.Name = newName

	s.persistLocked()
	s.changedLocked()
	return nil
}

// SetActivePlaylist switches the viewed playlist without touching playback.
func (s *Store) SetActivePlaylist(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findPlaylistLocked(id) == nil {
		return ErrPlaylistNotFound
	}
	s.activePlaylistID = id

	s.persistLocked()
	s.changedLocked()
	return nil
}

// AddSongToPlaylist appends the song to the playlist. Returns false with a
// user-facing notice when a song with the same ID is already present.
// When the playlist is the one currently playing and shuffle is off, the
// song is also spliced into the queue right after the current entry; under
// shuffle the splice is skipped and the new order is picked up at the next
// full queue build.
func (s *Store) AddSongToPlaylist(id string, sng song.Song) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPlaylistLocked(id)
	if p == nil {
		return false, ErrPlaylistNotFound
	}
	if !p.Append(sng) {
		s.noticeLocked("\"" + sng.Title + "\" is already in " + p.Name)
		return false, nil
	}

	if current := s.currentEntryLocked(); current != nil && current.Context.FromSamePlaylist(id) && !s.shuffling {
		entry := song.NewQueueEntry(sng, song.FromPlaylist(id))
		at := s.currentIndex + 1
		s.queue = append(s.queue[:at], append([]song.QueueEntry{entry}, s.queue[at:]...)...)
	}

	s.persistLocked()
	s.changedLocked()
	return true, nil
}

// RemoveSongFromPlaylist removes all songs with the given ID from the
// playlist, plus every queue entry for that song sourced from this playlist.
// The same song playing under a different context is untouched.
func (s *Store) RemoveSongFromPlaylist(id, songID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPlaylistLocked(id)
	if p == nil {
		return ErrPlaylistNotFound
	}
	p.RemoveSong(songID)

	s.purgeQueueLocked(func(e song.QueueEntry) bool {
		return e.Song.ID == songID && e.Context.FromSamePlaylist(id)
	})

	s.persistLocked()
	s.changedLocked()
	return nil
}

// ReorderSongInPlaylist moves one song within the playlist's sequence.
// Out-of-range indices are rejected rather than clamped. The queue keeps
// its own order once built.
func (s *Store) ReorderSongInPlaylist(id string, fromIndex, toIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPlaylistLocked(id)
	if p == nil {
		return ErrPlaylistNotFound
	}
	if !p.Move(fromIndex, toIndex) {
		return ErrIndexOutOfRange
	}

	s.persistLocked()
	s.changedLocked()
	return nil
}

// Playlists returns a copy of all playlists in creation order.
func (s *Store) Playlists() []playlist.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]playlist.Playlist, len(s.playlists))
	for i, p := range s.playlists {
		out[i] = *p.Clone()
	}
	return out
}

// Playlist returns a copy of the playlist with the given ID.
func (s *Store) Playlist(id string) (playlist.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPlaylistLocked(id)
	if p == nil {
		return playlist.Playlist{}, ErrPlaylistNotFound
	}
	return *p.Clone(), nil
}
