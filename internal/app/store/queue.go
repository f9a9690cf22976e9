package store

import (
	zlog "github.com/rs/zerolog/log"

	"github.com/ysdkhr/tubebox/internal/domain/playlist"
	"github.com/ysdkhr/tubebox/internal/domain/song"
)

// PlayPlaylist builds a fresh queue from the playlist's current song order
// and starts playing. startIndex is clamped into the playlist's bounds.
// With shuffle on, the song at startIndex is pinned first and the rest are
// uniformly permuted after it; the current index is then always 0. Playing
// a playlist also switches the view to it.
func (s *Store) PlayPlaylist(id string, startIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.playPlaylistLocked(id, startIndex)
}

// playPlaylistLocked implements PlayPlaylist. Must be called with lock held.
func (s *Store) playPlaylistLocked(id string, startIndex int) error {
	p := s.findPlaylistLocked(id)
	if p == nil {
		s.noticeLocked("Playlist not found")
		return ErrPlaylistNotFound
	}
	if p.IsEmpty() {
		s.noticeLocked("Playlist \"" + p.Name + "\" has no songs")
		return ErrEmptyPlaylist
	}

	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex >= p.Len() {
		startIndex = p.Len() - 1
	}

	if s.shuffling {
		s.queue = s.buildShuffledQueueLocked(p, startIndex)
		s.currentIndex = 0
	} else {
		s.queue = buildQueue(p, 0)
		s.currentIndex = startIndex
	}

	s.activePlaylistID = id
	s.playing = true
	s.loadCurrentLocked()

	s.persistLocked()
	s.sendEventLocked(Event{Type: EventTrackStarted, Entry: s.currentEntryLocked(), State: s.stateLocked()})
	s.changedLocked()
	return nil
}

// PlaySongInPlaylist starts the playlist from the position of the given
// song. Errors produce a user-facing notice and no state change.
func (s *Store) PlaySongInPlaylist(playlistID, songID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPlaylistLocked(playlistID)
	if p == nil {
		s.noticeLocked("Playlist not found")
		return ErrPlaylistNotFound
	}
	idx := p.IndexOf(songID)
	if idx < 0 {
		s.noticeLocked("Song not found in playlist \"" + p.Name + "\"")
		return ErrSongNotInPlaylist
	}
	return s.playPlaylistLocked(playlistID, idx)
}

// PlaySingleSong replaces the queue with exactly one ad-hoc entry and
// starts playing it. Single-play mode is incompatible with playlist-level
// modes, so shuffle and queue-loop preferences are forced off.
func (s *Store) PlaySingleSong(sng song.Song) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = []song.QueueEntry{song.NewQueueEntry(sng, song.AdHoc())}
	s.currentIndex = 0
	s.playing = true
	s.shuffling = false
	s.loopQueue = false
	s.loadCurrentLocked()

	s.persistLocked()
	s.sendEventLocked(Event{Type: EventTrackStarted, Entry: s.currentEntryLocked(), State: s.stateLocked()})
	s.changedLocked()
}

// ClearQueue empties the queue and stops playback.
func (s *Store) ClearQueue() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = make([]song.QueueEntry, 0)
	s.stopLocked()

	s.sendEventLocked(Event{Type: EventPlaybackStopped, State: s.stateLocked()})
	s.changedLocked()
}

// Queue returns a copy of the queue and the current index.
func (s *Store) Queue() ([]song.QueueEntry, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]song.QueueEntry, len(s.queue))
	copy(out, s.queue)
	return out, s.currentIndex
}

// buildQueue creates fresh queue entries from the playlist's song order
// starting at startIndex.
func buildQueue(p *playlist.Playlist, startIndex int) []song.QueueEntry {
	entries := make([]song.QueueEntry, 0, p.Len()-startIndex)
	for _, sng := range p.Songs[startIndex:] {
		entries = append(entries, song.NewQueueEntry(sng, song.FromPlaylist(p.ID)))
	}
	return entries
}

// buildShuffledQueueLocked creates fresh queue entries with the song at
// pinIndex first and the remaining songs uniformly permuted after it.
// Must be called with lock held.
func (s *Store) buildShuffledQueueLocked(p *playlist.Playlist, pinIndex int) []song.QueueEntry {
	rest := make([]song.Song, 0, p.Len()-1)
	for i, sng := range p.Songs {
		if i != pinIndex {
			rest = append(rest, sng)
		}
	}
	s.rng.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})

	entries := make([]song.QueueEntry, 0, p.Len())
	entries = append(entries, song.NewQueueEntry(p.Songs[pinIndex], song.FromPlaylist(p.ID)))
	for _, sng := range rest {
		entries = append(entries, song.NewQueueEntry(sng, song.FromPlaylist(p.ID)))
	}
	return entries
}

// queueContextLocked returns the playlist ID shared by every queue entry,
// or false when the queue is empty, mixed, or holds ad-hoc entries.
// Must be called with lock held.
func (s *Store) queueContextLocked() (string, bool) {
	if len(s.queue) == 0 {
		return "", false
	}
	first, ok := s.queue[0].Context.PlaylistID()
	if !ok {
		return "", false
	}
	for _, e := range s.queue[1:] {
		if !e.Context.FromSamePlaylist(first) {
			return "", false
		}
	}
	return first, true
}

// reshuffleQueueLocked rebuilds the queue as a brand-new full permutation
// of the source playlist's current songs. Used at loop-wrap under shuffle
// so the repeat does not replay the same tail-then-head pattern. Returns
// false when the playlist no longer exists or is empty.
// Must be called with lock held.
func (s *Store) reshuffleQueueLocked(playlistID string) bool {
	p := s.findPlaylistLocked(playlistID)
	if p == nil || p.IsEmpty() {
		zlog.Debug().Msgf("store: loop reshuffle skipped, playlist %s gone or empty", playlistID)
		return false
	}

	songs := make([]song.Song, p.Len())
	copy(songs, p.Songs)
	s.rng.Shuffle(len(songs), func(i, j int) {
		songs[i], songs[j] = songs[j], songs[i]
	})

	entries := make([]song.QueueEntry, 0, len(songs))
	for _, sng := range songs {
		entries = append(entries, song.NewQueueEntry(sng, song.FromPlaylist(p.ID)))
	}
	s.queue = entries
	s.currentIndex = 0
	return true
}
