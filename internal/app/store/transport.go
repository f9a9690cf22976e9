package store

import (
	zlog "github.com/rs/zerolog/log"

	"github.com/ysdkhr/tubebox/internal/domain/song"
)

// TogglePlayPause flips playback. When nothing is selected but the queue
// has entries, the first entry is selected and started.
func (s *Store) TogglePlayPause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentIndex < 0 {
		if len(s.queue) == 0 {
			return
		}
		s.currentIndex = 0
		s.playing = true
		s.loadCurrentLocked()
		s.sendEventLocked(Event{Type: EventTrackStarted, Entry: s.currentEntryLocked(), State: s.stateLocked()})
		s.changedLocked()
		return
	}

	s.playing = !s.playing
	if s.playing {
		s.engine.Play()
	} else {
		s.engine.Pause()
	}
	s.changedLocked()
}

// PlayNextSong advances the playback cursor.
//
// Single-song loop takes precedence over everything else: the current
// entry restarts from zero without advancing. Otherwise the cursor moves
// forward; at the end of the queue playback stops unless queue-loop is on,
// in which case the queue wraps — under shuffle with a consistent playlist
// context the queue is rebuilt as a fresh permutation first.
func (s *Store) PlayNextSong() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playNextLocked()
}

// playNextLocked implements PlayNextSong. Also the end-of-track and
// skip-on-error transition. Must be called with lock held.
func (s *Store) playNextLocked() {
	if len(s.queue) == 0 {
		zlog.Debug().Msg("store: next requested with empty queue")
		return
	}

	if s.loopSong {
		s.progressSeconds = 0
		s.playing = true
		s.engine.SeekTo(0)
		s.engine.Play()
		s.changedLocked()
		return
	}

	nextIndex := s.currentIndex + 1
	if nextIndex < len(s.queue) {
		s.currentIndex = nextIndex
		s.playing = true
		s.loadCurrentLocked()
		s.sendEventLocked(Event{Type: EventTrackStarted, Entry: s.currentEntryLocked(), State: s.stateLocked()})
		s.changedLocked()
		return
	}

	// End of queue reached.
	if !s.loopQueue {
		// The last entry stays visibly selected, paused at zero.
		s.playing = false
		s.progressSeconds = 0
		s.engine.Pause()
		s.engine.SeekTo(0)
		s.sendEventLocked(Event{Type: EventPlaybackStopped, Entry: s.currentEntryLocked(), State: s.stateLocked()})
		s.changedLocked()
		return
	}

	if contextID, ok := s.queueContextLocked(); ok && s.shuffling {
		if !s.reshuffleQueueLocked(contextID) {
			s.currentIndex = 0
		}
	} else {
		s.currentIndex = 0
	}
	s.playing = true
	s.loadCurrentLocked()
	s.sendEventLocked(Event{Type: EventTrackStarted, Entry: s.currentEntryLocked(), State: s.stateLocked()})
	s.changedLocked()
}

// PlayPreviousSong moves the cursor back. Past the restart threshold the
// current entry restarts instead (a quick double-tap goes back, a later
// tap restarts). At the start of the queue it wraps when queue-loop is on,
// otherwise the first entry restarts.
func (s *Store) PlayPreviousSong() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		zlog.Debug().Msg("store: previous requested with empty queue")
		return
	}

	if s.progressSeconds > s.config.RestartThresholdSec {
		s.restartCurrentLocked()
		return
	}

	prevIndex := s.currentIndex - 1
	if prevIndex >= 0 {
		s.currentIndex = prevIndex
		s.playing = true
		s.loadCurrentLocked()
		s.sendEventLocked(Event{Type: EventTrackStarted, Entry: s.currentEntryLocked(), State: s.stateLocked()})
		s.changedLocked()
		return
	}

	if s.loopQueue {
		s.currentIndex = len(s.queue) - 1
		s.playing = true
		s.loadCurrentLocked()
		s.sendEventLocked(Event{Type: EventTrackStarted, Entry: s.currentEntryLocked(), State: s.stateLocked()})
		s.changedLocked()
		return
	}

	s.restartCurrentLocked()
}

// restartCurrentLocked seeks the current entry back to zero and keeps it
// playing. Must be called with lock held.
func (s *Store) restartCurrentLocked() {
	s.progressSeconds = 0
	s.playing = true
	s.engine.SeekTo(0)
	s.engine.Play()
	s.changedLocked()
}

// ToggleShuffle flips the shuffle preference. The queue is not rebuilt
// immediately; the new order takes effect at the next full queue build.
// No-op in single-play mode.
func (s *Store) ToggleShuffle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.singlePlayLocked() {
		return
	}
	s.shuffling = !s.shuffling
	s.persistLocked()
	s.changedLocked()
}

// ToggleLoopSong flips the single-song loop. Turning it on turns queue-loop
// off. Allowed in single-play mode.
func (s *Store) ToggleLoopSong() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loopSong = !s.loopSong
	if s.loopSong {
		s.loopQueue = false
	}
	s.persistLocked()
	s.changedLocked()
}

// ToggleLoopQueue flips the queue loop. Turning it on turns song-loop off.
// No-op in single-play mode.
func (s *Store) ToggleLoopQueue() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.singlePlayLocked() {
		return
	}
	s.loopQueue = !s.loopQueue
	if s.loopQueue {
		s.loopSong = false
	}
	s.persistLocked()
	s.changedLocked()
}

// SeekTo commits a user-initiated seek. Ignored when nothing is selected
// or the position is outside the known duration (an unknown duration
// accepts any non-negative position).
func (s *Store) SeekTo(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentEntryLocked() == nil {
		return
	}
	if !s.validProgressLocked(seconds) {
		return
	}
	s.progressSeconds = seconds
	s.engine.SeekTo(seconds)
	s.changedLocked()
}

// SetVolume sets the volume, clamped into [0,1]. Zero implies muted;
// a positive volume while muted unmutes.
func (s *Store) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.volume = v
	if v == 0 {
		s.muted = true
	} else if s.muted {
		s.muted = false
	}
	s.engine.SetVolume(s.effectiveVolumeLocked())
	s.persistLocked()
	s.changedLocked()
}

// ToggleMute flips the mute flag. Unmuting at zero volume restores a small
// audible default rather than staying silent.
func (s *Store) ToggleMute() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.muted = !s.muted
	if !s.muted && s.volume == 0 {
		s.volume = s.config.UnmuteVolume
	}
	s.engine.SetVolume(s.effectiveVolumeLocked())
	s.persistLocked()
	s.changedLocked()
}

// effectiveVolumeLocked returns the volume the engine should apply.
// Must be called with lock held.
func (s *Store) effectiveVolumeLocked() float64 {
	if s.muted {
		return 0
	}
	return s.volume
}

// RemoveSongFromQueue removes the occurrence with the given queue ID.
func (s *Store) RemoveSongFromQueue(queueID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, e := range s.queue {
		if e.QueueID == queueID {
			found = true
			break
		}
	}
	if !found {
		return ErrQueueEntryNotFound
	}

	s.purgeQueueLocked(func(e song.QueueEntry) bool {
		return e.QueueID == queueID
	})
	s.changedLocked()
	return nil
}

// ReorderSongInQueue moves one entry within the queue. Out-of-range
// indices are rejected outright; silently clamping could silently play
// the wrong song. The currently playing entry keeps its identity.
func (s *Store) ReorderSongInQueue(fromIndex, toIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fromIndex < 0 || fromIndex >= len(s.queue) {
		return ErrIndexOutOfRange
	}
	if toIndex < 0 || toIndex >= len(s.queue) {
		return ErrIndexOutOfRange
	}
	if fromIndex == toIndex {
		return nil
	}

	e := s.queue[fromIndex]
	s.queue = append(s.queue[:fromIndex], s.queue[fromIndex+1:]...)
	s.queue = append(s.queue[:toIndex], append([]song.QueueEntry{e}, s.queue[toIndex:]...)...)

	switch {
	case s.currentIndex == fromIndex:
		s.currentIndex = toIndex
	case fromIndex < s.currentIndex && toIndex >= s.currentIndex:
		s.currentIndex--
	case fromIndex > s.currentIndex && toIndex <= s.currentIndex:
		s.currentIndex++
	}

	s.changedLocked()
	return nil
}

// PlayFromQueueIndex jumps the cursor to the given queue position and
// starts playing. Out-of-range indices are rejected outright.
func (s *Store) PlayFromQueueIndex(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.queue) {
		return ErrIndexOutOfRange
	}
	s.currentIndex = index
	s.playing = true
	s.loadCurrentLocked()
	s.sendEventLocked(Event{Type: EventTrackStarted, Entry: s.currentEntryLocked(), State: s.stateLocked()})
	s.changedLocked()
	return nil
}

// HandleProgress ingests an engine progress tick measured against the
// given queue entry. Stale ticks for an entry that is no longer current
// are discarded, so a slow tick cannot overwrite fresh state after a fast
// song change.
func (s *Store) HandleProgress(queueID string, seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.currentMatchesLocked(queueID) {
		return
	}
	if !s.validProgressLocked(seconds) {
		return
	}
	s.progressSeconds = seconds
	s.changedLocked()
}

// HandleDuration ingests the engine's duration-known event. Negative or
// unknown durations coerce to zero.
func (s *Store) HandleDuration(queueID string, seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.currentMatchesLocked(queueID) {
		return
	}
	if seconds < 0 {
		seconds = 0
	}
	s.durationSeconds = seconds
	s.changedLocked()
}

// HandleEnded ingests the engine's end-of-track event and advances.
func (s *Store) HandleEnded(queueID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.currentMatchesLocked(queueID) {
		return
	}
	s.playNextLocked()
}

// HandleError ingests a playback failure for the current entry. The policy
// is skip-and-continue: the failure is surfaced as a notice and the
// standard next-song transition runs.
func (s *Store) HandleError(queueID, details string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.currentMatchesLocked(queueID) {
		return
	}
	e := s.currentEntryLocked()
	zlog.Warn().Msgf("store: playback failed for %q: %s", e.Song.Title, details)
	s.noticeLocked("Could not play \"" + e.Song.Title + "\", skipping")
	s.playNextLocked()
}

// currentMatchesLocked reports whether the given identity tag names the
// current queue entry. Must be called with lock held.
func (s *Store) currentMatchesLocked(queueID string) bool {
	e := s.currentEntryLocked()
	return e != nil && e.QueueID == queueID
}

// validProgressLocked reports whether a progress value is acceptable for
// the current entry. Must be called with lock held.
func (s *Store) validProgressLocked(seconds float64) bool {
	if seconds < 0 {
		return false
	}
	if s.durationSeconds > 0 && seconds > s.durationSeconds {
		return false
	}
	return true
}
