package store

import (
	"context"
	"math/rand"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/ysdkhr/tubebox/internal/domain/playlist"
	"github.com/ysdkhr/tubebox/internal/domain/song"
)

// Engine is the playback engine handle the store issues commands to.
// The engine is a controllable, event-emitting black box; its events come
// back through the Handle* methods tagged with the queue entry identity.
type Engine interface {
	Load(url, queueID string) // Load a stream and start playing it
	Play()
	Pause()
	SeekTo(seconds float64)
	SetVolume(volume float64) // Effective volume in [0,1], 0 while muted
}

// Persister writes the durable subset of store state through to storage.
type Persister interface {
	Save(state SavedState) error
}

// Config holds store configuration.
type Config struct {
	RestartThresholdSec float64    // "Previous" restarts the track instead of going back above this progress
	UnmuteVolume        float64    // Volume restored when unmuting at zero volume
	Rand                *rand.Rand // Shuffle source (nil for a time-seeded one)
}

// Store owns the mutable playback state. All mutations happen through its
// exported operations; every operation is atomic from the caller's point
// of view.
type Store struct {
	mu sync.Mutex

	// Durable state
	playlists        []*playlist.Playlist
	activePlaylistID string // Viewed playlist, not necessarily playing ("" when none)
	shuffling        bool
	loopSong         bool
	loopQueue        bool
	volume           float64
	muted            bool

	// Transient state
	queue           []song.QueueEntry
	currentIndex    int // -1 when nothing selected
	playing         bool
	progressSeconds float64
	durationSeconds float64

	// Collaborators
	engine    Engine
	persister Persister

	// Configuration
	config Config
	rng    *rand.Rand

	// Events
	eventCh chan Event

	// Context
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new playback store.
func New(config Config, engine Engine, persister Persister) *Store {
	rng := config.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if config.RestartThresholdSec <= 0 {
		config.RestartThresholdSec = 3
	}
	if config.UnmuteVolume <= 0 || config.UnmuteVolume > 1 {
		config.UnmuteVolume = 0.1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		playlists:    make([]*playlist.Playlist, 0),
		queue:        make([]song.QueueEntry, 0),
		currentIndex: -1,
		volume:       1,
		engine:       engine,
		persister:    persister,
		config:       config,
		rng:          rng,
		eventCh:      make(chan Event, 16),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Events returns the event channel.
func (s *Store) Events() <-chan Event {
	return s.eventCh
}

// Close releases the store's resources.
func (s *Store) Close() {
	s.cancel()
	close(s.eventCh)
}

// Snapshot is an immutable copy of the full store state.
type Snapshot struct {
	Playlists        []playlist.Playlist
	ActivePlaylistID string
	Queue            []song.QueueEntry
	CurrentIndex     int
	State            State
	Playing          bool
	ProgressSeconds  float64
	DurationSeconds  float64
	Shuffling        bool
	LoopSong         bool
	LoopQueue        bool
	Volume           float64
	Muted            bool
	SinglePlay       bool
}

// Snapshot returns a copy of the current state for consumers.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlists := make([]playlist.Playlist, len(s.playlists))
	for i, p := range s.playlists {
		playlists[i] = *p.Clone()
	}
	queue := make([]song.QueueEntry, len(s.queue))
	copy(queue, s.queue)

	return Snapshot{
		Playlists:        playlists,
		ActivePlaylistID: s.activePlaylistID,
		Queue:            queue,
		CurrentIndex:     s.currentIndex,
		State:            s.stateLocked(),
		Playing:          s.playing,
		ProgressSeconds:  s.progressSeconds,
		DurationSeconds:  s.durationSeconds,
		Shuffling:        s.shuffling,
		LoopSong:         s.loopSong,
		LoopQueue:        s.loopQueue,
		Volume:           s.volume,
		Muted:            s.muted,
		SinglePlay:       s.singlePlayLocked(),
	}
}

// CurrentEntry returns the currently selected queue entry.
func (s *Store) CurrentEntry() (*song.QueueEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.currentEntryLocked()
	if e == nil {
		return nil, false
	}
	entry := *e
	return &entry, true
}

// stateLocked derives the playback state. Must be called with lock held.
func (s *Store) stateLocked() State {
	switch {
	case s.currentIndex < 0:
		return StateIdle
	case s.playing:
		return StatePlaying
	default:
		return StatePaused
	}
}

// singlePlayLocked reports whether the current entry is an ad-hoc play
// outside any playlist. Must be called with lock held.
func (s *Store) singlePlayLocked() bool {
	e := s.currentEntryLocked()
	return e != nil && e.Context.IsAdHoc()
}

// currentEntryLocked returns the entry at currentIndex, or nil.
// Must be called with lock held.
func (s *Store) currentEntryLocked() *song.QueueEntry {
	if s.currentIndex < 0 || s.currentIndex >= len(s.queue) {
		return nil
	}
	return &s.queue[s.currentIndex]
}

// findPlaylistLocked returns the playlist with the given ID, or nil.
// Must be called with lock held.
func (s *Store) findPlaylistLocked(id string) *playlist.Playlist {
	for _, p := range s.playlists {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// loadCurrentLocked instructs the engine to load the current entry and
// resets progress and duration. Must be called with lock held after the
// state transition is committed.
func (s *Store) loadCurrentLocked() {
	e := s.currentEntryLocked()
	if e == nil {
		return
	}
	s.progressSeconds = 0
	s.durationSeconds = 0
	s.engine.Load(e.Song.URL, e.QueueID)
	if !s.playing {
		s.engine.Pause()
	}
}

// stopLocked resets to the safe stopped state: nothing selected, not
// playing. Must be called with lock held.
func (s *Store) stopLocked() {
	s.currentIndex = -1
	s.playing = false
	s.progressSeconds = 0
	s.durationSeconds = 0
	s.engine.Pause()
}

// purgeQueueLocked removes every entry matched by the predicate and
// recomputes currentIndex, preserving the identity of the still-playing
// entry unless it is one of the removed ones. When the current entry is
// removed, playback advances to the entry now occupying its position.
// Must be called with lock held.
func (s *Store) purgeQueueLocked(match func(song.QueueEntry) bool) {
	if len(s.queue) == 0 {
		return
	}

	removedBefore := 0
	currentRemoved := false
	kept := make([]song.QueueEntry, 0, len(s.queue))
	for i, e := range s.queue {
		if match(e) {
			if i < s.currentIndex {
				removedBefore++
			} else if i == s.currentIndex {
				currentRemoved = true
			}
			continue
		}
		kept = append(kept, e)
	}
	s.queue = kept

	if s.currentIndex < 0 {
		return
	}
	if len(s.queue) == 0 {
		s.stopLocked()
		s.sendEventLocked(Event{Type: EventPlaybackStopped, State: s.stateLocked()})
		return
	}

	next := s.currentIndex - removedBefore
	if !currentRemoved {
		s.currentIndex = next
		return
	}

	// The current entry was removed: advance to the entry now occupying
	// its position. When the current entry was at the tail, settle on the
	// new last entry paused.
	if next >= len(s.queue) {
		s.currentIndex = len(s.queue) - 1
		s.playing = false
		s.progressSeconds = 0
		s.durationSeconds = 0
		s.engine.Pause()
		return
	}
	s.currentIndex = next
	s.loadCurrentLocked()
	s.sendEventLocked(Event{Type: EventTrackStarted, Entry: s.currentEntryLocked(), State: s.stateLocked()})
}

// persistLocked writes the durable subset of state through to storage.
// Storage failures are logged and never fail the user operation.
// Must be called with lock held.
func (s *Store) persistLocked() {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(s.savedStateLocked()); err != nil {
		zlog.Warn().Msgf("store: failed to persist state: %v", err)
	}
}

// sendEventLocked sends an event without blocking.
// Must be called with lock held.
func (s *Store) sendEventLocked(e Event) {
	select {
	case s.eventCh <- e:
		// Successfully sent
	case <-s.ctx.Done():
		// Store closed, don't send
	default:
		// Channel full, drop event
	}
}

// noticeLocked emits a user-facing notice. Must be called with lock held.
func (s *Store) noticeLocked(msg string) {
	s.sendEventLocked(Event{Type: EventNotice, State: s.stateLocked(), Notice: msg})
}

// changedLocked emits a state change event. Must be called with lock held
// after every committed mutation.
func (s *Store) changedLocked() {
	s.sendEventLocked(Event{Type: EventStateChanged, Entry: s.currentEntryLocked(), State: s.stateLocked()})
}
