package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// playingQueue builds a three-song playlist, starts it from the front and
// returns the playlist ID.
func playingQueue(t *testing.T, s *Store) string {
	t.Helper()
	pid := seedPlaylist(t, s, "P", "s1", "s2", "s3")
	require.NoError(t, s.PlayPlaylist(pid, 0))
	return pid
}

func TestTogglePlayPause(t *testing.T) {
	s, engine, _ := newTestStore(t)
	playingQueue(t, s)
	engine.reset()

	s.TogglePlayPause()
	snap := s.Snapshot()
	assert.False(t, snap.Playing)
	assert.Equal(t, StatePaused, snap.State)
	assert.True(t, engine.has("pause"))

	engine.reset()
	s.TogglePlayPause()
	snap = s.Snapshot()
	assert.True(t, snap.Playing)
	assert.Equal(t, StatePlaying, snap.State)
	assert.True(t, engine.has("play"))
}

func TestTogglePlayPause_EmptyQueueIsNoop(t *testing.T) {
	s, engine, _ := newTestStore(t)

	s.TogglePlayPause()

	snap := s.Snapshot()
	assert.Equal(t, -1, snap.CurrentIndex)
	assert.False(t, snap.Playing)
	assert.Empty(t, engine.commands)
}

func TestTogglePlayPause_ResumesStoppedTail(t *testing.T) {
	s, _, _ := newTestStore(t)
	playingQueue(t, s)

	// Run the queue off the end so playback stops with the last entry
	// still selected, then toggle resumes it.
	s.PlayNextSong()
	s.PlayNextSong()
	s.PlayNextSong() // end of queue, stops

	snap := s.Snapshot()
	require.False(t, snap.Playing)
	require.Equal(t, 2, snap.CurrentIndex)

	s.TogglePlayPause()
	assert.True(t, s.Snapshot().Playing)
}

// Advancing past the last song with queue-loop off stops
// playback and keeps the last song selected.
func TestPlayNextSong_StopsAtEndWithoutLoop(t *testing.T) {
	s, _, _ := newTestStore(t)
	playingQueue(t, s)

	s.PlayNextSong()
	s.PlayNextSong()

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.CurrentIndex)
	assert.Equal(t, "s3", snap.Queue[snap.CurrentIndex].Song.ID)
	assert.True(t, snap.Playing)

	s.PlayNextSong()

	snap = s.Snapshot()
	assert.False(t, snap.Playing)
	assert.Equal(t, 2, snap.CurrentIndex)
	assert.Equal(t, StatePaused, snap.State)
	assert.Zero(t, snap.ProgressSeconds)
	assertInvariants(t, s)
}

// With queue-loop on and shuffle off the queue wraps to the
// front without rebuilding.
func TestPlayNextSong_WrapsWithQueueLoop(t *testing.T) {
	s, _, _ := newTestStore(t)
	playingQueue(t, s)
	s.ToggleLoopQueue()

	before := queueSongIDs(s)

	s.PlayNextSong()
	s.PlayNextSong()
	s.PlayNextSong()

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.CurrentIndex)
	assert.True(t, snap.Playing)
	assert.Equal(t, before, queueSongIDs(s))
	assertInvariants(t, s)
}

// Single-song loop restarts the current entry and touches
// nothing else.
func TestPlayNextSong_LoopSongRestartsCurrent(t *testing.T) {
	s, engine, _ := newTestStore(t)
	playingQueue(t, s)
	s.ToggleLoopSong()

	before, beforeIndex := s.Queue()
	s.HandleProgress(before[beforeIndex].QueueID, 42)
	engine.reset()

	s.PlayNextSong()

	after, afterIndex := s.Queue()
	assert.Equal(t, beforeIndex, afterIndex)
	assert.Equal(t, before[beforeIndex].QueueID, after[afterIndex].QueueID)

	snap := s.Snapshot()
	assert.True(t, snap.Playing)
	assert.Zero(t, snap.ProgressSeconds)
	assert.True(t, engine.has("seek"))
	assert.False(t, engine.has("load"))
}

func TestPlayNextSong_LoopWrapReshufflesUnderShuffle(t *testing.T) {
	s, _, _ := newTestStore(t)

	pid := seedPlaylist(t, s, "P", "s1", "s2", "s3", "s4", "s5")
	s.ToggleShuffle()
	s.ToggleLoopQueue()
	require.NoError(t, s.PlayPlaylist(pid, 0))

	before, _ := s.Queue()
	beforeIDs := make(map[string]bool)
	for _, e := range before {
		beforeIDs[e.QueueID] = true
	}

	for range before {
		s.PlayNextSong()
	}

	after, current := s.Queue()
	require.Len(t, after, 5)
	assert.Equal(t, 0, current)
	assert.ElementsMatch(t, []string{"s1", "s2", "s3", "s4", "s5"}, queueSongIDs(s))
	// The rebuild mints fresh queue identities, not a wrap of the old order.
	for _, e := range after {
		assert.False(t, beforeIDs[e.QueueID])
	}
	assert.True(t, s.Snapshot().Playing)
	assertInvariants(t, s)
}

func TestPlayNextSong_EmptyQueueIsNoop(t *testing.T) {
	s, engine, _ := newTestStore(t)

	s.PlayNextSong()

	assert.Empty(t, engine.commands)
	assert.Equal(t, -1, s.Snapshot().CurrentIndex)
}

// Previous with enough progress restarts rather than going
// back; previous at the front with no progress restarts the first track.
func TestPlayPreviousSong(t *testing.T) {
	s, engine, _ := newTestStore(t)
	playingQueue(t, s)

	queue, current := s.Queue()
	s.HandleDuration(queue[current].QueueID, 120)
	s.HandleProgress(queue[current].QueueID, 10)
	engine.reset()

	s.PlayPreviousSong()

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.CurrentIndex)
	assert.Zero(t, snap.ProgressSeconds)
	assert.True(t, snap.Playing)
	assert.True(t, engine.has("seek"))
	assert.False(t, engine.has("load"))

	// Immediately again: progress is 0, index 0, no queue loop.
	engine.reset()
	s.PlayPreviousSong()

	snap = s.Snapshot()
	assert.Equal(t, 0, snap.CurrentIndex)
	assert.True(t, snap.Playing)
	assert.True(t, engine.has("seek"))
}

func TestPlayPreviousSong_MovesBack(t *testing.T) {
	s, _, _ := newTestStore(t)
	playingQueue(t, s)

	s.PlayNextSong()
	s.PlayNextSong()
	require.Equal(t, 2, s.Snapshot().CurrentIndex)

	s.PlayPreviousSong()
	assert.Equal(t, 1, s.Snapshot().CurrentIndex)
	assert.True(t, s.Snapshot().Playing)
}

func TestPlayPreviousSong_WrapsWithQueueLoop(t *testing.T) {
	s, _, _ := newTestStore(t)
	playingQueue(t, s)
	s.ToggleLoopQueue()

	s.PlayPreviousSong()

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.CurrentIndex)
	assert.True(t, snap.Playing)
}

func TestLoopTogglesAreMutuallyExclusive(t *testing.T) {
	s, _, _ := newTestStore(t)

	s.ToggleLoopSong()
	assert.True(t, s.Snapshot().LoopSong)

	s.ToggleLoopQueue()
	snap := s.Snapshot()
	assert.True(t, snap.LoopQueue)
	assert.False(t, snap.LoopSong)

	s.ToggleLoopSong()
	snap = s.Snapshot()
	assert.True(t, snap.LoopSong)
	assert.False(t, snap.LoopQueue)
	assertInvariants(t, s)
}

func TestModeTogglesInSinglePlayMode(t *testing.T) {
	s, _, _ := newTestStore(t)

	s.PlaySingleSong(testSong("solo"))

	s.ToggleShuffle()
	s.ToggleLoopQueue()
	snap := s.Snapshot()
	assert.False(t, snap.Shuffling, "shuffle is a no-op in single-play mode")
	assert.False(t, snap.LoopQueue, "queue loop is a no-op in single-play mode")

	// Looping the single song itself is allowed.
	s.ToggleLoopSong()
	assert.True(t, s.Snapshot().LoopSong)
}

func TestSeekTo(t *testing.T) {
	s, engine, _ := newTestStore(t)
	playingQueue(t, s)

	queue, current := s.Queue()
	s.HandleDuration(queue[current].QueueID, 100)
	engine.reset()

	s.SeekTo(42)
	assert.Equal(t, 42.0, s.Snapshot().ProgressSeconds)
	assert.True(t, engine.has("seek"))

	// Out-of-range and no-current seeks are ignored.
	engine.reset()
	s.SeekTo(101)
	s.SeekTo(-1)
	assert.Equal(t, 42.0, s.Snapshot().ProgressSeconds)
	assert.Empty(t, engine.commands)
}

func TestSeekTo_UnknownDurationAcceptsAnyPosition(t *testing.T) {
	s, _, _ := newTestStore(t)
	playingQueue(t, s)

	s.SeekTo(9999)
	assert.Equal(t, 9999.0, s.Snapshot().ProgressSeconds)
}

func TestSetVolume(t *testing.T) {
	s, engine, _ := newTestStore(t)

	s.SetVolume(0.5)
	snap := s.Snapshot()
	assert.Equal(t, 0.5, snap.Volume)
	assert.False(t, snap.Muted)

	// Clamped into [0,1].
	s.SetVolume(1.5)
	assert.Equal(t, 1.0, s.Snapshot().Volume)

	// Zero volume implies muted.
	s.SetVolume(0)
	snap = s.Snapshot()
	assert.True(t, snap.Muted)
	assert.Zero(t, snap.Volume)

	// A positive volume while muted unmutes.
	engine.reset()
	s.SetVolume(0.3)
	snap = s.Snapshot()
	assert.False(t, snap.Muted)
	assert.Equal(t, 0.3, snap.Volume)
	require.NotEmpty(t, engine.commands)
	assert.Equal(t, 0.3, engine.commands[len(engine.commands)-1].value)
}

func TestToggleMute(t *testing.T) {
	s, engine, _ := newTestStore(t)

	s.SetVolume(0.8)
	engine.reset()

	s.ToggleMute()
	snap := s.Snapshot()
	assert.True(t, snap.Muted)
	assert.Equal(t, 0.8, snap.Volume)
	// Muting drops the effective volume to zero without losing the setting.
	assert.Equal(t, 0.0, engine.commands[len(engine.commands)-1].value)

	s.ToggleMute()
	assert.False(t, s.Snapshot().Muted)
}

func TestToggleMute_UnmuteAtZeroRestoresAudibleVolume(t *testing.T) {
	s, _, _ := newTestStore(t)

	s.SetVolume(0)
	require.True(t, s.Snapshot().Muted)

	s.ToggleMute()
	snap := s.Snapshot()
	assert.False(t, snap.Muted)
	assert.Greater(t, snap.Volume, 0.0)
}

func TestRemoveSongFromQueue(t *testing.T) {
	s, _, _ := newTestStore(t)
	playingQueue(t, s)

	queue, _ := s.Queue()
	require.NoError(t, s.RemoveSongFromQueue(queue[1].QueueID))

	after, current := s.Queue()
	assert.Len(t, after, 2)
	assert.Equal(t, 0, current)
	assert.Equal(t, "s3", after[1].Song.ID)

	assert.ErrorIs(t, s.RemoveSongFromQueue("missing"), ErrQueueEntryNotFound)
	assertInvariants(t, s)
}

func TestRemoveSongFromQueue_CurrentEntryAdvances(t *testing.T) {
	s, _, _ := newTestStore(t)
	playingQueue(t, s)

	queue, current := s.Queue()
	require.NoError(t, s.RemoveSongFromQueue(queue[current].QueueID))

	after, newCurrent := s.Queue()
	assert.Len(t, after, 2)
	assert.Equal(t, 0, newCurrent)
	assert.Equal(t, "s2", after[newCurrent].Song.ID)
	assert.True(t, s.Snapshot().Playing)
}

func TestRemoveSongFromQueue_LastEntryStops(t *testing.T) {
	s, _, _ := newTestStore(t)

	s.PlaySingleSong(testSong("solo"))
	queue, _ := s.Queue()
	require.NoError(t, s.RemoveSongFromQueue(queue[0].QueueID))

	snap := s.Snapshot()
	assert.Empty(t, snap.Queue)
	assert.Equal(t, -1, snap.CurrentIndex)
	assert.False(t, snap.Playing)
	assertInvariants(t, s)
}

func TestReorderSongInQueue(t *testing.T) {
	s, _, _ := newTestStore(t)
	playingQueue(t, s)
	s.PlayNextSong() // current = s2 at index 1

	currentBefore, _ := s.CurrentEntry()

	require.NoError(t, s.ReorderSongInQueue(0, 2))

	queue, current := s.Queue()
	assert.Equal(t, []string{"s2", "s3", "s1"}, queueSongIDs(s))
	// The playing entry keeps its identity across the reorder.
	assert.Equal(t, currentBefore.QueueID, queue[current].QueueID)
	assert.Equal(t, 0, current)

	assert.ErrorIs(t, s.ReorderSongInQueue(0, 3), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.ReorderSongInQueue(-1, 0), ErrIndexOutOfRange)
	assertInvariants(t, s)
}

func TestReorderSongInQueue_MovingCurrent(t *testing.T) {
	s, _, _ := newTestStore(t)
	playingQueue(t, s)

	currentBefore, _ := s.CurrentEntry()

	require.NoError(t, s.ReorderSongInQueue(0, 2))

	queue, current := s.Queue()
	assert.Equal(t, 2, current)
	assert.Equal(t, currentBefore.QueueID, queue[current].QueueID)
}

func TestPlayFromQueueIndex(t *testing.T) {
	s, engine, _ := newTestStore(t)
	playingQueue(t, s)
	engine.reset()

	require.NoError(t, s.PlayFromQueueIndex(2))

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.CurrentIndex)
	assert.True(t, snap.Playing)
	assert.Zero(t, snap.ProgressSeconds)
	assert.True(t, engine.has("load"))

	assert.ErrorIs(t, s.PlayFromQueueIndex(3), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.PlayFromQueueIndex(-1), ErrIndexOutOfRange)
}

func TestHandleProgress_StaleTickDiscarded(t *testing.T) {
	s, _, _ := newTestStore(t)
	playingQueue(t, s)

	queue, current := s.Queue()
	staleID := queue[current].QueueID

	s.PlayNextSong()

	// A tick measured against the previous entry arrives late.
	s.HandleProgress(staleID, 55)
	assert.Zero(t, s.Snapshot().ProgressSeconds)

	// A tick for the now-current entry is accepted.
	fresh, freshIndex := s.Queue()
	s.HandleProgress(fresh[freshIndex].QueueID, 7)
	assert.Equal(t, 7.0, s.Snapshot().ProgressSeconds)
}

func TestHandleDuration(t *testing.T) {
	s, _, _ := newTestStore(t)
	playingQueue(t, s)

	queue, current := s.Queue()
	id := queue[current].QueueID

	s.HandleDuration(id, 215)
	assert.Equal(t, 215.0, s.Snapshot().DurationSeconds)

	// Negative durations coerce to zero.
	s.HandleDuration(id, -3)
	assert.Zero(t, s.Snapshot().DurationSeconds)

	// Stale duration reports are discarded.
	s.PlayNextSong()
	s.HandleDuration(id, 99)
	assert.Zero(t, s.Snapshot().DurationSeconds)
}

func TestHandleEnded_AdvancesToNext(t *testing.T) {
	s, _, _ := newTestStore(t)
	playingQueue(t, s)

	queue, current := s.Queue()
	s.HandleEnded(queue[current].QueueID)

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.CurrentIndex)
	assert.True(t, snap.Playing)
}

func TestHandleError_SkipsToNext(t *testing.T) {
	s, _, _ := newTestStore(t)
	playingQueue(t, s)

	queue, current := s.Queue()
	s.HandleError(queue[current].QueueID, "embedding disabled")

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.CurrentIndex)
	assert.True(t, snap.Playing)
	assertInvariants(t, s)
}

func TestHandleError_StaleEventIgnored(t *testing.T) {
	s, _, _ := newTestStore(t)
	playingQueue(t, s)

	queue, current := s.Queue()
	staleID := queue[current].QueueID
	s.PlayNextSong()

	s.HandleError(staleID, "late failure")

	// The late failure for the previous entry does not skip the new one.
	assert.Equal(t, 1, s.Snapshot().CurrentIndex)
}
