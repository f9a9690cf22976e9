package store

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ysdkhr/tubebox/internal/domain/song"
)

// engineCommand records one imperative command issued to the fake engine.
type engineCommand struct {
	name    string
	url     string
	queueID string
	value   float64
}

// fakeEngine records every command the store issues.
type fakeEngine struct {
	commands []engineCommand
}

func (e *fakeEngine) Load(url, queueID string) {
	e.commands = append(e.commands, engineCommand{name: "load", url: url, queueID: queueID})
}

func (e *fakeEngine) Play() {
	e.commands = append(e.commands, engineCommand{name: "play"})
}

func (e *fakeEngine) Pause() {
	e.commands = append(e.commands, engineCommand{name: "pause"})
}

func (e *fakeEngine) SeekTo(seconds float64) {
	e.commands = append(e.commands, engineCommand{name: "seek", value: seconds})
}

func (e *fakeEngine) SetVolume(volume float64) {
	e.commands = append(e.commands, engineCommand{name: "volume", value: volume})
}

// names returns the command names in issue order.
func (e *fakeEngine) names() []string {
	out := make([]string, len(e.commands))
	for i, c := range e.commands {
		out[i] = c.name
	}
	return out
}

// has reports whether a command with the given name was issued.
func (e *fakeEngine) has(name string) bool {
	for _, c := range e.commands {
		if c.name == name {
			return true
		}
	}
	return false
}

func (e *fakeEngine) reset() {
	e.commands = nil
}

// fakePersister records every durable snapshot written through.
type fakePersister struct {
	saves []SavedState
}

func (p *fakePersister) Save(state SavedState) error {
	p.saves = append(p.saves, state)
	return nil
}

func (p *fakePersister) last() SavedState {
	return p.saves[len(p.saves)-1]
}

func newTestStore(t *testing.T) (*Store, *fakeEngine, *fakePersister) {
	t.Helper()
	engine := &fakeEngine{}
	persister := &fakePersister{}
	s := New(Config{Rand: rand.New(rand.NewSource(1))}, engine, persister)
	t.Cleanup(s.Close)
	return s, engine, persister
}

func testSong(id string) song.Song {
	return song.Song{
		ID:     id,
		Title:  "Title " + id,
		Author: "Author " + id,
		URL:    "https://www.youtube.com/watch?v=" + id,
	}
}

// seedPlaylist creates a playlist holding the given songs and returns its ID.
func seedPlaylist(t *testing.T, s *Store, name string, songIDs ...string) string {
	t.Helper()
	p := s.CreatePlaylist(name)
	for _, id := range songIDs {
		added, err := s.AddSongToPlaylist(p.ID, testSong(id))
		require.NoError(t, err)
		require.True(t, added)
	}
	return p.ID
}

// assertInvariants checks the reachable-state invariants after a mutation.
func assertInvariants(t *testing.T, s *Store) {
	t.Helper()
	snap := s.Snapshot()

	if snap.CurrentIndex != -1 {
		require.GreaterOrEqual(t, snap.CurrentIndex, 0)
		require.Less(t, snap.CurrentIndex, len(snap.Queue))
	}
	require.False(t, snap.LoopSong && snap.LoopQueue, "loop modes must be mutually exclusive")

	for _, p := range snap.Playlists {
		seen := make(map[string]bool)
		for _, sng := range p.Songs {
			require.False(t, seen[sng.ID], "playlist %q holds song %q twice", p.Name, sng.ID)
			seen[sng.ID] = true
		}
	}
}
