package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ysdkhr/tubebox/internal/domain/song"
)

func TestNew(t *testing.T) {
	p := New("Road Trip")

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Road Trip", p.Name)
	assert.Empty(t, p.Songs)

	other := New("Road Trip")
	assert.NotEqual(t, p.ID, other.ID)
}

func TestPlaylist_Append(t *testing.T) {
	p := New("Test")

	assert.True(t, p.Append(song.Song{ID: "song-1", Title: "First"}))
	assert.True(t, p.Append(song.Song{ID: "song-2", Title: "Second"}))

	// Adding the same song twice is rejected.
	assert.False(t, p.Append(song.Song{ID: "song-1", Title: "First again"}))
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, []string{"song-1", "song-2"}, p.SongIDs())
}

func TestPlaylist_RemoveSong(t *testing.T) {
	tests := []struct {
		name        string
		songs       []song.Song
		removeID    string
		wantRemoved int
		wantIDs     []string
	}{
		{
			name:        "remove existing song",
			songs:       []song.Song{{ID: "a"}, {ID: "b"}, {ID: "c"}},
			removeID:    "b",
			wantRemoved: 1,
			wantIDs:     []string{"a", "c"},
		},
		{
			name:        "remove missing song",
			songs:       []song.Song{{ID: "a"}},
			removeID:    "x",
			wantRemoved: 0,
			wantIDs:     []string{"a"},
		},
		{
			name:        "empty playlist",
			songs:       []song.Song{},
			removeID:    "a",
			wantRemoved: 0,
			wantIDs:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Playlist{ID: "p1", Name: "Test", Songs: tt.songs}
			assert.Equal(t, tt.wantRemoved, p.RemoveSong(tt.removeID))
			assert.Equal(t, tt.wantIDs, p.SongIDs())
		})
	}
}

func TestPlaylist_Move(t *testing.T) {
	tests := []struct {
		name    string
		from    int
		to      int
		wantOK  bool
		wantIDs []string
	}{
		{name: "move forward", from: 0, to: 2, wantOK: true, wantIDs: []string{"b", "c", "a"}},
		{name: "move backward", from: 2, to: 0, wantOK: true, wantIDs: []string{"c", "a", "b"}},
		{name: "same position", from: 1, to: 1, wantOK: true, wantIDs: []string{"a", "b", "c"}},
		{name: "from out of range", from: 3, to: 0, wantOK: false, wantIDs: []string{"a", "b", "c"}},
		{name: "to out of range", from: 0, to: -1, wantOK: false, wantIDs: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Playlist{
				ID:    "p1",
				Songs: []song.Song{{ID: "a"}, {ID: "b"}, {ID: "c"}},
			}
			assert.Equal(t, tt.wantOK, p.Move(tt.from, tt.to))
			assert.Equal(t, tt.wantIDs, p.SongIDs())
		})
	}
}

func TestPlaylist_DedupeSongs(t *testing.T) {
	p := &Playlist{
		ID: "p1",
		Songs: []song.Song{
			{ID: "a", Title: "first a"},
			{ID: "b"},
			{ID: "a", Title: "second a"},
			{ID: "c"},
			{ID: "b"},
		},
	}

	assert.Equal(t, 2, p.DedupeSongs())
	assert.Equal(t, []string{"a", "b", "c"}, p.SongIDs())
	// First occurrence wins.
	assert.Equal(t, "first a", p.Songs[0].Title)
}

func TestPlaylist_Clone(t *testing.T) {
	p := &Playlist{
		ID:    "p1",
		Name:  "Original",
		Songs: []song.Song{{ID: "a"}, {ID: "b"}},
	}

	c := p.Clone()
	require.Equal(t, p, c)

	// Mutating the clone leaves the original untouched.
	c.Songs[0].ID = "z"
	c.Name = "Changed"
	assert.Equal(t, "a", p.Songs[0].ID)
	assert.Equal(t, "Original", p.Name)
}
