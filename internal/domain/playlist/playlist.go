// Package playlist provides the Playlist domain entity.
package playlist

import (
	"github.com/google/uuid"

	"github.com/ysdkhr/tubebox/internal/domain/song"
)

// Playlist represents a named, ordered collection of songs.
// No two songs in a playlist share the same song ID.
type Playlist struct {
	ID    string      `json:"id"`    // Unique ID, stable for the playlist's lifetime
	Name  string      `json:"name"`  // Display name
	Songs []song.Song `json:"songs"` // Ordered songs
}

// New creates an empty playlist with a fresh ID.
func New(name string) *Playlist {
	return &Playlist{
		ID:    uuid.New().String(),
		Name:  name,
		Songs: make([]song.Song, 0),
	}
}

// IndexOf returns the position of the song with the given ID, or -1.
func (p *Playlist) IndexOf(songID string) int {
	for i, s := range p.Songs {
		if s.ID == songID {
			return i
		}
	}
	return -1
}

// Contains returns true if a song with the given ID is in the playlist.
func (p *Playlist) Contains(songID string) bool {
	return p.IndexOf(songID) >= 0
}

// Append adds the song to the end of the playlist.
// Returns false without modifying the playlist if a song with the same ID
// is already present.
func (p *Playlist) Append(s song.Song) bool {
	if p.Contains(s.ID) {
		return false
	}
	p.Songs = append(p.Songs, s)
	return true
}

// RemoveSong removes every song with the given ID and returns the number
// of entries removed.
func (p *Playlist) RemoveSong(songID string) int {
	kept := p.Songs[:0]
	removed := 0
	for _, s := range p.Songs {
		if s.ID == songID {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	p.Songs = kept
	return removed
}

// Move relocates the song at fromIndex to toIndex.
// Returns false when either index is out of range.
func (p *Playlist) Move(fromIndex, toIndex int) bool {
	if fromIndex < 0 || fromIndex >= len(p.Songs) {
		return false
	}
	if toIndex < 0 || toIndex >= len(p.Songs) {
		return false
	}
	if fromIndex == toIndex {
		return true
	}
	s := p.Songs[fromIndex]
	p.Songs = append(p.Songs[:fromIndex], p.Songs[fromIndex+1:]...)
	p.Songs = append(p.Songs[:toIndex], append([]song.Song{s}, p.Songs[toIndex:]...)...)
	return true
}

// DedupeSongs drops songs whose ID already appeared earlier in the list,
// keeping the first occurrence. Returns the number of entries dropped.
// Used when restoring persisted state that may predate the uniqueness rule.
func (p *Playlist) DedupeSongs() int {
	seen := make(map[string]bool, len(p.Songs))
	kept := p.Songs[:0]
	dropped := 0
	for _, s := range p.Songs {
		if seen[s.ID] {
			dropped++
			continue
		}
		seen[s.ID] = true
		kept = append(kept, s)
	}
	p.Songs = kept
	return dropped
}

// Len returns the number of songs in the playlist.
func (p *Playlist) Len() int {
	return len(p.Songs)
}

// IsEmpty returns true if the playlist has no songs.
func (p *Playlist) IsEmpty() bool {
	return len(p.Songs) == 0
}

// Clone returns a deep copy of the playlist.
func (p *Playlist) Clone() *Playlist {
	songs := make([]song.Song, len(p.Songs))
	copy(songs, p.Songs)
	return &Playlist{ID: p.ID, Name: p.Name, Songs: songs}
}

// SongIDs returns all song IDs in playlist order.
func (p *Playlist) SongIDs() []string {
	ids := make([]string, len(p.Songs))
	for i, s := range p.Songs {
		ids[i] = s.ID
	}
	return ids
}
