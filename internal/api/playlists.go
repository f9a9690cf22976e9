package api

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	zlog "github.com/rs/zerolog/log"

	"github.com/ysdkhr/tubebox/internal/app/store"
	"github.com/ysdkhr/tubebox/internal/domain/playlist"
	"github.com/ysdkhr/tubebox/internal/infra/youtube"
)

// Request/Response DTOs

// CreatePlaylistRequest represents a request to create a new playlist
type CreatePlaylistRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenamePlaylistRequest represents a request to rename a playlist
type RenamePlaylistRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddSongRequest represents a request to add a song to a playlist.
// Input is a YouTube URL or a bare video ID.
type AddSongRequest struct {
	Input string `json:"input" binding:"required"`
}

// ReorderRequest represents a request to move an item between positions
type ReorderRequest struct {
	FromIndex int `json:"fromIndex" binding:"gte=0"`
	ToIndex   int `json:"toIndex" binding:"gte=0"`
}

// PlayPlaylistRequest represents a request to start a playlist
type PlayPlaylistRequest struct {
	StartIndex int `json:"startIndex"`
}

// PlaylistListResponse represents a list of playlists
type PlaylistListResponse struct {
	Playlists        []playlist.Playlist `json:"playlists"`
	ActivePlaylistID string              `json:"activePlaylistId"`
}

// AddSongResponse reports whether the song was added or already present
type AddSongResponse struct {
	Added bool `json:"added"`
}

// PlaylistHandler handles playlist-related API requests
type PlaylistHandler struct {
	store    *store.Store
	provider youtube.Provider
}

// NewPlaylistHandler creates a new playlist handler instance
func NewPlaylistHandler(st *store.Store, provider youtube.Provider) *PlaylistHandler {
	return &PlaylistHandler{store: st, provider: provider}
}

// respondStoreError maps store errors to HTTP status codes.
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrPlaylistNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "playlist_not_found", Message: "Playlist not found"})
	case errors.Is(err, store.ErrSongNotInPlaylist):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "song_not_found", Message: "Song not found in playlist"})
	case errors.Is(err, store.ErrQueueEntryNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "queue_entry_not_found", Message: "Queue entry not found"})
	case errors.Is(err, store.ErrEmptyPlaylist):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "empty_playlist", Message: "Playlist has no songs"})
	case errors.Is(err, store.ErrIndexOutOfRange):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "index_out_of_range", Message: "Index out of range"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal", Message: "Internal error"})
	}
}

// ListPlaylists handles GET /api/playlists
func (h *PlaylistHandler) ListPlaylists(c *gin.Context) {
	snap := h.store.Snapshot()
	c.JSON(http.StatusOK, PlaylistListResponse{
		Playlists:        snap.Playlists,
		ActivePlaylistID: snap.ActivePlaylistID,
	})
}

// CreatePlaylist handles POST /api/playlists
func (h *PlaylistHandler) CreatePlaylist(c *gin.Context) {
	var req CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Invalid request body: " + err.Error()})
		return
	}

	created := h.store.CreatePlaylist(req.Name)
	c.JSON(http.StatusCreated, created)
}

// GetPlaylist handles GET /api/playlists/:id
func (h *PlaylistHandler) GetPlaylist(c *gin.Context) {
	p, err := h.store.Playlist(c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeletePlaylist handles DELETE /api/playlists/:id
func (h *PlaylistHandler) DeletePlaylist(c *gin.Context) {
	if err := h.store.DeletePlaylist(c.Param("id")); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RenamePlaylist handles PATCH /api/playlists/:id
func (h *PlaylistHandler) RenamePlaylist(c *gin.Context) {
	var req RenamePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.store.RenamePlaylist(c.Param("id"), req.Name); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ActivatePlaylist handles POST /api/playlists/:id/activate
func (h *PlaylistHandler) ActivatePlaylist(c *gin.Context) {
	if err := h.store.SetActivePlaylist(c.Param("id")); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddSong handles POST /api/playlists/:id/songs
func (h *PlaylistHandler) AddSong(c *gin.Context) {
	var req AddSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Invalid request body: " + err.Error()})
		return
	}

	videoID, ok := youtube.ExtractVideoID(req.Input)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_video", Message: "Not a YouTube URL or video ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	meta, err := h.provider.Resolve(ctx, videoID)
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "video_not_found", Message: "Video not found or not embeddable"})
			return
		}
		zlog.Error().Err(err).Str("videoId", videoID).Msg("failed to resolve video metadata")
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "resolve_failed", Message: "Failed to resolve video metadata"})
		return
	}

	added, err := h.store.AddSongToPlaylist(c.Param("id"), songFromMetadata(videoID, meta))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, AddSongResponse{Added: added})
}

// RemoveSong handles DELETE /api/playlists/:id/songs/:songId
func (h *PlaylistHandler) RemoveSong(c *gin.Context) {
	if err := h.store.RemoveSongFromPlaylist(c.Param("id"), c.Param("songId")); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReorderSong handles POST /api/playlists/:id/songs/reorder
func (h *PlaylistHandler) ReorderSong(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.store.ReorderSongInPlaylist(c.Param("id"), req.FromIndex, req.ToIndex); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PlayPlaylist handles POST /api/playlists/:id/play
func (h *PlaylistHandler) PlayPlaylist(c *gin.Context) {
	var req PlayPlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.store.PlayPlaylist(c.Param("id"), req.StartIndex); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PlaySong handles POST /api/playlists/:id/songs/:songId/play
func (h *PlaylistHandler) PlaySong(c *gin.Context) {
	if err := h.store.PlaySongInPlaylist(c.Param("id"), c.Param("songId")); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetupPlaylistRoutes registers playlist routes
func SetupPlaylistRoutes(apiGroup *gin.RouterGroup, st *store.Store, provider youtube.Provider) {
	handler := NewPlaylistHandler(st, provider)

	playlists := apiGroup.Group("/playlists")
	{
		playlists.GET("", handler.ListPlaylists)
		playlists.POST("", handler.CreatePlaylist)
		playlists.GET("/:id", handler.GetPlaylist)
		playlists.DELETE("/:id", handler.DeletePlaylist)
		playlists.PATCH("/:id", handler.RenamePlaylist)
		playlists.POST("/:id/activate", handler.ActivatePlaylist)
		playlists.POST("/:id/play", handler.PlayPlaylist)
		playlists.POST("/:id/songs", handler.AddSong)
		playlists.DELETE("/:id/songs/:songId", handler.RemoveSong)
		playlists.POST("/:id/songs/reorder", handler.ReorderSong)
		playlists.POST("/:id/songs/:songId/play", handler.PlaySong)
	}
}
