package api

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	zlog "github.com/rs/zerolog/log"

	"github.com/ysdkhr/tubebox/internal/app/store"
	"github.com/ysdkhr/tubebox/internal/infra/youtube"
)

// Request DTOs

// SeekRequest represents a seek request
type SeekRequest struct {
	Seconds float64 `json:"seconds" binding:"gte=0"`
}

// VolumeRequest represents a volume change request
type VolumeRequest struct {
	Volume float64 `json:"volume"`
}

// PlaySingleRequest represents a request to play one song outside any
// playlist. Input is a YouTube URL or a bare video ID.
type PlaySingleRequest struct {
	Input string `json:"input" binding:"required"`
}

// PlayFromQueueRequest represents a request to jump to a queue position
type PlayFromQueueRequest struct {
	Index int `json:"index" binding:"gte=0"`
}

// QueueResponse represents the play queue in API responses
type QueueResponse struct {
	Entries      []QueueEntryResponse `json:"entries"`
	CurrentIndex int                  `json:"currentIndex"`
}

// EngineEventRequest represents an engine event reported by the client
// player. Events carry the queue ID of the entry they belong to; events
// for anything but the current entry are discarded.
type EngineEventRequest struct {
	Type    string  `json:"type" binding:"required,oneof=progress duration ended error"`
	QueueID string  `json:"queueId" binding:"required"`
	Seconds float64 `json:"seconds"`
	Details string  `json:"details"`
}

// PlayerHandler handles playback transport and queue API requests
type PlayerHandler struct {
	store    *store.Store
	provider youtube.Provider
}

// NewPlayerHandler creates a new player handler instance
func NewPlayerHandler(st *store.Store, provider youtube.Provider) *PlayerHandler {
	return &PlayerHandler{store: st, provider: provider}
}

// GetState handles GET /api/player
func (h *PlayerHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, toPlayerStateResponse(h.store.Snapshot()))
}

// TogglePlayPause handles POST /api/player/toggle
func (h *PlayerHandler) TogglePlayPause(c *gin.Context) {
	h.store.TogglePlayPause()
	c.Status(http.StatusNoContent)
}

// Next handles POST /api/player/next
func (h *PlayerHandler) Next(c *gin.Context) {
	h.store.PlayNextSong()
	c.Status(http.StatusNoContent)
}

// Previous handles POST /api/player/previous
func (h *PlayerHandler) Previous(c *gin.Context) {
	h.store.PlayPreviousSong()
	c.Status(http.StatusNoContent)
}

// Seek handles POST /api/player/seek
func (h *PlayerHandler) Seek(c *gin.Context) {
	var req SeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Invalid request body: " + err.Error()})
		return
	}
	h.store.SeekTo(req.Seconds)
	c.Status(http.StatusNoContent)
}

// SetVolume handles POST /api/player/volume
func (h *PlayerHandler) SetVolume(c *gin.Context) {
	var req VolumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Invalid request body: " + err.Error()})
		return
	}
	h.store.SetVolume(req.Volume)
	c.Status(http.StatusNoContent)
}

// ToggleMute handles POST /api/player/mute
func (h *PlayerHandler) ToggleMute(c *gin.Context) {
	h.store.ToggleMute()
	c.Status(http.StatusNoContent)
}

// ToggleShuffle handles POST /api/player/shuffle
func (h *PlayerHandler) ToggleShuffle(c *gin.Context) {
	h.store.ToggleShuffle()
	c.Status(http.StatusNoContent)
}

// ToggleLoopSong handles POST /api/player/loop-song
func (h *PlayerHandler) ToggleLoopSong(c *gin.Context) {
	h.store.ToggleLoopSong()
	c.Status(http.StatusNoContent)
}

// ToggleLoopQueue handles POST /api/player/loop-queue
func (h *PlayerHandler) ToggleLoopQueue(c *gin.Context) {
	h.store.ToggleLoopQueue()
	c.Status(http.StatusNoContent)
}

// PlaySingle handles POST /api/player/play
func (h *PlayerHandler) PlaySingle(c *gin.Context) {
	var req PlaySingleRequest
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

	h.store.PlaySingleSong(songFromMetadata(videoID, meta))
	c.Status(http.StatusNoContent)
}

// GetQueue handles GET /api/queue
func (h *PlayerHandler) GetQueue(c *gin.Context) {
	entries, currentIndex := h.store.Queue()
	resp := QueueResponse{
		Entries:      make([]QueueEntryResponse, len(entries)),
		CurrentIndex: currentIndex,
	}
	for i, e := range entries {
		resp.Entries[i] = toQueueEntryResponse(e)
	}
	c.JSON(http.StatusOK, resp)
}

// ClearQueue handles DELETE /api/queue
func (h *PlayerHandler) ClearQueue(c *gin.Context) {
	h.store.ClearQueue()
	c.Status(http.StatusNoContent)
}

// RemoveFromQueue handles DELETE /api/queue/:queueId
func (h *PlayerHandler) RemoveFromQueue(c *gin.Context) {
	if err := h.store.RemoveSongFromQueue(c.Param("queueId")); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReorderQueue handles POST /api/queue/reorder
func (h *PlayerHandler) ReorderQueue(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Invalid request body: " + err.Error()})
		return
	}
	if err := h.store.ReorderSongInQueue(req.FromIndex, req.ToIndex); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PlayFromQueue handles POST /api/queue/play
func (h *PlayerHandler) PlayFromQueue(c *gin.Context) {
	var req PlayFromQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Invalid request body: " + err.Error()})
		return
	}
	if err := h.store.PlayFromQueueIndex(req.Index); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReportEngineEvent handles POST /api/player/events
func (h *PlayerHandler) ReportEngineEvent(c *gin.Context) {
	var req EngineEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Invalid request body: " + err.Error()})
		return
	}

	switch req.Type {
	case "progress":
		h.store.HandleProgress(req.QueueID, req.Seconds)
	case "duration":
		h.store.HandleDuration(req.QueueID, req.Seconds)
	case "ended":
		h.store.HandleEnded(req.QueueID)
	case "error":
		h.store.HandleError(req.QueueID, req.Details)
	}
	c.Status(http.StatusNoContent)
}

// SetupPlayerRoutes registers playback transport, queue and engine event routes
func SetupPlayerRoutes(apiGroup *gin.RouterGroup, st *store.Store, provider youtube.Provider) {
	handler := NewPlayerHandler(st, provider)

	player := apiGroup.Group("/player")
	{
		player.GET("", handler.GetState)
		player.POST("/toggle", handler.TogglePlayPause)
		player.POST("/next", handler.Next)
		player.POST("/previous", handler.Previous)
		player.POST("/seek", handler.Seek)
		player.POST("/volume", handler.SetVolume)
		player.POST("/mute", handler.ToggleMute)
		player.POST("/shuffle", handler.ToggleShuffle)
		player.POST("/loop-song", handler.ToggleLoopSong)
		player.POST("/loop-queue", handler.ToggleLoopQueue)
		player.POST("/play", handler.PlaySingle)
		player.POST("/events", handler.ReportEngineEvent)
	}

	queue := apiGroup.Group("/queue")
	{
		queue.GET("", handler.GetQueue)
		queue.DELETE("", handler.ClearQueue)
		queue.DELETE("/:queueId", handler.RemoveFromQueue)
		queue.POST("/reorder", handler.ReorderQueue)
		queue.POST("/play", handler.PlayFromQueue)
	}
}
