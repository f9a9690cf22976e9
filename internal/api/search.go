package api

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	zlog "github.com/rs/zerolog/log"

	"github.com/ysdkhr/tubebox/internal/domain/song"
	"github.com/ysdkhr/tubebox/internal/infra/youtube"
)

// SearchResponse represents search results in API responses
type SearchResponse struct {
	Results []song.Song `json:"results"`
}

// ResolveResponse represents a resolved song in API responses
type ResolveResponse struct {
	Song song.Song `json:"song"`
}

// SearchHandler handles metadata lookup API requests
type SearchHandler struct {
	provider youtube.Provider
}

// NewSearchHandler creates a new search handler instance
func NewSearchHandler(provider youtube.Provider) *SearchHandler {
	return &SearchHandler{provider: provider}
}

// Search handles GET /api/search?q=
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Missing query parameter q"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, err := h.provider.Search(ctx, query)
	if err != nil {
		if errors.Is(err, youtube.ErrMissingAPIKey) {
			c.JSON(http.StatusNotImplemented, ErrorResponse{Error: "search_unavailable", Message: "Search requires a YouTube API key"})
			return
		}
		zlog.Error().Err(err).Str("query", query).Msg("search failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "search_failed", Message: "Search failed"})
		return
	}

	songs := make([]song.Song, len(results))
	for i, r := range results {
		songs[i] = song.Song{
			ID:           r.VideoID,
			Title:        r.Title,
			Author:       r.Author,
			URL:          youtube.WatchURL(r.VideoID),
			ThumbnailURL: r.ThumbnailURL,
		}
	}
	c.JSON(http.StatusOK, SearchResponse{Results: songs})
}

// Resolve handles GET /api/resolve?input=
func (h *SearchHandler) Resolve(c *gin.Context) {
	input := c.Query("input")
	if input == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Missing query parameter input"})
		return
	}

	videoID, ok := youtube.ExtractVideoID(input)
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

	c.JSON(http.StatusOK, ResolveResponse{Song: songFromMetadata(videoID, meta)})
}

// SetupSearchRoutes registers metadata lookup routes
func SetupSearchRoutes(apiGroup *gin.RouterGroup, provider youtube.Provider) {
	handler := NewSearchHandler(provider)
	apiGroup.GET("/search", handler.Search)
	apiGroup.GET("/resolve", handler.Resolve)
}
