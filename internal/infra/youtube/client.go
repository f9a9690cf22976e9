package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
)

// ClientSettings holds settings for the YouTube-backed provider.
type ClientSettings struct {
	// APIKey is a YouTube Data API v3 key. Resolve works without one
	// (it goes through the public oEmbed endpoint); Search does not.
	APIKey     string `mapstructure:"api_key"`
	MaxResults int    `mapstructure:"max_results" default:"10" validate:"gte=1,lte=50"`
}

// Client looks up video metadata through the public oEmbed endpoint and
// searches through the Data API.
type Client struct {
	settings   ClientSettings
	httpClient *http.Client

	oembedURL string
	searchURL string

	cacheMu      sync.RWMutex
	resolveCache map[string]Metadata
}

// NewClient creates a YouTube metadata client from a settings map.
func NewClient(settings map[string]any) (*Client, error) {
	var s ClientSettings
	if err := mapstructure.Decode(settings, &s); err != nil {
		return nil, errors.Wrap(err, "failed to decode youtube provider settings")
	}
	if err := defaults.Set(&s); err != nil {
		return nil, errors.Wrap(err, "failed to set youtube provider defaults")
	}
	if err := validator.New().Struct(s); err != nil {
		return nil, errors.Wrap(err, "invalid youtube provider settings")
	}

	return &Client{
		settings:     s,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		oembedURL:    "https://www.youtube.com/oembed",
		searchURL:    "https://www.googleapis.com/youtube/v3/search",
		resolveCache: make(map[string]Metadata),
	}, nil
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Resolve returns metadata for a video ID via the oEmbed endpoint.
// Results are cached for the lifetime of the client.
func (c *Client) Resolve(ctx context.Context, videoID string) (Metadata, error) {
	c.cacheMu.RLock()
	if meta, ok := c.resolveCache[videoID]; ok {
		c.cacheMu.RUnlock()
		zlog.Debug().Str("videoId", videoID).Msg("using cached video metadata")
		return meta, nil
	}
	c.cacheMu.RUnlock()

	params := url.Values{}
	params.Set("url", WatchURL(videoID))
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.oembedURL+"?"+params.Encode(), nil)
	if err != nil {
		return Metadata{}, errors.Wrap(err, "failed to create oembed request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Metadata{}, errors.Wrap(err, "oembed request failed")
	}
	defer resp.Body.Close()

	// oEmbed answers 404 for unknown videos and 401/403 for ones that
	// disallow embedding. All of them are unplayable for us.
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusUnauthorized, http.StatusForbidden:
		return Metadata{}, errors.Wrapf(ErrNotFound, "video %s", videoID)
	default:
		return Metadata{}, errors.Newf("oembed request returned status %d", resp.StatusCode)
	}

	var body oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Metadata{}, errors.Wrap(err, "failed to decode oembed response")
	}

	meta := Metadata{
		Title:        body.Title,
		Author:       body.AuthorName,
		ThumbnailURL: body.ThumbnailURL,
	}

	c.cacheMu.Lock()
	c.resolveCache[videoID] = meta
	c.cacheMu.Unlock()

	return meta, nil
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// Search queries the Data API for videos matching the query.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if c.settings.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(c.settings.MaxResults))
	params.Set("key", c.settings.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create search request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "search request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("search request returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "failed to decode search response")
	}

	results := make([]SearchResult, 0, len(body.Items))
	for _, item := range body.Items {
		if item.ID.VideoID == "" {
			continue
		}
		results = append(results, SearchResult{
			VideoID:      item.ID.VideoID,
			Title:        item.Snippet.Title,
			Author:       item.Snippet.ChannelTitle,
			ThumbnailURL: item.Snippet.Thumbnails.Medium.URL,
		})
	}
	return results, nil
}
