// Package youtube provides video metadata lookup, search and URL handling.
package youtube

import "context"

// Metadata describes a resolved video.
type Metadata struct {
	Title        string
	Author       string // Channel name
	ThumbnailURL string
}

// SearchResult represents one search hit.
type SearchResult struct {
	VideoID      string
	Title        string
	Author       string
	ThumbnailURL string
}

// Provider resolves video metadata and searches for videos.
type Provider interface {
	// Resolve returns metadata for a video ID.
	// Fails with ErrNotFound when the video does not exist or is not embeddable.
	Resolve(ctx context.Context, videoID string) (Metadata, error)

	// Search returns matching videos, an empty list when nothing matches.
	// Fails with ErrMissingAPIKey when search credentials are not configured.
	Search(ctx context.Context, query string) ([]SearchResult, error)
}
