package youtube

import (
	"context"
	"fmt"
)

// MockProvider serves canned metadata without network access.
// It exists for development without API credentials.
type MockProvider struct{}

// NewMockProvider creates a mock metadata provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Resolve(_ context.Context, videoID string) (Metadata, error) {
	return Metadata{
		Title:        fmt.Sprintf("Mock Video %s", videoID),
		Author:       "Mock Channel",
		ThumbnailURL: DefaultThumbnailURL(videoID),
	}, nil
}

func (p *MockProvider) Search(_ context.Context, query string) ([]SearchResult, error) {
	results := make([]SearchResult, 0, 3)
	for i := 0; i < 3; i++ {
		videoID := fmt.Sprintf("mock%07d", i)
		results = append(results, SearchResult{
			VideoID:      videoID,
			Title:        fmt.Sprintf("%s (result %d)", query, i+1),
			Author:       "Mock Channel",
			ThumbnailURL: DefaultThumbnailURL(videoID),
		})
	}
	return results, nil
}
