package youtube

import "github.com/cockroachdb/errors"

var (
	// ErrNotFound indicates the video does not exist or is not embeddable.
	ErrNotFound = errors.New("video not found")

	// ErrMissingAPIKey indicates search was attempted without credentials.
	ErrMissingAPIKey = errors.New("search requires an API key")
)
