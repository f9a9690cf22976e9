package youtube

import "github.com/cockroachdb/errors"

// NewProvider creates a metadata provider from its configured type.
func NewProvider(providerType string, settings map[string]any) (Provider, error) {
	switch providerType {
	case "youtube":
		return NewClient(settings)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, errors.Newf("unknown metadata provider type: %s", providerType)
	}
}
