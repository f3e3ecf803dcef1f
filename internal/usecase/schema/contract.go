package schema

import (
	"context"
	"encoding/json"
)

// MappingReader fetches the raw mapping document of an index.
type MappingReader interface {
	GetMapping(ctx context.Context, index string) (json.RawMessage, error)
}
