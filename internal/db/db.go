package db

import (
	"context"
	"encoding/json"
	"time"
)

// Engine is the search-engine facade combining all sub-interfaces.
// Consumers depend on the narrow interfaces below.
type Engine interface {
	Pinger
	IndexProber
	MappingReader
	Searcher
	Scroller
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexProber checks index existence.
type IndexProber interface {
	IndexExists(ctx context.Context, name string) (bool, error)
}

// MappingReader fetches the raw mapping document of an index.
type MappingReader interface {
	GetMapping(ctx context.Context, index string) (json.RawMessage, error)
}

// Searcher runs searches and counts.
type Searcher interface {
	Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error)
	Count(ctx context.Context, req *CountRequest) (int64, error)
}

// Scroller pages through large result sets.
type Scroller interface {
	Scroll(ctx context.Context, scrollID string, keepAlive time.Duration) (*SearchResponse, error)
	ClearScroll(ctx context.Context, scrollID string) error
}

// KVStore is the key-value cache used for engine metadata.
type KVStore interface {
	Pinger
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
