package mappingcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/leadsearch/internal/db"
)

// KeyPrefix namespaces cached mappings in the shared key-value store.
const KeyPrefix = "leadsearch:mapping:"

// store is the consumer interface for the mapping cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedReader caches raw index mappings in a key-value store.
type CachedReader struct {
	inner      db.MappingReader
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator around a mapping reader.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner db.MappingReader,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedReader {
	return &CachedReader{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// GetMapping returns a cached mapping or reads it from the engine.
// Cache failures are logged and bypassed.
func (c *CachedReader) GetMapping(ctx context.Context, index string) (json.RawMessage, error) {
	key := KeyPrefix + index

	if data, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return data, nil
	}

	c.incCache("miss")

	data, err := c.inner.GetMapping(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}

	c.putToCache(ctx, key, data)
	return data, nil
}

func (c *CachedReader) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedReader) getFromCache(ctx context.Context, key string) (json.RawMessage, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached mapping", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}
	if !json.Valid(data) {
		c.logger.Warn("Discarding malformed cached mapping", zap.String("key", key))
		return nil, false
	}
	return data, true
}

func (c *CachedReader) putToCache(ctx context.Context, key string, data json.RawMessage) {
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache mapping", zap.String("key", key), zap.Error(err))
	}
}
