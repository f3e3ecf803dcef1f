package mappingcache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/leadsearch/internal/db"
)

type mockReader struct {
	mapping json.RawMessage
	err     error
	calls   int
}

func (m *mockReader) GetMapping(_ context.Context, _ string) (json.RawMessage, error) {
	m.calls++
	return m.mapping, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedReader(t *testing.T, inner *mockReader) (*CachedReader, *mockKVStore, *prometheus.CounterVec) {
	t.Helper()
	ms := &mockKVStore{}
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_mapping_cache_total"}, []string{"result"})
	cr := New(inner, ms, 5*time.Minute, counter, zap.NewNop())
	return cr, ms, counter
}
