// Package engine decorates the search engine driver with observability.
package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/leadsearch/internal/db"
	"github.com/kailas-cloud/leadsearch/internal/logger"
)

// Compile-time check: Instrumented implements db.Engine.
var _ db.Engine = (*Instrumented)(nil)

// Instrumented wraps db.Engine with call duration metrics and debug logging.
type Instrumented struct {
	inner    db.Engine
	duration *prometheus.HistogramVec
	logger   *zap.Logger
}

// NewInstrumented wraps an engine. duration is a histogram vec with labels
// "op" and "outcome", passed explicitly; nil disables metrics.
func NewInstrumented(inner db.Engine, duration *prometheus.HistogramVec, logger *zap.Logger) *Instrumented {
	return &Instrumented{inner: inner, duration: duration, logger: logger}
}

func (e *Instrumented) observe(ctx context.Context, op string, start time.Time, err error) {
	elapsed := time.Since(start)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	if e.duration != nil {
		e.duration.WithLabelValues(op, outcome).Observe(elapsed.Seconds())
	}
	if err != nil {
		logger.FromContextOr(ctx, e.logger).Debug("Engine call failed",
			zap.String("op", op),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
	}
}

// Ping checks connectivity.
func (e *Instrumented) Ping(ctx context.Context) error {
	start := time.Now()
	err := e.inner.Ping(ctx)
	e.observe(ctx, db.OpPing, start, err)
	return err
}

// WaitForReady delegates without instrumentation; it runs once at startup.
func (e *Instrumented) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return e.inner.WaitForReady(ctx, timeout)
}

// IndexExists checks index existence.
func (e *Instrumented) IndexExists(ctx context.Context, name string) (bool, error) {
	start := time.Now()
	ok, err := e.inner.IndexExists(ctx, name)
	e.observe(ctx, db.OpIndexExists, start, err)
	return ok, err
}

// GetMapping reads an index mapping.
func (e *Instrumented) GetMapping(ctx context.Context, index string) (json.RawMessage, error) {
	start := time.Now()
	raw, err := e.inner.GetMapping(ctx, index)
	e.observe(ctx, db.OpGetMapping, start, err)
	return raw, err
}

// Search runs a search.
func (e *Instrumented) Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResponse, error) {
	start := time.Now()
	resp, err := e.inner.Search(ctx, req)
	e.observe(ctx, db.OpSearch, start, err)
	return resp, err
}

// Count runs an exact count.
func (e *Instrumented) Count(ctx context.Context, req *db.CountRequest) (int64, error) {
	start := time.Now()
	n, err := e.inner.Count(ctx, req)
	e.observe(ctx, db.OpCount, start, err)
	return n, err
}

// Scroll fetches the next scroll page.
func (e *Instrumented) Scroll(ctx context.Context, scrollID string, keepAlive time.Duration) (*db.SearchResponse, error) {
	start := time.Now()
	resp, err := e.inner.Scroll(ctx, scrollID, keepAlive)
	e.observe(ctx, db.OpScroll, start, err)
	return resp, err
}

// ClearScroll releases a scroll context.
func (e *Instrumented) ClearScroll(ctx context.Context, scrollID string) error {
	start := time.Now()
	err := e.inner.ClearScroll(ctx, scrollID)
	e.observe(ctx, db.OpClearScroll, start, err)
	return err
}
