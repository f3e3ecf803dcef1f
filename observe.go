package leadsearch

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/leadsearch/internal/domain"
)

// clientMetrics are registered only when WithPrometheus is given.
type clientMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newClientMetrics(reg prometheus.Registerer) (*clientMetrics, error) {
	m := &clientMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadsearch",
			Subsystem: "client",
			Name:      "calls_total",
			Help:      "Embedded client calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leadsearch",
			Subsystem: "client",
			Name:      "call_duration_seconds",
			Help:      "Embedded client call duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.calls); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or adopts the one already registered,
// so several clients can share a registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("leadsearch: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("leadsearch: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// outcome buckets an error into the classes callers act on differently.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidFilter):
		return "invalid"
	case errors.Is(err, domain.ErrIndexUnavailable):
		return "no_index"
	case errors.Is(err, domain.ErrExportLimit):
		return "truncated"
	case errors.Is(err, domain.ErrSearchEngine):
		return "rejected"
	default:
		return "error"
	}
}

type observer struct {
	logger  *slog.Logger
	metrics *clientMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newClientMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	out := outcome(err)

	if o.metrics != nil {
		o.metrics.calls.WithLabelValues(op, out).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	switch out {
	case "ok", "truncated":
		o.logger.Debug("operation completed", "op", op, "outcome", out, "duration", dur)
	default:
		o.logger.Warn("operation failed", "op", op, "outcome", out, "duration", dur, "error", err)
	}
}
