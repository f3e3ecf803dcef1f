package leadsearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addresses []string
	username  string
	password  string
	insecure  bool

	index    string
	fallback string

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	callTimeout   time.Duration
	exportColumns []string
	exportMaxRows int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithOpenSearch sets the cluster node URLs.
func WithOpenSearch(addresses ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addresses = addresses
	})
}

// WithBasicAuth sets cluster credentials.
func WithBasicAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithInsecureSkipVerify disables TLS certificate checks. Local clusters only.
func WithInsecureSkipVerify() Option {
	return optionFunc(func(c *clientConfig) {
		c.insecure = true
	})
}

// WithIndex sets the primary and fallback index candidates, each
// comma-separated. The built-in defaults are always probed after them.
func WithIndex(primary, fallback string) Option {
	return optionFunc(func(c *clientConfig) {
		c.index = primary
		c.fallback = fallback
	})
}

// WithValkeyCache caches index mappings in Valkey for ttl.
func WithValkeyCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithCallTimeout bounds every engine call. Default: 15s.
func WithCallTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.callTimeout = d
	})
}

// WithExport sets the CSV columns and the row cap (0 = unlimited).
func WithExport(columns []string, maxRows int) Option {
	return optionFunc(func(c *clientConfig) {
		c.exportColumns = columns
		c.exportMaxRows = maxRows
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
