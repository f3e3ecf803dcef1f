package leadsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/leadsearch/internal/db"
	dbOpenSearch "github.com/kailas-cloud/leadsearch/internal/db/opensearch"
	dbValkey "github.com/kailas-cloud/leadsearch/internal/db/valkey"
	"github.com/kailas-cloud/leadsearch/internal/domain/lead"
	"github.com/kailas-cloud/leadsearch/internal/domain/search/query"
	"github.com/kailas-cloud/leadsearch/internal/domain/search/result"
	"github.com/kailas-cloud/leadsearch/internal/metrics"
	"github.com/kailas-cloud/leadsearch/internal/repository/mappingcache"
	exportuc "github.com/kailas-cloud/leadsearch/internal/usecase/export"
	healthuc "github.com/kailas-cloud/leadsearch/internal/usecase/health"
	indexuc "github.com/kailas-cloud/leadsearch/internal/usecase/index"
	schemauc "github.com/kailas-cloud/leadsearch/internal/usecase/schema"
	searchuc "github.com/kailas-cloud/leadsearch/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCallTimeout      = 15 * time.Second
	defaultCacheTTL         = 5 * time.Minute
)

// Internal interfaces, substituted in tests.
type searchUseCase interface {
	Search(ctx context.Context, q lead.Query) (result.Result, error)
}

type exportUseCase interface {
	Export(ctx context.Context, q lead.Query, w io.Writer) (exportuc.Summary, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Page is one page of search results.
type Page struct {
	Index string
	Total int64
	From  int
	Size  int
	// Leads hold the document id under "_id" plus every source attribute.
	Leads []map[string]any
}

// ExportSummary describes a finished export.
type ExportSummary struct {
	ID        string
	Index     string
	Rows      int
	Truncated bool
}

// HealthStatus represents the aggregated dependency health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Client runs lead searches against OpenSearch.
type Client struct {
	closers   []func()
	searchSvc searchUseCase
	exportSvc exportUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and waits for the cluster to answer.
// The provided context is used for the readiness checks.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		callTimeout: defaultCallTimeout,
		cacheTTL:    defaultCacheTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addresses) == 0 {
		return nil, errors.New("leadsearch: cluster address required (use WithOpenSearch)")
	}

	store, err := dbOpenSearch.NewStore(dbOpenSearch.Config{
		Addresses:          cfg.addresses,
		Username:           cfg.username,
		Password:           cfg.password,
		InsecureSkipVerify: cfg.insecure,
	})
	if err != nil {
		return nil, fmt.Errorf("leadsearch: create search client: %w", err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		return nil, fmt.Errorf("leadsearch: cluster not ready: %w", err)
	}

	var (
		mappings db.MappingReader = store
		cache    healthuc.Pinger
		closers  []func()
	)
	if len(cfg.cacheAddrs) > 0 {
		kv, err := dbValkey.NewStore(dbValkey.Config{Addrs: cfg.cacheAddrs, Password: cfg.cachePassword})
		if err != nil {
			return nil, fmt.Errorf("leadsearch: create valkey store: %w", err)
		}
		if err := kv.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			kv.Close()
			return nil, fmt.Errorf("leadsearch: cache not ready: %w", err)
		}
		mappings = mappingcache.New(store, kv, cfg.cacheTTL, metrics.MappingCacheTotal, zap.NewNop())
		cache = kv
		closers = append(closers, kv.Close)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, err
	}

	c := wireClient(store, mappings, cache, cfg, obs)
	c.closers = closers
	return c, nil
}

func wireClient(engine db.Engine, mappings db.MappingReader, cache healthuc.Pinger, cfg *clientConfig, obs *observer) *Client {
	candidates := indexuc.Candidates(cfg.index, cfg.fallback, indexuc.DefaultCandidates)
	searchSvc := searchuc.New(
		engine,
		indexuc.NewResolver(engine, candidates),
		schemauc.NewResolver(mappings),
		searchuc.WithCallTimeout(cfg.callTimeout),
	)
	return &Client{
		searchSvc: searchSvc,
		exportSvc: exportuc.New(searchSvc, engine, exportuc.Config{
			Columns: cfg.exportColumns,
			MaxRows: cfg.exportMaxRows,
		}),
		healthSvc: healthuc.New(engine, cache),
		obs:       obs,
	}
}

// Close releases the cache connection, if any.
func (c *Client) Close() {
	for _, fn := range c.closers {
		fn()
	}
}

// Search runs one page of a lead search. params use the HTTP query
// vocabulary, including limit, offset, sort_field and sort_dir.
func (c *Client) Search(ctx context.Context, params url.Values) (_ Page, err error) {
	defer func(start time.Time) { c.obs.observe("search", start, err) }(time.Now())

	q, err := lead.ParseQuery(params)
	if err != nil {
		return Page{}, err
	}
	res, err := c.searchSvc.Search(ctx, q)
	if err != nil {
		return Page{}, err
	}

	leads := make([]map[string]any, 0, len(res.Records))
	for _, r := range res.Records {
		leads = append(leads, r.Flatten())
	}
	return Page{
		Index: res.Index,
		Total: res.Total,
		From:  res.Offset,
		Size:  res.Limit,
		Leads: leads,
	}, nil
}

// Export writes every match of params to w as CSV. Pagination and sort
// parameters are ignored. A capped export returns its summary together
// with an error matching domain.ErrExportLimit.
func (c *Client) Export(ctx context.Context, params url.Values, w io.Writer) (_ ExportSummary, err error) {
	defer func(start time.Time) { c.obs.observe("export", start, err) }(time.Now())

	q, err := lead.ParseQuery(params)
	if err != nil {
		return ExportSummary{}, err
	}
	sum, err := c.exportSvc.Export(ctx, q, w)
	return ExportSummary{
		ID:        sum.ID,
		Index:     sum.Index,
		Rows:      sum.Rows,
		Truncated: sum.Truncated,
	}, err
}

// Health checks the cluster and, when configured, the cache.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// Compile returns the OpenSearch query DSL for params without contacting
// the cluster.
func Compile(params url.Values) (json.RawMessage, error) {
	q, err := lead.ParseQuery(params)
	if err != nil {
		return nil, err
	}
	data, err := query.Marshal(searchuc.Compile(q.Filters))
	if err != nil {
		return nil, fmt.Errorf("leadsearch: render query: %w", err)
	}
	return data, nil
}
