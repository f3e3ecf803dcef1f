// Package search compiles lead filters into engine queries and runs them.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/leadsearch/internal/db"
	"github.com/kailas-cloud/leadsearch/internal/domain"
	"github.com/kailas-cloud/leadsearch/internal/domain/lead"
	"github.com/kailas-cloud/leadsearch/internal/domain/search/page"
	"github.com/kailas-cloud/leadsearch/internal/domain/search/query"
	"github.com/kailas-cloud/leadsearch/internal/domain/search/result"
	"github.com/kailas-cloud/leadsearch/internal/domain/search/sort"
	"github.com/kailas-cloud/leadsearch/internal/logger"
	"github.com/kailas-cloud/leadsearch/internal/metrics"
)

// Plan is everything needed to run one search.
type Plan struct {
	Index string
	Query query.Clause
	Sort  sort.Spec
	Page  page.Page
}

// Service runs lead searches.
type Service struct {
	engine      Engine
	indices     IndexResolver
	fields      FieldResolver
	callTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithCallTimeout bounds every individual engine call. Zero disables the bound.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Service) { s.callTimeout = d }
}

// New creates a search service.
func New(engine Engine, indices IndexResolver, fields FieldResolver, opts ...Option) *Service {
	s := &Service{engine: engine, indices: indices, fields: fields}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Plan resolves the index, compiles the filters and picks the sort order.
// It fails only when no candidate index exists.
func (s *Service) Plan(ctx context.Context, q lead.Query) (Plan, error) {
	callCtx, cancel := s.bound(ctx)
	res := s.indices.Resolve(callCtx)
	cancel()
	if !res.Found() {
		metrics.IndexResolutionFailuresTotal.Inc()
		return Plan{}, &domain.IndexUnavailableError{Tried: res.Tried}
	}

	pg := q.Page
	if pg.IsZero() {
		pg = page.Default()
	}

	return Plan{
		Index: res.Index,
		Query: Compile(q.Filters),
		Sort:  s.sortFor(ctx, res.Index, q.Sort),
		Page:  pg,
	}, nil
}

// Search plans and executes one page of a lead search.
func (s *Service) Search(ctx context.Context, q lead.Query) (result.Result, error) {
	plan, err := s.Plan(ctx, q)
	if err != nil {
		return result.Result{}, err
	}
	return s.Execute(ctx, plan)
}

// Execute runs a plan. A failed search is retried once without sort; a
// capped total is replaced by an exact count when that count succeeds.
func (s *Service) Execute(ctx context.Context, plan Plan) (result.Result, error) {
	log := logger.FromContext(ctx)

	req := &db.SearchRequest{
		Index:          plan.Index,
		Query:          plan.Query,
		Sort:           &plan.Sort,
		From:           plan.Page.Offset(),
		Size:           plan.Page.Limit(),
		TrackTotalHits: true,
	}

	resp, err := s.search(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return result.Result{}, classify(err)
		}
		log.Warn("Search failed, retrying without sort",
			zap.String("index", plan.Index), zap.Error(err))
		metrics.SearchRetriesTotal.Inc()

		retry := *req
		retry.Sort = nil
		resp, err = s.search(ctx, &retry)
		if err != nil {
			log.Error("Search failed after retry",
				zap.String("index", plan.Index), zap.Error(err))
			return result.Result{}, classify(err)
		}
	}

	records, err := toRecords(resp.Hits)
	if err != nil {
		return result.Result{}, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}

	return result.Result{
		Index:   plan.Index,
		Total:   s.reconcileTotal(ctx, plan, resp.Total),
		Offset:  plan.Page.Offset(),
		Limit:   plan.Page.Limit(),
		Records: records,
	}, nil
}

// sortFor honors a valid explicit sort field and otherwise derives the
// order from the index mapping.
func (s *Service) sortFor(ctx context.Context, index string, req sort.Request) sort.Spec {
	if req.Field != "" {
		if sort.ValidField(req.Field) {
			return sort.By(sort.Field{Name: req.Field, Direction: sort.ParseDirection(req.Direction)})
		}
		logger.FromContext(ctx).Warn("Ignoring invalid sort field", zap.String("sort_field", req.Field))
	}
	return s.autoSort(ctx, index)
}

func (s *Service) autoSort(ctx context.Context, index string) sort.Spec {
	callCtx, cancel := s.bound(ctx)
	defer cancel()

	fields, err := s.fields.Fields(callCtx, index)
	if err != nil {
		logger.FromContext(ctx).Warn("Falling back to document order",
			zap.String("index", index), zap.Error(err))
		return sort.Intrinsic()
	}

	var keys []sort.Field
	if date, ok := fields.DateSortField(); ok {
		keys = append(keys, sort.Field{Name: date, Direction: sort.Desc, MissingLast: true})
	}
	if id := fields.IDSort(); id.Sortable {
		keys = append(keys, sort.Field{Name: id.Field, Direction: sort.Desc})
	}
	return sort.By(keys...)
}

func (s *Service) reconcileTotal(ctx context.Context, plan Plan, total db.Total) int64 {
	if !total.IsLowerBound() {
		return total.Value
	}

	callCtx, cancel := s.bound(ctx)
	defer cancel()

	n, err := s.engine.Count(callCtx, &db.CountRequest{Index: plan.Index, Query: plan.Query})
	if err != nil {
		logger.FromContext(ctx).Warn("Count reconciliation failed, keeping estimate",
			zap.String("index", plan.Index),
			zap.Int64("estimate", total.Value),
			zap.Error(err),
		)
		metrics.CountReconciliationTotal.WithLabelValues("estimate").Inc()
		return total.Value
	}
	metrics.CountReconciliationTotal.WithLabelValues("exact").Inc()
	return n
}

func (s *Service) search(ctx context.Context, req *db.SearchRequest) (*db.SearchResponse, error) {
	callCtx, cancel := s.bound(ctx)
	defer cancel()
	return s.engine.Search(callCtx, req)
}

func (s *Service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.callTimeout)
}

// classify maps an engine failure to the structural or generic domain error.
func classify(err error) error {
	if ee, ok := db.AsEngineError(err); ok && ee.Structural() {
		metrics.SearchFailuresTotal.WithLabelValues("structural").Inc()
		return &domain.SearchEngineError{Detail: ee.Detail(), Err: err}
	}
	metrics.SearchFailuresTotal.WithLabelValues("transient").Inc()
	return fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
}

func toRecords(hits []db.Hit) ([]result.Record, error) {
	records := make([]result.Record, 0, len(hits))
	for _, h := range hits {
		attrs, err := DecodeSource(h.Source)
		if err != nil {
			return nil, fmt.Errorf("decode hit %s: %w", h.ID, err)
		}
		records = append(records, result.NewRecord(h.ID, attrs))
	}
	return records, nil
}

// DecodeSource decodes a document source, keeping numbers exact.
// A missing or null source yields an empty attribute bag.
func DecodeSource(raw json.RawMessage) (map[string]any, error) {
	attrs := map[string]any{}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return attrs, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&attrs); err != nil {
		return nil, err
	}
	if attrs == nil {
		return map[string]any{}, nil
	}
	return attrs, nil
}
