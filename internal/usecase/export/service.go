// Package export streams lead search matches as CSV.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/leadsearch/internal/db"
	"github.com/kailas-cloud/leadsearch/internal/domain"
	"github.com/kailas-cloud/leadsearch/internal/domain/lead"
	"github.com/kailas-cloud/leadsearch/internal/domain/search/result"
	"github.com/kailas-cloud/leadsearch/internal/domain/search/sort"
	"github.com/kailas-cloud/leadsearch/internal/logger"
	"github.com/kailas-cloud/leadsearch/internal/metrics"
	"github.com/kailas-cloud/leadsearch/internal/usecase/search"
)

// Defaults applied when Config leaves a value unset.
const (
	DefaultBatchSize = 500
	DefaultKeepAlive = time.Minute
)

// listSeparator joins array values inside one CSV cell.
const listSeparator = "; "

// Config controls export shape and limits.
type Config struct {
	Columns   []string
	BatchSize int
	// MaxRows caps the rows written; zero means unlimited.
	MaxRows   int
	KeepAlive time.Duration
}

// Summary describes a finished export.
type Summary struct {
	ID        string
	Index     string
	Rows      int
	Truncated bool
}

// Service writes CSV exports.
type Service struct {
	planner Planner
	engine  Scroller
	cfg     Config
}

// New creates an export service.
func New(planner Planner, engine Scroller, cfg Config) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = DefaultKeepAlive
	}
	cfg.Columns = withIDColumn(cfg.Columns)
	return &Service{planner: planner, engine: engine, cfg: cfg}
}

// Columns returns the CSV header.
func (s *Service) Columns() []string {
	return append([]string(nil), s.cfg.Columns...)
}

// Export writes every match of q to w in intrinsic document order.
// Pagination and sort in q are ignored. When MaxRows stops the export
// early the summary is returned together with domain.ErrExportLimit.
// If w implements Starter, Begin is called once the scroll is open and
// before the header row; errors returned earlier leave w untouched.
func (s *Service) Export(ctx context.Context, q lead.Query, w io.Writer) (Summary, error) {
	plan, err := s.planner.Plan(ctx, q)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{ID: uuid.New().String(), Index: plan.Index}
	log := logger.FromContext(ctx).With(zap.String("export_id", sum.ID), zap.String("index", plan.Index))

	intrinsic := sort.Intrinsic()
	resp, err := s.engine.Search(ctx, &db.SearchRequest{
		Index:          plan.Index,
		Query:          plan.Query,
		Sort:           &intrinsic,
		Size:           s.cfg.BatchSize,
		TrackTotalHits: true,
		Scroll:         s.cfg.KeepAlive,
	})
	if err != nil {
		return sum, fmt.Errorf("%w: open scroll: %w", domain.ErrSearchFailed, err)
	}

	scrollID := resp.ScrollID
	defer func() {
		if scrollID == "" {
			return
		}
		if err := s.engine.ClearScroll(context.WithoutCancel(ctx), scrollID); err != nil {
			log.Warn("Failed to clear scroll", zap.Error(err))
		}
	}()

	if st, ok := w.(Starter); ok {
		st.Begin(sum)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(s.cfg.Columns); err != nil {
		return sum, fmt.Errorf("write header: %w", err)
	}

	total := resp.Total.Value
	for len(resp.Hits) > 0 {
		for _, h := range resp.Hits {
			if s.cfg.MaxRows > 0 && sum.Rows >= s.cfg.MaxRows {
				sum.Truncated = true
				break
			}
			attrs, err := search.DecodeSource(h.Source)
			if err != nil {
				return sum, fmt.Errorf("decode hit %s: %w", h.ID, err)
			}
			if err := cw.Write(s.row(result.NewRecord(h.ID, attrs))); err != nil {
				return sum, fmt.Errorf("write row: %w", err)
			}
			sum.Rows++
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return sum, fmt.Errorf("flush rows: %w", err)
		}
		if s.cfg.MaxRows > 0 && sum.Rows >= s.cfg.MaxRows {
			sum.Truncated = sum.Truncated || total > int64(sum.Rows)
			break
		}

		resp, err = s.engine.Scroll(ctx, scrollID, s.cfg.KeepAlive)
		if err != nil {
			return sum, fmt.Errorf("%w: scroll: %w", domain.ErrSearchFailed, err)
		}
		if resp.ScrollID != "" {
			scrollID = resp.ScrollID
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return sum, fmt.Errorf("flush rows: %w", err)
	}
	metrics.ExportRowsTotal.Add(float64(sum.Rows))

	log.Info("Export finished", zap.Int("rows", sum.Rows), zap.Bool("truncated", sum.Truncated))
	if sum.Truncated {
		return sum, domain.ErrExportLimit
	}
	return sum, nil
}

func (s *Service) row(rec result.Record) []string {
	flat := rec.Flatten()
	out := make([]string, len(s.cfg.Columns))
	for i, col := range s.cfg.Columns {
		out[i] = FormatValue(lookup(flat, col))
	}
	return out
}

func withIDColumn(columns []string) []string {
	out := []string{result.IDKey}
	for _, c := range columns {
		c = strings.TrimSpace(c)
		if c == "" || c == result.IDKey {
			continue
		}
		out = append(out, c)
	}
	return out
}

// lookup resolves a column by exact key first, then as a dotted path into
// nested objects.
func lookup(attrs map[string]any, column string) any {
	if v, ok := attrs[column]; ok {
		return v
	}
	var cur any = attrs
	for _, part := range strings.Split(column, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		if cur, ok = m[part]; !ok {
			return nil
		}
	}
	return cur
}

// FormatValue renders one attribute as a CSV cell: strings as-is, numbers
// and booleans formatted, arrays joined with "; ", objects as JSON.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, FormatValue(item))
		}
		return strings.Join(parts, listSeparator)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}
