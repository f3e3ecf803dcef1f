package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/leadsearch/internal/domain"
	"github.com/kailas-cloud/leadsearch/internal/domain/lead"
	"github.com/kailas-cloud/leadsearch/internal/domain/search/result"
	"github.com/kailas-cloud/leadsearch/internal/logger"
	exportuc "github.com/kailas-cloud/leadsearch/internal/usecase/export"
	healthuc "github.com/kailas-cloud/leadsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/leadsearch/internal/usecase/search"
)

// Route paths.
const (
	PathSearch  = "/api/leads/search"
	PathExport  = "/api/leads/export"
	PathHealth  = "/health"
	PathMetrics = "/metrics"
)

// errorHandler writes a response for err and reports whether it did.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server implements the HTTP API on top of the use case services.
type Server struct {
	search        *searchuc.Service
	export        *exportuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	export *exportuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search: search,
		export: export,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		invalidFilterHandler,
		indexUnavailableHandler,
		searchEngineHandler,
	}
	return s
}

// Register mounts every route on r.
func (s *Server) Register(r gochi.Router) {
	r.Get(PathSearch, s.SearchLeads)
	r.Get(PathExport, s.ExportLeads)
	r.Get(PathHealth, s.HealthCheck)
	r.Get(PathMetrics, s.Metrics)
}

type searchMeta struct {
	Index string `json:"index"`
	Total int64  `json:"total"`
	From  int    `json:"from"`
	Size  int    `json:"size"`
}

type searchResponse struct {
	Meta searchMeta      `json:"meta"`
	Data []result.Record `json:"data"`
}

// SearchLeads handles GET /api/leads/search.
func (s *Server) SearchLeads(w http.ResponseWriter, r *http.Request) {
	q, err := lead.ParseQuery(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.search.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	data := res.Records
	if data == nil {
		data = []result.Record{}
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Meta: searchMeta{
			Index: res.Index,
			Total: res.Total,
			From:  res.Offset,
			Size:  res.Limit,
		},
		Data: data,
	})
}

// ExportLeads handles GET /api/leads/export. Failures before the scroll
// opens are reported as JSON; once rows stream the status is already sent
// and errors are only logged. The server write timeout does not apply.
func (s *Server) ExportLeads(w http.ResponseWriter, r *http.Request) {
	q, err := lead.ParseQuery(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	cw := &csvResponse{w: w}
	sum, err := s.export.Export(r.Context(), q, cw)
	switch {
	case err == nil:
	case !cw.started:
		s.handleDomainError(w, r, err)
	case errors.Is(err, domain.ErrExportLimit):
		logger.FromContextOr(r.Context(), s.logger).Info("Export truncated",
			zap.String("export_id", sum.ID),
			zap.Int("rows", sum.Rows),
		)
	default:
		logger.FromContextOr(r.Context(), s.logger).Error("Export aborted",
			zap.String("export_id", sum.ID),
			zap.Int("rows", sum.Rows),
			zap.Error(err),
		)
	}
}

// csvResponse sets the download headers once the export has started.
type csvResponse struct {
	w       http.ResponseWriter
	started bool
}

func (c *csvResponse) Begin(sum exportuc.Summary) {
	c.started = true
	h := c.w.Header()
	h.Set("Content-Type", "text/csv; charset=utf-8")
	h.Set("Content-Disposition", `attachment; filename="leads-`+sum.ID+`.csv"`)
	h.Set("X-Export-ID", sum.ID)
	c.w.WriteHeader(http.StatusOK)
}

func (c *csvResponse) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if f, ok := c.w.(http.Flusher); ok {
		f.Flush()
	}
	return n, err
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

type errorResponse struct {
	Message string         `json:"message"`
	Tried   []string       `json:"tried,omitempty"`
	Detail  map[string]any `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// invalidFilterHandler rejects malformed or unknown parameters. The decoder
// message names the offending key, so it is passed through.
func invalidFilterHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrInvalidFilter) {
		return false
	}
	writeError(w, http.StatusBadRequest, err.Error())
	return true
}

func indexUnavailableHandler(w http.ResponseWriter, err error) bool {
	var iue *domain.IndexUnavailableError
	if !errors.As(err, &iue) {
		return false
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Message: domain.ErrIndexUnavailable.Error(),
		Tried:   iue.Tried,
	})
	return true
}

func searchEngineHandler(w http.ResponseWriter, err error) bool {
	var see *domain.SearchEngineError
	if !errors.As(err, &see) {
		return false
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Message: domain.ErrSearchEngine.Error(),
		Detail:  see.Detail,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	if errors.Is(err, domain.ErrInvalidFilter) {
		log.Info("rejected request", zap.Error(err))
	} else {
		log.Error("request failed", zap.Error(err))
	}

	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	writeError(w, http.StatusInternalServerError, domain.ErrSearchFailed.Error())
}
