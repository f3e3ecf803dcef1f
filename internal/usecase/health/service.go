// Package health aggregates dependency checks.
package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the search engine is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentSearchEngine = "search_engine"
	ComponentCache        = "cache"
)

// DefaultCheckTimeout bounds each component check.
const DefaultCheckTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	engine  Pinger
	cache   Pinger
	timeout time.Duration
}

// New creates a Service. cache can be nil when caching is disabled.
func New(engine, cache Pinger) *Service {
	return &Service{engine: engine, cache: cache, timeout: DefaultCheckTimeout}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		ComponentSearchEngine: s.ping(ctx, s.engine),
	}
	if s.cache != nil {
		checks[ComponentCache] = s.ping(ctx, s.cache)
	}

	status := Healthy
	switch {
	case checks[ComponentSearchEngine] == CheckError:
		status = Unhealthy
	case checks[ComponentCache] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) ping(ctx context.Context, p Pinger) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
