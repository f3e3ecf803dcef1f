// Package index picks the physical lead index a request runs against.
package index

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/leadsearch/internal/logger"
)

// DefaultCandidates are probed after the configured indices.
var DefaultCandidates = []string{"merged_leads", "linked_leads", "leads"}

// Resolution is the outcome of probing the candidate list.
// Index is empty when no candidate exists; Tried lists every probed name.
type Resolution struct {
	Index string
	Tried []string
}

// Found reports whether a candidate exists.
func (r Resolution) Found() bool { return r.Index != "" }

// Candidates builds the ordered candidate list from the comma-separated
// primary and fallback settings followed by defaults, without duplicates.
func Candidates(primary, fallback string, defaults []string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	for _, raw := range []string{primary, fallback} {
		for _, name := range strings.Split(raw, ",") {
			add(name)
		}
	}
	for _, name := range defaults {
		add(name)
	}
	return out
}

// Resolver probes candidates in order.
type Resolver struct {
	prober     Prober
	candidates []string
}

// NewResolver creates a Resolver over a fixed candidate list.
func NewResolver(prober Prober, candidates []string) *Resolver {
	return &Resolver{prober: prober, candidates: candidates}
}

// Candidates returns the configured candidate list.
func (r *Resolver) Candidates() []string {
	return append([]string(nil), r.candidates...)
}

// Resolve returns the first existing candidate.
// A failed probe is logged and the candidate is treated as missing.
func (r *Resolver) Resolve(ctx context.Context) Resolution {
	res := Resolution{Tried: make([]string, 0, len(r.candidates))}
	for _, name := range r.candidates {
		res.Tried = append(res.Tried, name)

		exists, err := r.prober.IndexExists(ctx, name)
		if err != nil {
			logger.FromContext(ctx).Warn("Index probe failed",
				zap.String("index", name), zap.Error(err))
			continue
		}
		if exists {
			res.Index = name
			return res
		}
	}
	return res
}
