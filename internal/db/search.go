package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/leadsearch/internal/domain/search/query"
	"github.com/kailas-cloud/leadsearch/internal/domain/search/sort"
)

// SearchRequest is the input for a paginated search.
type SearchRequest struct {
	Index string
	Query query.Clause
	// Sort is omitted from the request body when nil.
	Sort           *sort.Spec
	From           int
	Size           int
	TrackTotalHits bool
	// Scroll opens a scroll context with this keep-alive when non-zero.
	Scroll time.Duration
}

// Body renders the JSON request body.
func (r *SearchRequest) Body() ([]byte, error) {
	body := map[string]any{
		"query": r.Query.Source(),
		"size":  r.Size,
	}
	if r.Scroll == 0 {
		body["from"] = r.From
	}
	if r.Sort != nil {
		body["sort"] = r.Sort.Source()
	}
	if r.TrackTotalHits {
		body["track_total_hits"] = true
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}
	return data, nil
}

// CountRequest is the input for an exact count.
type CountRequest struct {
	Index string
	Query query.Clause
}

// Body renders the JSON request body.
func (r *CountRequest) Body() ([]byte, error) {
	data, err := json.Marshal(map[string]any{"query": r.Query.Source()})
	if err != nil {
		return nil, fmt.Errorf("marshal count body: %w", err)
	}
	return data, nil
}

// RelationGTE marks a total that is only a lower bound.
const RelationGTE = "gte"

// Total is the engine's hit count. Older engines report a bare number,
// newer ones an object {value, relation}.
type Total struct {
	Value    int64  `json:"value"`
	Relation string `json:"relation"`
}

// IsLowerBound reports whether the engine capped the count.
func (t Total) IsLowerBound() bool { return t.Relation == RelationGTE }

// UnmarshalJSON accepts both a bare number and the object form.
func (t *Total) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*t = Total{Value: n, Relation: "eq"}
		return nil
	}
	type plain Total
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode hits.total: %w", err)
	}
	*t = Total(p)
	return nil
}

// Hit is a single document from a search.
type Hit struct {
	ID     string          `json:"_id"`
	Source json.RawMessage `json:"_source"`
}

// SearchResponse is the output of a search or scroll page.
type SearchResponse struct {
	ScrollID string
	Total    Total
	Hits     []Hit
}
