package export

import (
	"context"
	"time"

	"github.com/kailas-cloud/leadsearch/internal/db"
	"github.com/kailas-cloud/leadsearch/internal/domain/lead"
	"github.com/kailas-cloud/leadsearch/internal/usecase/search"
)

// Planner resolves the index and compiles the query for a request.
type Planner interface {
	Plan(ctx context.Context, q lead.Query) (search.Plan, error)
}

// Scroller pages through every match of a query.
type Scroller interface {
	Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResponse, error)
	Scroll(ctx context.Context, scrollID string, keepAlive time.Duration) (*db.SearchResponse, error)
	ClearScroll(ctx context.Context, scrollID string) error
}

// Starter is implemented by writers that need the export identity before
// the first byte is written, such as an HTTP response setting headers.
type Starter interface {
	Begin(sum Summary)
}
