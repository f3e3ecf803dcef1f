package search

import (
	"context"

	"github.com/kailas-cloud/leadsearch/internal/db"
	"github.com/kailas-cloud/leadsearch/internal/usecase/index"
	"github.com/kailas-cloud/leadsearch/internal/usecase/schema"
)

// Engine runs searches and exact counts.
type Engine interface {
	Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResponse, error)
	Count(ctx context.Context, req *db.CountRequest) (int64, error)
}

// IndexResolver picks the index to query.
type IndexResolver interface {
	Resolve(ctx context.Context) index.Resolution
}

// FieldResolver discovers the field layout of an index.
type FieldResolver interface {
	Fields(ctx context.Context, index string) (schema.Fields, error)
}
