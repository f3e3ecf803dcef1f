// Package schema discovers the field layout of a lead index.
package schema

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/leadsearch/internal/domain"
)

// Resolver reads and flattens index mappings.
type Resolver struct {
	reader MappingReader
}

// NewResolver creates a Resolver.
func NewResolver(reader MappingReader) *Resolver {
	return &Resolver{reader: reader}
}

// Fields returns the flattened field map of index.
// Every failure wraps domain.ErrSchemaDiscovery; callers decide how to fall back.
func (r *Resolver) Fields(ctx context.Context, index string) (Fields, error) {
	raw, err := r.reader.GetMapping(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch mapping of %q: %w", domain.ErrSchemaDiscovery, index, err)
	}
	fields, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", domain.ErrSchemaDiscovery, index, err)
	}
	return fields, nil
}
