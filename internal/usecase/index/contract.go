package index

import "context"

// Prober checks whether an index or alias exists.
type Prober interface {
	IndexExists(ctx context.Context, name string) (bool, error)
}
