package schema

// DateSortCandidates are timestamp fields in order of preference for
// default sorting.
var DateSortCandidates = []string{
	"created_at",
	"linked_created_at",
	"merged_created_at",
	"updated_at",
	"linked_updated_at",
	"@timestamp",
	"createdAt",
	"date_created",
}

// IDSortCandidates are domain identifier fields in order of preference.
var IDSortCandidates = []string{"linked_id", "id"}

// IntrinsicIDField is the engine-assigned document identifier.
const IntrinsicIDField = "_id"

// Fields maps a flattened field path to its mapping type.
type Fields map[string]string

// Has reports whether the field exists in the mapping.
func (f Fields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// DateSortField returns the first present timestamp candidate.
func (f Fields) DateSortField() (string, bool) {
	for _, c := range DateSortCandidates {
		if f.Has(c) {
			return c, true
		}
	}
	return "", false
}

// IDSort is the identifier chosen for tie-breaking.
// Sortable is false for the intrinsic _id: use document order instead.
type IDSort struct {
	Field    string
	Sortable bool
}

// IDSort returns the preferred identifier field.
func (f Fields) IDSort() IDSort {
	for _, c := range IDSortCandidates {
		if f.Has(c) {
			return IDSort{Field: c, Sortable: true}
		}
	}
	return IDSort{Field: IntrinsicIDField}
}
